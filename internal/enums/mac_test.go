package enums

import (
	"regexp"
	"testing"
)

var canonicalMAC = regexp.MustCompile(`^[0-9A-F]{2}(:[0-9A-F]{2}){5}$`)

func TestNormalizeMAC_VendorForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"aabb-ccdd-eeff", "AA:BB:CC:DD:EE:FF"},       // HPE Comware
		{"aabb.ccdd.eeff", "AA:BB:CC:DD:EE:FF"},       // Cisco
		{"AA-BB-CC-DD-EE-FF", "AA:BB:CC:DD:EE:FF"},    // hyphenated
		{"aabbccddeeff", "AA:BB:CC:DD:EE:FF"},         // bare
		{"aa:bb:cc:dd:ee:ff", "AA:BB:CC:DD:EE:FF"},    // already colon-form, lower
		{"00:0c:29:aa:bb:01", "00:0C:29:AA:BB:01"},
	}
	for _, c := range cases {
		got, err := NormalizeMAC(c.in)
		if err != nil {
			t.Errorf("NormalizeMAC(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeMAC(%q) = %q, want %q", c.in, got, c.want)
		}
		if !canonicalMAC.MatchString(got) {
			t.Errorf("NormalizeMAC(%q) = %q does not match canonical form", c.in, got)
		}
	}
}

func TestNormalizeMAC_Idempotent(t *testing.T) {
	once, err := NormalizeMAC("aabb.ccdd.eeff")
	if err != nil {
		t.Fatal(err)
	}
	twice, err := NormalizeMAC(once)
	if err != nil {
		t.Fatalf("normalizing an already-canonical MAC failed: %v", err)
	}
	if once != twice {
		t.Fatalf("NormalizeMAC not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeMAC_Rejects(t *testing.T) {
	for _, in := range []string{"", "aabb-ccdd", "aabb-ccdd-eeff-0011", "zzbb-ccdd-eeff", "not a mac"} {
		if _, err := NormalizeMAC(in); err == nil {
			t.Errorf("NormalizeMAC(%q) expected error", in)
		}
	}
}

func TestOctetsToMAC(t *testing.T) {
	mac, err := OctetsToMAC([6]int{0, 17, 171, 203, 222, 239})
	if err != nil {
		t.Fatal(err)
	}
	if mac != "00:11:AB:CB:DE:EF" {
		t.Fatalf("OctetsToMAC = %q, want 00:11:AB:CB:DE:EF", mac)
	}
	if _, err := OctetsToMAC([6]int{0, 0, 0, 0, 0, 256}); err == nil {
		t.Fatal("expected error for out-of-range octet")
	}
}

func TestValidVLAN(t *testing.T) {
	for vlan, want := range map[int]bool{0: false, 1: true, 100: true, 4094: true, 4095: false, -5: false} {
		if got := ValidVLAN(vlan); got != want {
			t.Errorf("ValidVLAN(%d) = %v, want %v", vlan, got, want)
		}
	}
}
