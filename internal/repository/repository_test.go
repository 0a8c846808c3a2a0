package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nwmaint/collectord/internal/record"
)

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	items := []record.FanStatus{mustFan(t, "Fan 1/1", "ok"), mustFan(t, "Fan 1/2", "fail")}
	a := Fingerprint(items)
	b := Fingerprint(items)
	if a != b {
		t.Fatalf("fingerprint not stable: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d, want 16", len(a))
	}
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a := Fingerprint([]record.FanStatus{mustFan(t, "Fan 1/1", "ok")})
	b := Fingerprint([]record.FanStatus{mustFan(t, "Fan 1/1", "fail")})
	if a == b {
		t.Fatal("fingerprint did not change when status changed")
	}
}

func TestFingerprint_EmptySliceIsStable(t *testing.T) {
	a := Fingerprint([]record.FanStatus{})
	b := Fingerprint([]record.FanStatus(nil))
	if a != b {
		t.Fatalf("empty and nil slices should fingerprint the same: %q vs %q", a, b)
	}
}

func TestFingerprint_AbsentDiffersFromPresentZeroValue(t *testing.T) {
	unset, err := record.NewPing("10.0.0.1", nil)
	if err != nil {
		t.Fatal(err)
	}
	falseVal := false
	set, err := record.NewPing("10.0.0.1", &falseVal)
	if err != nil {
		t.Fatal(err)
	}
	a := Fingerprint([]record.Ping{unset})
	b := Fingerprint([]record.Ping{set})
	if a == b {
		t.Fatal("absent reachability must not fingerprint the same as an explicit false")
	}
}

func TestFingerprint_ClientIdentityFieldsExcluded(t *testing.T) {
	vlan := 10
	a, err := record.NewClient("aabb.ccdd.ee01", "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	a.SwitchHostname = "SW-01"
	a.InterfaceName = "Gi1/0/1"
	a.VlanID = &vlan

	// Same behavior fields, different MAC and IP: identity only.
	b, err := record.NewClient("aabb.ccdd.ee02", "10.0.0.2")
	if err != nil {
		t.Fatal(err)
	}
	b.SwitchHostname = "SW-01"
	b.InterfaceName = "Gi1/0/1"
	b.VlanID = &vlan

	if Fingerprint([]record.Client{a}) != Fingerprint([]record.Client{b}) {
		t.Fatal("lists differing only in identity fields must fingerprint the same")
	}

	c := b
	c.InterfaceName = "Gi1/0/2"
	if Fingerprint([]record.Client{b}) == Fingerprint([]record.Client{c}) {
		t.Fatal("a changed behavior field must change the fingerprint")
	}
}

func TestDecodeRawData_RoundTrip(t *testing.T) {
	long := strings.Repeat("1.3.6.1.2.1.31.1.1.1.1.5 = GigabitEthernet1/0/5\n", 500)
	compressed := zstdEncoder.EncodeAll([]byte(long), nil)

	got, err := DecodeRawData("", compressed)
	if err != nil {
		t.Fatalf("DecodeRawData: %v", err)
	}
	if got != long {
		t.Fatal("decompressed raw_data does not round-trip")
	}

	plain, err := DecodeRawData("short output", nil)
	if err != nil {
		t.Fatalf("DecodeRawData plain: %v", err)
	}
	if plain != "short output" {
		t.Fatalf("plain raw_data changed: %q", plain)
	}
}

func mustFan(t *testing.T, id, status string) record.FanStatus {
	t.Helper()
	f, err := record.NewFanStatus(id, status)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// TestSaveBatch_SkipsUnchangedContent exercises the no-write-on-unchanged
// path against a real Postgres instance when available; it skips rather
// than faking a pool, since pgxpool has no in-memory mode.
func TestSaveBatch_SkipsUnchangedContent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_DSN to run repository integration test")
	}

	ctx := t.Context()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	defer pool.Close()

	repo := NewFanRepository(pool)
	items := []record.FanStatus{mustFan(t, "Fan 1/1", "ok")}

	first, err := repo.SaveBatch(ctx, "sw-repo-test", "raw", items, "MAINT-REPO-TEST")
	if err != nil {
		t.Fatalf("first SaveBatch: %v", err)
	}
	if first == nil {
		t.Fatal("expected first SaveBatch to write a new batch")
	}

	second, err := repo.SaveBatch(ctx, "sw-repo-test", "raw", items, "MAINT-REPO-TEST")
	if err != nil {
		t.Fatalf("second SaveBatch: %v", err)
	}
	if second != nil {
		t.Fatal("expected unchanged content to skip the write")
	}
}
