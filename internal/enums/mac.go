package enums

import (
	"fmt"
	"strings"
)

// NormalizeMAC folds any of the vendor-specific MAC renderings
// (HPE "aabb-ccdd-eeff", Cisco "aabb.ccdd.eeff", hyphenated
// "AA-BB-CC-DD-EE-FF", or bare "AABBCCDDEEFF") into the canonical
// upper-case colon-separated form "AA:BB:CC:DD:EE:FF".
//
// NormalizeMAC is idempotent: NormalizeMAC(NormalizeMAC(x)) == NormalizeMAC(x).
func NormalizeMAC(raw string) (string, error) {
	hex := strings.Map(func(r rune) rune {
		switch r {
		case ':', '-', '.':
			return -1
		}
		return r
	}, raw)
	hex = strings.ToUpper(hex)

	if len(hex) != 12 {
		return "", &ValidationError{Field: "mac_address", Value: raw, Msg: "expected 12 hex digits"}
	}
	for _, c := range hex {
		if !isHexDigit(c) {
			return "", &ValidationError{Field: "mac_address", Value: raw, Msg: "non-hex character"}
		}
	}

	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex[i : i+2])
	}
	return b.String(), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
}

// OctetsToMAC builds the canonical MAC form from six already-parsed octets,
// used by SNMP collectors that decode a MAC out of an OID index.
func OctetsToMAC(octets [6]int) (string, error) {
	for _, o := range octets {
		if o < 0 || o > 255 {
			return "", fmt.Errorf("octet out of range: %d", o)
		}
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		octets[0], octets[1], octets[2], octets[3], octets[4], octets[5]), nil
}

// ValidVLAN reports whether id is in the valid VLAN range 1-4094.
func ValidVLAN(id int) bool {
	return id >= 1 && id <= 4094
}
