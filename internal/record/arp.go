package record

import "github.com/nwmaint/collectord/internal/enums"

// Arp is one IP-to-MAC resolution. "Incomplete" ARP entries (no resolved
// MAC) are never constructed — the parser skips them before reaching here.
type Arp struct {
	IPAddress  string
	MacAddress string
}

func NewArp(ip, mac string) (Arp, error) {
	canon, err := enums.NormalizeMAC(mac)
	if err != nil {
		return Arp{}, err
	}
	if ip == "" {
		return Arp{}, &enums.ValidationError{Field: "ip_address", Msg: "required"}
	}
	return Arp{IPAddress: ip, MacAddress: canon}, nil
}

func (Arp) APIName() string { return "get_arp" }

// FingerprintFields is empty: both fields of an Arp record are identity
// fields (the pair IS the record); any change produces a different
// record rather than a changed reading on an existing one.
func (Arp) FingerprintFields() []FieldValue { return nil }
