package record

import "github.com/nwmaint/collectord/internal/enums"

// MacTableEntry is one learned MAC on one interface/VLAN.
type MacTableEntry struct {
	MacAddress    string
	InterfaceName string
	VlanID        int
}

func NewMacTableEntry(mac, ifName string, vlanID int) (MacTableEntry, error) {
	canon, err := enums.NormalizeMAC(mac)
	if err != nil {
		return MacTableEntry{}, err
	}
	if ifName == "" {
		return MacTableEntry{}, &enums.ValidationError{Field: "interface_name", Msg: "required"}
	}
	if !enums.ValidVLAN(vlanID) {
		return MacTableEntry{}, &enums.ValidationError{Field: "vlan_id", Msg: "must be 1-4094"}
	}
	return MacTableEntry{MacAddress: canon, InterfaceName: ifName, VlanID: vlanID}, nil
}

func (MacTableEntry) APIName() string { return "get_mac_table" }

// FingerprintFields excludes mac_address: it is the record's identity
// field (mac-table rows are addressed by MAC), so a changed MAC is a
// different record, not a changed reading on the same one.
func (m MacTableEntry) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("interface_name", m.InterfaceName),
		present("vlan_id", itoa(m.VlanID)),
	}
}
