package record

import "github.com/nwmaint/collectord/internal/enums"

// InterfaceStatus is one physical interface's link/speed/duplex reading.
type InterfaceStatus struct {
	InterfaceName string
	LinkStatus    enums.LinkStatus
	Speed         string
	Duplex        enums.Duplex
}

func NewInterfaceStatus(ifName, linkStatus, speed, duplex string) (InterfaceStatus, error) {
	if ifName == "" {
		return InterfaceStatus{}, &enums.ValidationError{Field: "interface_name", Msg: "required"}
	}
	return InterfaceStatus{
		InterfaceName: ifName,
		LinkStatus:    enums.NormalizeLinkStatus(linkStatus),
		Speed:         speed,
		Duplex:        enums.NormalizeDuplex(duplex),
	}, nil
}

func (InterfaceStatus) APIName() string { return "get_interface_status" }

func (i InterfaceStatus) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("interface_name", i.InterfaceName),
		present("link_status", string(i.LinkStatus)),
		present("speed", i.Speed),
		present("duplex", string(i.Duplex)),
	}
}

// nonPhysicalPrefixes lists interface-name prefixes SNMP interface-status
// collection filters out: logical, not physical, ports.
var nonPhysicalPrefixes = []string{
	"Loopback", "Vlan", "Null", "Tunnel", "mgmt", "Cpu", "Stack", "Register", "Aux",
}

// IsPhysicalInterface reports whether name looks like a physical port
// rather than a logical/management interface.
func IsPhysicalInterface(name string) bool {
	for _, p := range nonPhysicalPrefixes {
		if len(name) >= len(p) && name[:len(p)] == p {
			return false
		}
	}
	return true
}
