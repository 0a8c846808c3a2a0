package record

import "github.com/nwmaint/collectord/internal/enums"

// Neighbor is one CDP/LLDP adjacency. All three identifying fields are
// mandatory — an entry missing any of them is dropped silently by the
// parser/collector rather than being constructed with a blank value.
type Neighbor struct {
	LocalInterface  string
	RemoteHostname  string
	RemoteInterface string
	Protocol        string // "cdp" or "lldp"
}

func NewNeighbor(localIf, remoteHost, remoteIf, protocol string) (Neighbor, error) {
	if localIf == "" {
		return Neighbor{}, &enums.ValidationError{Field: "local_interface", Msg: "required"}
	}
	if remoteHost == "" {
		return Neighbor{}, &enums.ValidationError{Field: "remote_hostname", Msg: "required"}
	}
	if remoteIf == "" {
		return Neighbor{}, &enums.ValidationError{Field: "remote_interface", Msg: "required"}
	}
	return Neighbor{
		LocalInterface:  localIf,
		RemoteHostname:  remoteHost,
		RemoteInterface: remoteIf,
		Protocol:        protocol,
	}, nil
}

func (Neighbor) APIName() string { return "get_neighbor" }

func (n Neighbor) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("local_interface", n.LocalInterface),
		present("remote_hostname", n.RemoteHostname),
		present("remote_interface", n.RemoteInterface),
		present("protocol", n.Protocol),
	}
}
