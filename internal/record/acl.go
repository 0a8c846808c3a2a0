package record

import "github.com/nwmaint/collectord/internal/enums"

// Acl is one interface's applied ACL number, or none.
type Acl struct {
	InterfaceName string
	AclNumber     string // empty means no ACL applied
}

func NewAcl(ifName, aclNumber string) (Acl, error) {
	if ifName == "" {
		return Acl{}, &enums.ValidationError{Field: "interface_name", Msg: "required"}
	}
	return Acl{InterfaceName: ifName, AclNumber: aclNumber}, nil
}

func (Acl) APIName() string { return "get_static_acl" }

func (a Acl) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("interface_name", a.InterfaceName),
		present("acl_number", a.AclNumber),
	}
}
