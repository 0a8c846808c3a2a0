package record

import "github.com/nwmaint/collectord/internal/enums"

// Client is the per-MAC composite record the client-collection service
// builds by joining mac-table, ARP, interface-status, ACL, and ping
// results for one learned client. It is the "most subtle" fingerprint
// case: mac_address and ip_address are the record's identity (it is
// addressed by MAC), so they are excluded from the hash even though
// every other field changing must be detected.
type Client struct {
	MacAddress      string
	IPAddress       string
	SwitchHostname  string
	InterfaceName   string
	VlanID          *int
	Speed           string
	Duplex          enums.Duplex
	LinkStatus      enums.LinkStatus
	PingReachable   *bool
	AclRulesApplied string
}

func NewClient(mac, ip string) (Client, error) {
	canon, err := enums.NormalizeMAC(mac)
	if err != nil {
		return Client{}, err
	}
	return Client{MacAddress: canon, IPAddress: ip}, nil
}

func (Client) APIName() string { return "client-collection" }

// FingerprintFields implements the exact rule set spec'd for the client
// record: mac_address/ip_address excluded (identity), every behavior
// field included, and an absent optional value (VlanID, PingReachable)
// is distinct from any concrete value including the zero value.
func (c Client) FingerprintFields() []FieldValue {
	fields := []FieldValue{
		present("switch_hostname", c.SwitchHostname),
		present("interface_name", c.InterfaceName),
	}
	if c.VlanID != nil {
		fields = append(fields, present("vlan_id", itoa(*c.VlanID)))
	} else {
		fields = append(fields, absent("vlan_id"))
	}
	fields = append(fields,
		present("speed", c.Speed),
		present("duplex", string(c.Duplex)),
		present("link_status", string(c.LinkStatus)),
	)
	if c.PingReachable != nil {
		fields = append(fields, present("ping_reachable", btoa(*c.PingReachable)))
	} else {
		fields = append(fields, absent("ping_reachable"))
	}
	fields = append(fields, present("acl_rules_applied", c.AclRulesApplied))
	return fields
}
