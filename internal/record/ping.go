package record

// Ping is one IP's reachability reading.
type Ping struct {
	IPAddress   string
	IsReachable *bool // nil means unknown/not-checked
}

func NewPing(ip string, reachable *bool) (Ping, error) {
	return Ping{IPAddress: ip, IsReachable: reachable}, nil
}

func (Ping) APIName() string { return "ping_batch" }

// FingerprintFields excludes ip_address: it is the record's identity field.
// IsReachable being nil (not-checked) is explicitly distinct from any
// concrete true/false reading, hence the Present flag rather than
// collapsing nil to false.
func (p Ping) FingerprintFields() []FieldValue {
	if p.IsReachable == nil {
		return []FieldValue{absent("is_reachable")}
	}
	return []FieldValue{present("is_reachable", btoa(*p.IsReachable))}
}
