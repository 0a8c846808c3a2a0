// Package record defines the closed set of typed values the parsers and
// SNMP collectors produce, and the fingerprinting contract the batch
// repositories use for change detection.
package record

// FieldValue is one named field contributing to a record's content-hash
// fingerprint. Present distinguishes an explicitly-set value from an
// absent one, since the zero value of a field's Go type (false, "", 0)
// is sometimes a legitimate reading and must not collide with "not set".
type FieldValue struct {
	Name    string
	Value   string
	Present bool
}

func present(name, value string) FieldValue { return FieldValue{Name: name, Value: value, Present: true} }

func absent(name string) FieldValue { return FieldValue{Name: name, Present: false} }

// Record is implemented by every parsed-item variant. FingerprintFields
// returns the record's business-meaningful fields in a fixed, canonical
// order, excluding identity fields (mac_address, ip_address, hostname)
// and timestamps — exactly the fields a repository's content hash is
// computed over.
type Record interface {
	APIName() string
	FingerprintFields() []FieldValue
}
