package record

import "github.com/nwmaint/collectord/internal/enums"

// ErrorCount is one interface's cumulative input/output error/discard
// counters, read as a snapshot (not a delta).
type ErrorCount struct {
	InterfaceName string
	InErrors      int64
	OutErrors     int64
	InDiscards    int64
	OutDiscards   int64
}

func NewErrorCount(ifName string, inErr, outErr, inDisc, outDisc int64) (ErrorCount, error) {
	if ifName == "" {
		return ErrorCount{}, &enums.ValidationError{Field: "interface_name", Msg: "required"}
	}
	return ErrorCount{
		InterfaceName: ifName,
		InErrors:      inErr,
		OutErrors:     outErr,
		InDiscards:    inDisc,
		OutDiscards:   outDisc,
	}, nil
}

func (ErrorCount) APIName() string { return "get_error_count" }

func (e ErrorCount) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("interface_name", e.InterfaceName),
		present("in_errors", itoa64(e.InErrors)),
		present("out_errors", itoa64(e.OutErrors)),
		present("in_discards", itoa64(e.InDiscards)),
		present("out_discards", itoa64(e.OutDiscards)),
	}
}
