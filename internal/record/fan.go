package record

import "github.com/nwmaint/collectord/internal/enums"

// FanStatus is one fan-tray reading (e.g. "Fan 1/1").
type FanStatus struct {
	FanID  string
	Status enums.OperStatus
}

func NewFanStatus(fanID, status string) (FanStatus, error) {
	if fanID == "" {
		return FanStatus{}, &enums.ValidationError{Field: "fan_id", Msg: "required"}
	}
	return FanStatus{FanID: fanID, Status: enums.NormalizeOperStatus(status)}, nil
}

func (FanStatus) APIName() string { return "get_fan" }

func (f FanStatus) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("fan_id", f.FanID),
		present("status", string(f.Status)),
	}
}
