package record

import "github.com/nwmaint/collectord/internal/enums"

// Power is one power-supply-unit reading.
type Power struct {
	PsuID  string
	Status enums.OperStatus
}

func NewPower(psuID, status string) (Power, error) {
	if psuID == "" {
		return Power{}, &enums.ValidationError{Field: "psu_id", Msg: "required"}
	}
	return Power{PsuID: psuID, Status: enums.NormalizeOperStatus(status)}, nil
}

func (Power) APIName() string { return "get_power" }

func (p Power) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("psu_id", p.PsuID),
		present("status", string(p.Status)),
	}
}
