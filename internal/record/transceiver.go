package record

import "github.com/nwmaint/collectord/internal/enums"

// Transceiver is one optical lane reading on one interface. Multi-lane
// optics (QSFP/QSFP-DD) produce one Transceiver per lane; Lane is 0 for
// single-lane (SFP/SFP+) optics.
type Transceiver struct {
	InterfaceName string
	Lane          int
	TxPowerDBm    float64
	RxPowerDBm    float64
	TxPass        bool
	RxPass        bool
}

func NewTransceiver(ifName string, lane int, txDBm, rxDBm float64, txPass, rxPass bool) (Transceiver, error) {
	if ifName == "" {
		return Transceiver{}, &enums.ValidationError{Field: "interface_name", Msg: "required"}
	}
	if lane < 0 {
		return Transceiver{}, &enums.ValidationError{Field: "lane", Msg: "must be >= 0"}
	}
	return Transceiver{
		InterfaceName: ifName,
		Lane:          lane,
		TxPowerDBm:    txDBm,
		RxPowerDBm:    rxDBm,
		TxPass:        txPass,
		RxPass:        rxPass,
	}, nil
}

func (Transceiver) APIName() string { return "get_transceiver" }

func (t Transceiver) FingerprintFields() []FieldValue {
	return []FieldValue{
		present("interface_name", t.InterfaceName),
		present("lane", itoa(t.Lane)),
		present("tx_power_dbm", ftoa(t.TxPowerDBm)),
		present("rx_power_dbm", ftoa(t.RxPowerDBm)),
		present("tx_pass", btoa(t.TxPass)),
		present("rx_pass", btoa(t.RxPass)),
	}
}
