package plugins

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// transceiverParser handles optical power readings for every vendor from
// a single CSV-shaped fetcher output (the upstream DNA API normalizes
// transceiver diagnostics before this service ever sees them, unlike the
// SNMP path which has to cross sensor/entity MIBs itself). Columns:
// interface,lane,tx_dbm,rx_dbm. A device with QSFP/QSFP-DD optics emits
// one row per lane; dropping any row would silently lose a lane.
type transceiverParser struct {
	deviceType enums.DeviceType
}

var transceiverRowPattern = regexp.MustCompile(`(?m)^\s*(\S+)\s*,\s*(\d+)\s*,\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// txRxThresholdDBm is the pass/fail optical power floor: below this,
// a lane is flagged as a failing reading.
const txRxThresholdDBm = -15.0

func (t transceiverParser) APIName() string             { return "get_transceiver" }
func (t transceiverParser) DeviceType() enums.DeviceType { return t.deviceType }

func (transceiverParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, m := range transceiverRowPattern.FindAllStringSubmatch(raw, -1) {
		lane, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		tx, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		rx, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			continue
		}
		t, err := record.NewTransceiver(m[1], lane, tx, rx, tx >= txRxThresholdDBm, rx >= txRxThresholdDBm)
		if err != nil {
			continue
		}
		results = append(results, t)
	}
	return results, nil
}

func init() {
	parser.Register(transceiverParser{deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})
	parser.Register(transceiverParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(transceiverParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
