package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// hpePowerParser parses HPE Comware `display power` output: rows of
// "PowerID State", e.g. "1 Normal", "2 Fault".
type hpePowerParser struct{}

var hpePowerRowPattern = regexp.MustCompile(`(?m)^\s*(\d+)\s+(\S.*?)\s*$`)

func (hpePowerParser) APIName() string             { return "get_power" }
func (hpePowerParser) DeviceType() enums.DeviceType { return enums.NewDeviceType(enums.PlatformHPEComware) }

func (hpePowerParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		firstToken := strings.ToLower(strings.Fields(line)[0])
		if firstToken == "powerid" || firstToken == "power_id" || firstToken == "id" {
			continue
		}
		m := hpePowerRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		p, err := record.NewPower("PSU "+m[1], m[2])
		if err != nil {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

func init() {
	parser.Register(hpePowerParser{})
}
