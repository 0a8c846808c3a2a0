package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// ciscoFanParser parses Cisco `show environment fan` output, shared by
// IOS and NX-OS: rows like "Fan 1  OK" or "FAN_MOD1  Ok  12000 RPM". Only
// the leading fan identifier and a trailing status token are extracted.
type ciscoFanParser struct {
	deviceType enums.DeviceType
}

var ciscoFanRowPattern = regexp.MustCompile(`(?mi)^\s*(Fan\S*\s*\d*|FAN_\S+)\s+(\S+)`)

func (p ciscoFanParser) APIName() string             { return "get_fan" }
func (p ciscoFanParser) DeviceType() enums.DeviceType { return p.deviceType }

func (ciscoFanParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		low := strings.ToLower(trimmed)
		if strings.HasPrefix(low, "fan") && strings.Contains(low, "status") {
			continue
		}
		m := ciscoFanRowPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		f, err := record.NewFanStatus(strings.Join(strings.Fields(m[1]), " "), m[2])
		if err != nil {
			continue
		}
		results = append(results, f)
	}
	return results, nil
}

func init() {
	parser.Register(ciscoFanParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(ciscoFanParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
