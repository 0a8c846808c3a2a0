package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// ciscoPowerParser parses Cisco `show environment power` output, shared
// by IOS and NX-OS: rows like "PS1  1100W  Ok" or "Module 1  Power-Supply-1  OK".
// Only the trailing status token and a leading PSU identifier matter.
type ciscoPowerParser struct {
	deviceType enums.DeviceType
}

var ciscoPowerRowPattern = regexp.MustCompile(`(?mi)^\s*(PS\s*\d+|Power[ -]?Supply[ -]?\d+|Module\s+\d+)\S*\s.*?\s(\S+)\s*$`)

func (p ciscoPowerParser) APIName() string             { return "get_power" }
func (p ciscoPowerParser) DeviceType() enums.DeviceType { return p.deviceType }

func (ciscoPowerParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(strings.ToLower(trimmed), "ps ") && strings.Contains(strings.ToLower(trimmed), "status") {
			continue
		}
		m := ciscoPowerRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		p, err := record.NewPower(strings.TrimSpace(m[1]), m[2])
		if err != nil {
			continue
		}
		results = append(results, p)
	}
	return results, nil
}

func init() {
	parser.Register(ciscoPowerParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(ciscoPowerParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
