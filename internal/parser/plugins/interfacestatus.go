package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// interfaceStatusParser parses a `show interface status`-shaped table
// shared across vendors: interface, link status, speed, duplex columns
// in that order. Logical interfaces (loopback, VLAN SVI, tunnels, …) are
// filtered the same way the SNMP collector filters them, since both
// paths feed the same typed table.
type interfaceStatusParser struct {
	deviceType enums.DeviceType
}

var ifaceRowPattern = regexp.MustCompile(`(?m)^\s*(\S+)\s+(up|down|connected|notconnect|disabled)\s+(\S+)\s+(\S+)\s*$`)

func (p interfaceStatusParser) APIName() string             { return "get_interface_status" }
func (p interfaceStatusParser) DeviceType() enums.DeviceType { return p.deviceType }

func (interfaceStatusParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		m := ifaceRowPattern.FindStringSubmatch(strings.ToLower(line))
		if m == nil {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if !record.IsPhysicalInterface(fields[0]) {
			continue
		}
		i, err := record.NewInterfaceStatus(fields[0], fields[1], fields[2], fields[3])
		if err != nil {
			continue
		}
		results = append(results, i)
	}
	return results, nil
}

func init() {
	parser.Register(interfaceStatusParser{deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})
	parser.Register(interfaceStatusParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(interfaceStatusParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
