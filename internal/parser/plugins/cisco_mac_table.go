package plugins

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// ciscoMacTableParser parses `show mac address-table` output shared by
// IOS and NX-OS: a VLAN column, a dotted MAC column, and a trailing
// port/interface column, e.g.:
//
//	10    aabb.ccdd.eeff    DYNAMIC    Gi1/0/1
//	* 20  0011.2233.4455    dynamic    Eth1/1
//
// The leading "*" NX-OS sometimes prints for the local/best entry is
// stripped before matching. VLANs outside 1-4094 are rejected, matching
// the HPE parser's same rule.
type ciscoMacTableParser struct {
	deviceType enums.DeviceType
}

var ciscoMacRowPattern = regexp.MustCompile(
	`(?m)^\s*\*?\s*(\d+)\s+([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+\S+\s+\S*\s*(\S+)\s*$`,
)

func (p ciscoMacTableParser) APIName() string             { return "get_mac_table" }
func (p ciscoMacTableParser) DeviceType() enums.DeviceType { return p.deviceType }

func (ciscoMacTableParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		low := strings.ToLower(strings.TrimSpace(line))
		if low == "" || strings.HasPrefix(low, "vlan") || strings.HasPrefix(low, "----") {
			continue
		}
		m := ciscoMacRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		vlan, err := strconv.Atoi(m[1])
		if err != nil || !enums.ValidVLAN(vlan) {
			continue
		}
		entry, err := record.NewMacTableEntry(m[2], m[3], vlan)
		if err != nil {
			continue
		}
		results = append(results, entry)
	}
	return results, nil
}

func init() {
	parser.Register(ciscoMacTableParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(ciscoMacTableParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
