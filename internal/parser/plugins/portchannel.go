package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// portChannelParser parses `show (port-channel|link-aggregation) summary`
// style output shared across vendors: a port-channel header line followed
// by member lines, e.g.:
//
//	Port-channel12: up
//	  GigabitEthernet1/0/1  up
//	  GigabitEthernet1/0/2  down
type portChannelParser struct {
	deviceType enums.DeviceType
}

var (
	pcHeaderPattern = regexp.MustCompile(`(?mi)^(Port-channel\S*|Bridge-Aggregation\S*|Eth-Trunk\S*)\s*:\s*(\S+)`)
	pcMemberPattern = regexp.MustCompile(`(?m)^\s+(\S+)\s+(\S+)\s*$`)
)

func (p portChannelParser) APIName() string             { return "get_channel_group" }
func (p portChannelParser) DeviceType() enums.DeviceType { return p.deviceType }

func (portChannelParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	headers := pcHeaderPattern.FindAllStringSubmatchIndex(raw, -1)
	var results []record.Record
	for i, h := range headers {
		name := raw[h[2]:h[3]]
		status := raw[h[4]:h[5]]
		end := len(raw)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := raw[h[1]:end]

		var members []string
		memberStatus := make(map[string]string)
		for _, m := range pcMemberPattern.FindAllStringSubmatch(block, -1) {
			members = append(members, m[1])
			memberStatus[m[1]] = m[2]
		}
		if len(members) == 0 {
			continue
		}
		pc, err := record.NewPortChannel(name, status, members, memberStatus)
		if err != nil {
			continue
		}
		results = append(results, pc)
	}
	return results, nil
}

func init() {
	parser.Register(portChannelParser{deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})
	parser.Register(portChannelParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(portChannelParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
