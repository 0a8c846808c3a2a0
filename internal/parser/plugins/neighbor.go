package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// ciscoCDPNeighborParser parses `show cdp neighbors` tabular output:
//
//	Device ID        Local Intrfce     Holdtme  Capability  Platform  Port ID
//	sw-core.site.net  Gig 1/0/1         161      R S I       N9K-C93  Eth1/1
//
// Any row missing a local interface, remote hostname, or remote port is
// dropped silently, matching the NeighborData contract.
type ciscoCDPNeighborParser struct {
	deviceType enums.DeviceType
}

var cdpRowPattern = regexp.MustCompile(`(?m)^(\S+)\s+((?:Gig|Ten|Eth|Fa|Po)\S*\s*\S*)\s+\d+\s+\S+\s+\S+\s+((?:Gig|Ten|Eth|Fa|Po)\S*\s*\S*)\s*$`)

func (p ciscoCDPNeighborParser) APIName() string             { return "get_neighbor" }
func (p ciscoCDPNeighborParser) DeviceType() enums.DeviceType { return p.deviceType }

func (ciscoCDPNeighborParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, m := range cdpRowPattern.FindAllStringSubmatch(raw, -1) {
		remoteHost := strings.TrimSuffix(m[1], ".")
		localIf := strings.TrimSpace(m[2])
		remoteIf := strings.TrimSpace(m[3])
		n, err := record.NewNeighbor(localIf, remoteHost, remoteIf, "cdp")
		if err != nil {
			continue
		}
		results = append(results, n)
	}
	return results, nil
}

// hpeLLDPNeighborParser parses HPE Comware `display lldp neighbor-
// information list` brief output: local interface, neighbor system name,
// neighbor port ID columns. HPE devices speak LLDP, not CDP; the SNMP
// path returns an empty list for CDP on HPE for the same reason.
type hpeLLDPNeighborParser struct{}

var lldpRowPattern = regexp.MustCompile(`(?m)^\s*(\S+)\s+(\S+)\s+(\S+)\s*$`)

func (hpeLLDPNeighborParser) APIName() string { return "get_neighbor" }
func (hpeLLDPNeighborParser) DeviceType() enums.DeviceType {
	return enums.NewDeviceType(enums.PlatformHPEComware)
}

func (hpeLLDPNeighborParser) Parse(raw string) ([]record.Record, error) {
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
		if strings.HasPrefix(low, "local") || strings.HasPrefix(low, "interface") {
			continue
		}
		m := lldpRowPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		n, err := record.NewNeighbor(m[1], m[2], m[3], "lldp")
		if err != nil {
			continue
		}
		results = append(results, n)
	}
	return results, nil
}

func init() {
	parser.Register(ciscoCDPNeighborParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(ciscoCDPNeighborParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
	parser.Register(hpeLLDPNeighborParser{})
}
