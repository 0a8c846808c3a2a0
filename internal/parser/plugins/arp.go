package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// arpParser parses ARP table output shared across vendors: one IP
// address and one MAC-looking token per line, in either order. A line
// containing the literal word "Incomplete" in place of a MAC is an
// unresolved ARP entry and is skipped, matching every vendor's own
// convention for reporting an ARP miss.
type arpParser struct {
	deviceType enums.DeviceType
}

var (
	arpIPPattern  = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	arpMACPattern = regexp.MustCompile(`\b(?:[0-9a-fA-F]{2}[:.\-]){5}[0-9a-fA-F]{2}\b|\b[0-9a-fA-F]{4}[.\-][0-9a-fA-F]{4}[.\-][0-9a-fA-F]{4}\b`)
)

func (p arpParser) APIName() string             { return "get_arp" }
func (p arpParser) DeviceType() enums.DeviceType { return p.deviceType }

func (arpParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(strings.ToLower(line), "incomplete") {
			continue
		}
		ip := arpIPPattern.FindString(line)
		mac := arpMACPattern.FindString(line)
		if ip == "" || mac == "" {
			continue
		}
		a, err := record.NewArp(ip, mac)
		if err != nil {
			continue
		}
		results = append(results, a)
	}
	return results, nil
}

func init() {
	parser.Register(arpParser{deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})
	parser.Register(arpParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(arpParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
