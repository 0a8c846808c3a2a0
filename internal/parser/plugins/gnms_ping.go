package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// gnmsPingParser parses the legacy GNMS single-target ping check: one
// "<ip> <reachable|unreachable>" line per call, unlike ping_batch's
// multi-target JSON/percentage-loss shape. Vendor-neutral, like
// ping_batch, since reachability has nothing to do with device platform.
type gnmsPingParser struct{}

var gnmsPingPattern = regexp.MustCompile(`(?mi)^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\s+(reachable|unreachable|alive|down|up)\s*$`)

func (gnmsPingParser) APIName() string             { return "gnms_ping" }
func (gnmsPingParser) DeviceType() enums.DeviceType { return enums.AnyDeviceType }

func (gnmsPingParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	m := gnmsPingPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, nil
	}
	reachable := m[2] == "reachable" || m[2] == "alive" || m[2] == "up"
	p, err := record.NewPing(m[1], &reachable)
	if err != nil {
		return nil, nil
	}
	return []record.Record{p}, nil
}

func init() {
	parser.Register(gnmsPingParser{})
}
