package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// ciscoIOSVersionParser parses Cisco IOS/IOS-XE `show version` output. Both
// families print a bare "Version X.Y.Z" token somewhere in the banner.
type ciscoIOSVersionParser struct{}

var iosVersionPattern = regexp.MustCompile(`(?i)Version\s+(\S+)`)

func (ciscoIOSVersionParser) APIName() string { return "get_version" }
func (ciscoIOSVersionParser) DeviceType() enums.DeviceType {
	return enums.NewDeviceType(enums.PlatformCiscoIOS)
}

func (ciscoIOSVersionParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	m := iosVersionPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, nil
	}
	v, err := record.NewVersion(strings.TrimSuffix(m[1], ","))
	if err != nil {
		return nil, nil
	}
	return []record.Record{v}, nil
}

// ciscoNXOSVersionParser parses Cisco NX-OS `show version` output, which
// reports firmware version as "NXOS: version X.Y(Z)" rather than IOS's bare
// "Version X.Y.Z" token.
type ciscoNXOSVersionParser struct{}

var (
	nxosVersionPattern       = regexp.MustCompile(`(?i)NXOS:\s*version\s+(\S+)`)
	nxosVersionFallbackRegex = regexp.MustCompile(`(?i)(?:system|NXOS|Software)\s*:\s*version\s+(\S+)`)
)

func (ciscoNXOSVersionParser) APIName() string { return "get_version" }
func (ciscoNXOSVersionParser) DeviceType() enums.DeviceType {
	return enums.NewDeviceType(enums.PlatformCiscoNXOS)
}

func (ciscoNXOSVersionParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	m := nxosVersionPattern.FindStringSubmatch(raw)
	if m == nil {
		m = nxosVersionFallbackRegex.FindStringSubmatch(raw)
	}
	if m == nil {
		return nil, nil
	}
	v, err := record.NewVersion(m[1])
	if err != nil {
		return nil, nil
	}
	return []record.Record{v}, nil
}

func init() {
	parser.Register(ciscoIOSVersionParser{})
	parser.Register(ciscoNXOSVersionParser{})
}
