package plugins

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// errorCountParser parses `show interface counters errors`-shaped output,
// shared across every vendor: interface, in-errors, out-errors,
// in-discards, out-discards columns, in that order. Any row whose
// numeric columns don't parse is dropped rather than defaulted to zero,
// since a malformed counter is more likely a parsing miss than a true 0.
type errorCountParser struct {
	deviceType enums.DeviceType
}

var errorCountRowPattern = regexp.MustCompile(`(?m)^\s*(\S+)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s*$`)

func (p errorCountParser) APIName() string             { return "get_error_count" }
func (p errorCountParser) DeviceType() enums.DeviceType { return p.deviceType }

func (errorCountParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, m := range errorCountRowPattern.FindAllStringSubmatch(raw, -1) {
		if !record.IsPhysicalInterface(m[1]) {
			continue
		}
		inErr, err1 := strconv.ParseInt(m[2], 10, 64)
		outErr, err2 := strconv.ParseInt(m[3], 10, 64)
		inDisc, err3 := strconv.ParseInt(m[4], 10, 64)
		outDisc, err4 := strconv.ParseInt(m[5], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		e, err := record.NewErrorCount(m[1], inErr, outErr, inDisc, outDisc)
		if err != nil {
			continue
		}
		results = append(results, e)
	}
	return results, nil
}

func init() {
	parser.Register(errorCountParser{deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})
	parser.Register(errorCountParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)})
	parser.Register(errorCountParser{deviceType: enums.NewDeviceType(enums.PlatformCiscoNXOS)})
}
