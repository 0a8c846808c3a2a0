// Package plugins holds the concrete per-(device_type, api_name) parsers.
// Importing this package for its side effects registers every parser it
// contains with the default parser registry; cmd/collectord blank-imports
// it rather than scanning a directory at startup.
package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// hpeFanParser parses HPE Comware `display fan` output: one or more
// "Slot N:" blocks, each followed by a FanID/Status/Direction table. A fan
// row's ID is rendered as "Fan {slot}/{fanid}"; output with no Slot header
// is treated as a single slot "1".
type hpeFanParser struct{}

var (
	hpeFanSlotPattern = regexp.MustCompile(`(?mi)^Slot\s+(\d+)\s*:`)
	hpeFanRowPattern  = regexp.MustCompile(`(?mi)^\s*(\d+)\s+(\S+)\s+(\S.*?)\s*$`)
)

func (hpeFanParser) APIName() string             { return "get_fan" }
func (hpeFanParser) DeviceType() enums.DeviceType { return enums.NewDeviceType(enums.PlatformHPEComware) }

func (hpeFanParser) Parse(raw string) ([]record.Record, error) {
	var results []record.Record
	if strings.TrimSpace(raw) == "" {
		return results, nil
	}

	for _, block := range splitBySlot(raw) {
		for _, line := range strings.Split(block.text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "-") {
				continue
			}
			firstToken := strings.ToLower(strings.Fields(line)[0])
			if firstToken == "fanid" || firstToken == "fan_id" {
				continue
			}
			m := hpeFanRowPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			fan, err := record.NewFanStatus("Fan "+block.slot+"/"+m[1], m[2])
			if err != nil {
				continue
			}
			results = append(results, fan)
		}
	}
	return results, nil
}

type slotBlock struct {
	slot string
	text string
}

func splitBySlot(raw string) []slotBlock {
	matches := hpeFanSlotPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return []slotBlock{{slot: "1", text: raw}}
	}
	blocks := make([]slotBlock, 0, len(matches))
	for i, m := range matches {
		start := m[1]
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, slotBlock{slot: raw[m[2]:m[3]], text: raw[start:end]})
	}
	return blocks
}

func init() {
	parser.Register(hpeFanParser{})
}
