package plugins

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// pingBatchParser is vendor-neutral: it handles both the mock engine's
// plain-text ping output and a JSON batch-result shape, so it registers
// under enums.AnyDeviceType and serves every platform through the generic
// registry fallback.
type pingBatchParser struct{}

var (
	pingIPPattern   = regexp.MustCompile(`(?m)^PING\s+(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\b`)
	packetLossRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)%\s+packet\s+loss`)
)

func (pingBatchParser) APIName() string             { return "ping_batch" }
func (pingBatchParser) DeviceType() enums.DeviceType { return enums.AnyDeviceType }

type pingJSONBatch struct {
	Results []pingJSONEntry `json:"results"`
}

type pingJSONEntry struct {
	IP        *string     `json:"ip"`
	Reachable interface{} `json:"reachable"`
}

func (pingBatchParser) Parse(raw string) ([]record.Record, error) {
	if results := tryParsePingJSON(raw); results != nil {
		return results, nil
	}
	return parseStandardPing(raw), nil
}

func tryParsePingJSON(raw string) []record.Record {
	stripped := strings.TrimSpace(raw)
	if stripped == "" {
		return nil
	}
	var batch pingJSONBatch
	if err := json.Unmarshal([]byte(stripped), &batch); err != nil {
		return nil
	}
	if batch.Results == nil {
		return nil
	}

	var results []record.Record
	for _, entry := range batch.Results {
		if entry.IP == nil || entry.Reachable == nil {
			continue
		}
		reachable := coerceBool(entry.Reachable)
		p, err := record.NewPing(*entry.IP, &reachable)
		if err != nil {
			continue
		}
		results = append(results, p)
	}
	return results
}

func coerceBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(t)
		return s == "true" || s == "1" || s == "yes"
	default:
		return false
	}
}

func parseStandardPing(raw string) []record.Record {
	ipMatch := pingIPPattern.FindStringSubmatch(raw)
	if ipMatch == nil {
		return nil
	}
	lossMatch := packetLossRegex.FindStringSubmatch(raw)
	if lossMatch == nil {
		return nil
	}
	loss, err := strconv.ParseFloat(lossMatch[1], 64)
	if err != nil {
		return nil
	}
	reachable := loss < 100.0
	p, err := record.NewPing(ipMatch[1], &reachable)
	if err != nil {
		return nil
	}
	return []record.Record{p}
}

func init() {
	parser.Register(pingBatchParser{})
}
