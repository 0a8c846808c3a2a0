package plugins

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// hpeMacTableParser parses HPE Comware `display mac-address` output.
// Tolerates two shapes: the real Comware CLI table (MAC in hyphenated
// xxxx-xxxx-xxxx form) and a CSV export with a MAC,Interface,VLAN header,
// since both have been observed coming back from the HPE collection path.
type hpeMacTableParser struct{}

var hpeMacRowPattern = regexp.MustCompile(
	`(?m)^\s*([0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4})\s+(\d+)\s+\S+\s+(\S+)`,
)

func (hpeMacTableParser) APIName() string { return "get_mac_table" }
func (hpeMacTableParser) DeviceType() enums.DeviceType {
	return enums.NewDeviceType(enums.PlatformHPEComware)
}

func (hpeMacTableParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if looksLikeMacTableCSV(raw) {
		return parseMacTableCSV(raw)
	}
	return parseMacTableCLI(raw), nil
}

func looksLikeMacTableCSV(raw string) bool {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.Contains(line, ",") && strings.Contains(strings.ToUpper(line), "MAC")
	}
	return false
}

func parseMacTableCLI(raw string) []record.Record {
	var results []record.Record
	for _, m := range hpeMacRowPattern.FindAllStringSubmatch(raw, -1) {
		vlan, err := strconv.Atoi(m[2])
		if err != nil || !enums.ValidVLAN(vlan) {
			continue
		}
		entry, err := record.NewMacTableEntry(m[1], m[3], vlan)
		if err != nil {
			continue
		}
		results = append(results, entry)
	}
	return results
}

func parseMacTableCSV(raw string) ([]record.Record, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(raw)))
	rows, err := reader.ReadAll()
	if err != nil || len(rows) == 0 {
		return nil, nil
	}
	idx := map[string]int{}
	for i, col := range rows[0] {
		idx[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	macCol, macOK := idx["MAC"]
	ifCol, ifOK := idx["INTERFACE"]
	vlanCol, vlanOK := idx["VLAN"]
	if !macOK || !ifOK || !vlanOK {
		return nil, nil
	}

	var results []record.Record
	for _, row := range rows[1:] {
		if macCol >= len(row) || ifCol >= len(row) || vlanCol >= len(row) {
			continue
		}
		mac := strings.TrimSpace(row[macCol])
		ifName := strings.TrimSpace(row[ifCol])
		vlanStr := strings.TrimSpace(row[vlanCol])
		if mac == "" || ifName == "" || vlanStr == "" {
			continue
		}
		vlan, err := strconv.Atoi(vlanStr)
		if err != nil || !enums.ValidVLAN(vlan) {
			continue
		}
		entry, err := record.NewMacTableEntry(mac, ifName, vlan)
		if err != nil {
			continue
		}
		results = append(results, entry)
	}
	return results, nil
}

func init() {
	parser.Register(hpeMacTableParser{})
}
