package plugins

import (
	"regexp"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/parser"
	"github.com/nwmaint/collectord/internal/record"
)

// aclParser parses the ACL-binding payload the upstream DNA API returns
// for both the static and dynamic ACL indicators: one "interface,
// acl_number" pair per line (acl_number empty when nothing is applied).
// It registers vendor-neutral since ACL collection is always HTTP-mode
// (§ passthrough set) regardless of which platform owns the interface.
type aclParser struct {
	apiName string
}

var aclRowPattern = regexp.MustCompile(`(?m)^\s*(\S+)\s*[,:]\s*(\S*)\s*$`)

func (p aclParser) APIName() string            { return p.apiName }
func (aclParser) DeviceType() enums.DeviceType { return enums.AnyDeviceType }

func (aclParser) Parse(raw string) ([]record.Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var results []record.Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		low := strings.ToLower(line)
		if strings.HasPrefix(low, "interface") {
			continue
		}
		m := aclRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		a, err := record.NewAcl(m[1], m[2])
		if err != nil {
			continue
		}
		results = append(results, a)
	}
	return results, nil
}

func init() {
	parser.Register(aclParser{apiName: "get_static_acl"})
	parser.Register(aclParser{apiName: "get_dynamic_acl"})
}
