package snmp

import (
	"context"
	"fmt"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

// HPE Comware fan state lives under HH3C-ENTITY-EXT-MIB; Cisco IOS/NXOS
// expose the same information via CISCO-ENVMON-MIB's fan-status table.
const (
	oidHH3CFanStatus   = "1.3.6.1.4.1.25506.2.6.1.1.1.1.9"
	oidCiscoEnvFanDesc = "1.3.6.1.4.1.9.9.13.1.4.1.2"
	oidCiscoEnvFanStat = "1.3.6.1.4.1.9.9.13.1.4.1.3"
)

// envStatusLabel maps HH3C/Cisco envmon's integer status code onto
// the normalized OperStatus vocabulary.
func envStatusLabel(code string) string {
	switch code {
	case "1":
		return "normal"
	case "2":
		return "abnormal"
	case "3":
		return "absent" // HH3C "not present"
	default:
		return "unknown"
	}
}

type FanCollector struct{}

func (FanCollector) APIName() string { return "get_fan" }

func (FanCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		var oid string
		if deviceType.Platform() == enums.PlatformHPEComware {
			oid = oidHH3CFanStatus
		} else {
			oid = oidCiscoEnvFanStat
		}

		vbs, err := engine.Walk(ctx, target, oid)
		if err != nil {
			return nil, "", err
		}

		var results []record.Record
		for i, vb := range vbs {
			idx := ExtractIndex(vb.OID, oid)
			if idx == "" {
				idx = fmt.Sprintf("%d", i+1)
			}
			fan, err := record.NewFanStatus("Fan "+idx, envStatusLabel(vb.Value))
			if err != nil {
				continue
			}
			results = append(results, fan)
		}
		return results, FormatRaw("get_fan", target.IP, deviceType, vbs), nil
	})
}
