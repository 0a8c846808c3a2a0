package snmp

import (
	"context"
	"fmt"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const (
	oidHH3CPowerStatus   = "1.3.6.1.4.1.25506.2.6.1.1.1.1.13"
	oidCiscoEnvPowerStat = "1.3.6.1.4.1.9.9.13.1.5.1.3"
)

type PowerCollector struct{}

func (PowerCollector) APIName() string { return "get_power" }

func (PowerCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		var oid string
		if deviceType.Platform() == enums.PlatformHPEComware {
			oid = oidHH3CPowerStatus
		} else {
			oid = oidCiscoEnvPowerStat
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
			p, err := record.NewPower("PSU "+idx, envStatusLabel(vb.Value))
			if err != nil {
				continue
			}
			results = append(results, p)
		}
		return results, FormatRaw("get_power", target.IP, deviceType, vbs), nil
	})
}
