package snmp

import (
	"context"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const (
	oidIfInErrors     = "1.3.6.1.2.1.2.2.1.14"     // IF-MIB::ifInErrors
	oidIfOutErrors    = "1.3.6.1.2.1.2.2.1.20"     // IF-MIB::ifOutErrors
	oidIfInDiscards   = "1.3.6.1.2.1.2.2.1.13"     // IF-MIB::ifInDiscards
	oidIfOutDiscards  = "1.3.6.1.2.1.2.2.1.19"     // IF-MIB::ifOutDiscards
)

type ErrorCountCollector struct{}

func (ErrorCountCollector) APIName() string { return "get_error_count" }

func (ErrorCountCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		ifIndexMap, err := cache.GetIfIndexMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}

		inErrVbs, err := engine.Walk(ctx, target, oidIfInErrors)
		if err != nil {
			return nil, "", err
		}
		outErrVbs, err := engine.Walk(ctx, target, oidIfOutErrors)
		if err != nil {
			return nil, "", err
		}
		inDiscVbs, err := engine.Walk(ctx, target, oidIfInDiscards)
		if err != nil {
			return nil, "", err
		}
		outDiscVbs, err := engine.Walk(ctx, target, oidIfOutDiscards)
		if err != nil {
			return nil, "", err
		}

		outErrByIndex := indexValueMap(outErrVbs, oidIfOutErrors)
		inDiscByIndex := indexValueMap(inDiscVbs, oidIfInDiscards)
		outDiscByIndex := indexValueMap(outDiscVbs, oidIfOutDiscards)

		var results []record.Record
		for _, vb := range inErrVbs {
			idx := ExtractIndex(vb.OID, oidIfInErrors)
			ifName, ok := ifIndexMap[idx]
			if !ok || !record.IsPhysicalInterface(ifName) {
				continue
			}
			ec, err := record.NewErrorCount(ifName,
				int64(SafeInt(vb.Value, 0)),
				int64(SafeInt(outErrByIndex[idx], 0)),
				int64(SafeInt(inDiscByIndex[idx], 0)),
				int64(SafeInt(outDiscByIndex[idx], 0)),
			)
			if err != nil {
				continue
			}
			results = append(results, ec)
		}

		raw := append(append(append(append([]VarBind{}, inErrVbs...), outErrVbs...), inDiscVbs...), outDiscVbs...)
		return results, FormatRaw("get_error_count", target.IP, deviceType, raw), nil
	})
}
