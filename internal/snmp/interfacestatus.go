package snmp

import (
	"context"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const (
	oidIfOperStatus = "1.3.6.1.2.1.2.2.1.8"  // IF-MIB::ifOperStatus
	oidIfDuplex     = "1.3.6.1.2.1.10.7.2.1.19" // EtherLike-MIB::dot3StatsDuplexStatus
	oidIfHighSpeed  = "1.3.6.1.2.1.31.1.1.1.15" // IF-MIB::ifHighSpeed, Mbps
)

type InterfaceStatusCollector struct{}

func (InterfaceStatusCollector) APIName() string { return "get_interface_status" }

func (InterfaceStatusCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		ifIndexMap, err := cache.GetIfIndexMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}

		operVbs, err := engine.Walk(ctx, target, oidIfOperStatus)
		if err != nil {
			return nil, "", err
		}
		duplexVbs, err := engine.Walk(ctx, target, oidIfDuplex)
		if err != nil {
			return nil, "", err
		}
		speedVbs, err := engine.Walk(ctx, target, oidIfHighSpeed)
		if err != nil {
			return nil, "", err
		}

		duplexByIndex := indexValueMap(duplexVbs, oidIfDuplex)
		speedByIndex := indexValueMap(speedVbs, oidIfHighSpeed)

		var results []record.Record
		for _, vb := range operVbs {
			idx := ExtractIndex(vb.OID, oidIfOperStatus)
			ifName, ok := ifIndexMap[idx]
			if !ok || !record.IsPhysicalInterface(ifName) {
				continue
			}
			linkStatus := "down"
			if vb.Value == "1" {
				linkStatus = "up"
			}
			speed := speedLabel(SafeInt(speedByIndex[idx], 0))
			duplex := duplexLabel(duplexByIndex[idx])

			status, err := record.NewInterfaceStatus(ifName, linkStatus, speed, duplex)
			if err != nil {
				continue
			}
			results = append(results, status)
		}

		raw := append(append(append([]VarBind{}, operVbs...), duplexVbs...), speedVbs...)
		return results, FormatRaw("get_interface_status", target.IP, deviceType, raw), nil
	})
}

func duplexLabel(code string) string {
	switch code {
	case "2":
		return "half"
	case "3":
		return "full"
	default:
		return "unknown"
	}
}

func indexValueMap(vbs []VarBind, prefix string) map[string]string {
	m := make(map[string]string, len(vbs))
	for _, vb := range vbs {
		idx := ExtractIndex(vb.OID, prefix)
		if idx == "" {
			continue
		}
		m[idx] = vb.Value
	}
	return m
}
