package snmp

import (
	"context"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const (
	oidCdpCacheDeviceID   = "1.3.6.1.4.1.9.9.23.1.2.1.1.6" // CISCO-CDP-MIB::cdpCacheDeviceId
	oidCdpCacheDevicePort = "1.3.6.1.4.1.9.9.23.1.2.1.1.7" // CISCO-CDP-MIB::cdpCacheDevicePort
)

// NeighborCollector walks CISCO-CDP-MIB on Cisco IOS/NXOS. HPE Comware
// does not speak CDP; Collect returns an empty slice for it rather than
// attempting a walk that would only time out.
type NeighborCollector struct{}

func (NeighborCollector) APIName() string { return "get_neighbor" }

func (NeighborCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	if deviceType.Platform() == enums.PlatformHPEComware {
		return nil, "", nil
	}

	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		ifIndexMap, err := cache.GetIfIndexMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}

		deviceIDVbs, err := engine.Walk(ctx, target, oidCdpCacheDeviceID)
		if err != nil {
			return nil, "", err
		}
		devicePortVbs, err := engine.Walk(ctx, target, oidCdpCacheDevicePort)
		if err != nil {
			return nil, "", err
		}
		portByIndex := indexValueMap(devicePortVbs, oidCdpCacheDevicePort)

		var results []record.Record
		for _, vb := range deviceIDVbs {
			idx := ExtractIndex(vb.OID, oidCdpCacheDeviceID)
			localIfIndex, _, ok := splitCdpIndex(idx)
			if !ok {
				continue
			}
			localIf, ok := ifIndexMap[localIfIndex]
			if !ok {
				continue
			}
			remotePort, ok := portByIndex[idx]
			if !ok {
				continue
			}
			n, err := record.NewNeighbor(localIf, vb.Value, remotePort, "cdp")
			if err != nil {
				continue
			}
			results = append(results, n)
		}

		raw := append(append([]VarBind{}, deviceIDVbs...), devicePortVbs...)
		return results, FormatRaw("get_neighbor", target.IP, deviceType, raw), nil
	})
}

// splitCdpIndex splits a cdpCacheEntry index "ifIndex.neighborIndex"
// into its two components.
func splitCdpIndex(idx string) (ifIndex, neighborIndex string, ok bool) {
	for i := len(idx) - 1; i >= 0; i-- {
		if idx[i] == '.' {
			return idx[:i], idx[i+1:], true
		}
	}
	return "", "", false
}
