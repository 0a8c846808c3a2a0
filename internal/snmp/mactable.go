package snmp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const (
	oidVtpVlanState   = "1.3.6.1.4.1.9.9.46.1.3.1.1.2" // CISCO-VTP-MIB
	oidDot1dTpFdbPort = "1.3.6.1.2.1.17.4.3.1.2"        // BRIDGE-MIB, 6-octet MAC index
	oidDot1qTpFdbPort = "1.3.6.1.2.1.17.7.1.2.2.1.2"    // Q-BRIDGE-MIB, VLAN+MAC index

	vtpVlanStateActive = "1"
	reservedVlanLow     = 1002
	reservedVlanHigh    = 1005
)

type MacTableCollector struct{}

func (MacTableCollector) APIName() string { return "get_mac_table" }

func (c MacTableCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		bridgePorts, err := cache.GetBridgePortMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}
		ifIndexMap, err := cache.GetIfIndexMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}

		if deviceType.Platform() == enums.PlatformCiscoIOS {
			return c.collectCiscoIOS(ctx, target, deviceType, engine, bridgePorts, ifIndexMap)
		}
		return c.collectQBridge(ctx, target, deviceType, engine, bridgePorts, ifIndexMap)
	})
}

// collectCiscoIOS opens a pseudo-target per active VLAN (community
// "<community>@<vlan_id>") and walks the standard BRIDGE-MIB fdb table,
// which on IOS is implicitly scoped to the VLAN the community selects.
// A per-VLAN timeout skips that VLAN rather than failing the whole
// collection; if no active VLANs are discovered at all, falls back to
// the Q-BRIDGE walk used by every other platform.
func (c MacTableCollector) collectCiscoIOS(ctx context.Context, target Target, deviceType enums.DeviceType, engine Engine, bridgePorts, ifIndexMap map[string]string) ([]record.Record, string, error) {
	vlanVbs, err := engine.Walk(ctx, target, oidVtpVlanState)
	if err != nil {
		return nil, "", err
	}

	var activeVlans []int
	for _, vb := range vlanVbs {
		if vb.Value != vtpVlanStateActive {
			continue
		}
		idx := ExtractIndex(vb.OID, oidVtpVlanState)
		vlan := SafeInt(idx, 0)
		if vlan == 0 || (vlan >= reservedVlanLow && vlan <= reservedVlanHigh) {
			continue
		}
		activeVlans = append(activeVlans, vlan)
	}

	if len(activeVlans) == 0 {
		return c.collectQBridge(ctx, target, deviceType, engine, bridgePorts, ifIndexMap)
	}

	var results []record.Record
	var rawLines []VarBind
	for _, vlan := range activeVlans {
		vlanTarget := target
		vlanTarget.Community = fmt.Sprintf("%s@%d", target.Community, vlan)

		vbs, err := engine.Walk(ctx, vlanTarget, oidDot1dTpFdbPort)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				continue
			}
			return nil, "", err
		}
		rawLines = append(rawLines, vbs...)

		for _, vb := range vbs {
			mac, ok := macFromIndex(ExtractIndex(vb.OID, oidDot1dTpFdbPort))
			if !ok {
				continue
			}
			ifName, ok := ifIndexMap[bridgePorts[vb.Value]]
			if !ok {
				continue
			}
			entry, err := record.NewMacTableEntry(mac, ifName, vlan)
			if err != nil {
				continue
			}
			results = append(results, entry)
		}
	}
	return results, FormatRaw("get_mac_table", target.IP, deviceType, rawLines), nil
}

// collectQBridge handles the standard path used by HPE and Cisco NXOS:
// one walk of dot1qTpFdbPort, whose index encodes VLAN + MAC together.
func (c MacTableCollector) collectQBridge(ctx context.Context, target Target, deviceType enums.DeviceType, engine Engine, bridgePorts, ifIndexMap map[string]string) ([]record.Record, string, error) {
	vbs, err := engine.Walk(ctx, target, oidDot1qTpFdbPort)
	if err != nil {
		return nil, "", err
	}

	var results []record.Record
	for _, vb := range vbs {
		idx := ExtractIndex(vb.OID, oidDot1qTpFdbPort)
		vlan, mac, ok := vlanAndMacFromIndex(idx)
		if !ok {
			continue
		}
		ifName, ok := ifIndexMap[bridgePorts[vb.Value]]
		if !ok {
			continue
		}
		entry, err := record.NewMacTableEntry(mac, ifName, vlan)
		if err != nil {
			continue
		}
		results = append(results, entry)
	}
	return results, FormatRaw("get_mac_table", target.IP, deviceType, vbs), nil
}

// macFromIndex decodes a 6-octet dotted index ("a.b.c.d.e.f") into a
// canonical MAC string.
func macFromIndex(idx string) (string, bool) {
	parts := strings.Split(idx, ".")
	if len(parts) != 6 {
		return "", false
	}
	var octets [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		octets[i] = n
	}
	mac, err := enums.OctetsToMAC(octets)
	if err != nil {
		return "", false
	}
	return mac, true
}

// vlanAndMacFromIndex decodes a dot1qTpFdbPort index: leading VLAN
// component followed by the 6-octet MAC.
func vlanAndMacFromIndex(idx string) (int, string, bool) {
	parts := strings.Split(idx, ".")
	if len(parts) != 7 {
		return 0, "", false
	}
	vlan, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", false
	}
	mac, ok := macFromIndex(strings.Join(parts[1:], "."))
	if !ok {
		return 0, "", false
	}
	return vlan, mac, true
}
