package snmp

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

const (
	oidHH3CTransceiverRxPower = "1.3.6.1.4.1.25506.2.6.2.1.1.1.13"
	oidHH3CTransceiverTxPower = "1.3.6.1.4.1.25506.2.6.2.1.1.1.12"

	oidEntitySensorValue      = "1.3.6.1.4.1.9.9.91.1.1.1.1.4" // CISCO-ENTITY-SENSOR-MIB
	oidEntPhysicalDescr       = "1.3.6.1.2.1.47.1.1.1.1.2"     // ENTITY-MIB
	oidEntPhysicalContainedIn = "1.3.6.1.2.1.47.1.1.1.1.4"     // ENTITY-MIB
)

// powerFailThresholdDBm is the floor below which a Tx/Rx reading is
// considered failing. Real devices report vendor-specific thresholds;
// this is the single conservative value every collector applies.
const powerFailThresholdDBm = -20.0

type TransceiverCollector struct{}

func (TransceiverCollector) APIName() string { return "get_transceiver" }

func (TransceiverCollector) Collect(ctx context.Context, target Target, deviceType enums.DeviceType, cache *SessionCache, engine Engine, maxRetries int) ([]record.Record, string, error) {
	return CollectWithRetry(ctx, maxRetries, func(ctx context.Context) ([]record.Record, string, error) {
		ifIndexMap, err := cache.GetIfIndexMap(ctx, target.IP)
		if err != nil {
			return nil, "", err
		}
		if deviceType.Platform() == enums.PlatformHPEComware {
			return collectHH3CTransceiver(ctx, engine, target, deviceType, ifIndexMap)
		}
		return collectCiscoTransceiver(ctx, engine, target, deviceType, ifIndexMap)
	})
}

func collectHH3CTransceiver(ctx context.Context, engine Engine, target Target, deviceType enums.DeviceType, ifIndexMap map[string]string) ([]record.Record, string, error) {
	rxVbs, err := engine.Walk(ctx, target, oidHH3CTransceiverRxPower)
	if err != nil {
		return nil, "", err
	}
	txVbs, err := engine.Walk(ctx, target, oidHH3CTransceiverTxPower)
	if err != nil {
		return nil, "", err
	}
	txByIndex := indexValueMap(txVbs, oidHH3CTransceiverTxPower)

	var results []record.Record
	for _, vb := range rxVbs {
		idx := ExtractIndex(vb.OID, oidHH3CTransceiverRxPower)
		ifIndex, lane := splitLaneIndex(idx)
		ifName, ok := ifIndexMap[ifIndex]
		if !ok {
			continue
		}
		rx := dBmFromHundredths(vb.Value)
		tx := dBmFromHundredths(txByIndex[idx])
		t, err := record.NewTransceiver(ifName, lane, tx, rx, tx > powerFailThresholdDBm, rx > powerFailThresholdDBm)
		if err != nil {
			continue
		}
		results = append(results, t)
	}
	raw := append(append([]VarBind{}, rxVbs...), txVbs...)
	return results, FormatRaw("get_transceiver", target.IP, deviceType, raw), nil
}

// collectCiscoTransceiver crosses CISCO-ENTITY-SENSOR-MIB readings with
// ENTITY-MIB's entPhysicalContainedIn to attribute each sensor to its
// parent interface entity, then distinguishes Tx vs Rx by a name-keyword
// heuristic on the sensor's own description, falling back to assigning
// alternating readings when no keyword is present.
func collectCiscoTransceiver(ctx context.Context, engine Engine, target Target, deviceType enums.DeviceType, ifIndexMap map[string]string) ([]record.Record, string, error) {
	sensorVbs, err := engine.Walk(ctx, target, oidEntitySensorValue)
	if err != nil {
		return nil, "", err
	}
	descrVbs, err := engine.Walk(ctx, target, oidEntPhysicalDescr)
	if err != nil {
		return nil, "", err
	}
	containedInVbs, err := engine.Walk(ctx, target, oidEntPhysicalContainedIn)
	if err != nil {
		return nil, "", err
	}
	descrByEntity := indexValueMap(descrVbs, oidEntPhysicalDescr)
	parentByEntity := indexValueMap(containedInVbs, oidEntPhysicalContainedIn)

	type reading struct {
		dbm    float64
		isRx   bool
		hasTag bool
	}
	byInterface := make(map[string][]reading)

	for _, vb := range sensorVbs {
		entity := ExtractIndex(vb.OID, oidEntitySensorValue)
		parentEntity, ok := parentByEntity[entity]
		if !ok {
			continue
		}
		ifName, ok := ifIndexMap[parentEntity]
		if !ok {
			continue
		}
		descr := strings.ToLower(descrByEntity[entity])
		r := reading{dbm: dBmFromHundredths(vb.Value)}
		switch {
		case strings.Contains(descr, "rx"), strings.Contains(descr, "receive"):
			r.isRx, r.hasTag = true, true
		case strings.Contains(descr, "tx"), strings.Contains(descr, "transmit"):
			r.isRx, r.hasTag = false, true
		}
		byInterface[ifName] = append(byInterface[ifName], r)
	}

	ifNames := make([]string, 0, len(byInterface))
	for ifName := range byInterface {
		ifNames = append(ifNames, ifName)
	}
	sort.Strings(ifNames)

	var results []record.Record
	for _, ifName := range ifNames {
		readings := byInterface[ifName]
		lane := 0
		var tx, rx *float64
		for i, r := range readings {
			v := r.dbm
			if r.hasTag {
				if r.isRx {
					rx = &v
				} else {
					tx = &v
				}
				continue
			}
			// no keyword: alternate assignment by position.
			if i%2 == 0 {
				tx = &v
			} else {
				rx = &v
			}
		}
		if tx == nil || rx == nil {
			continue
		}
		t, err := record.NewTransceiver(ifName, lane, *tx, *rx, *tx > powerFailThresholdDBm, *rx > powerFailThresholdDBm)
		if err != nil {
			continue
		}
		results = append(results, t)
	}

	raw := append(append(append([]VarBind{}, sensorVbs...), descrVbs...), containedInVbs...)
	return results, FormatRaw("get_transceiver", target.IP, deviceType, raw), nil
}

// splitLaneIndex splits an HH3C transceiver index "ifIndex.lane" (or a
// bare ifIndex for single-lane optics, lane 0).
func splitLaneIndex(idx string) (ifIndex string, lane int) {
	for i := len(idx) - 1; i >= 0; i-- {
		if idx[i] == '.' {
			return idx[:i], SafeInt(idx[i+1:], 0)
		}
	}
	return idx, 0
}

// dBmFromHundredths converts the hundredths-of-a-dBm integer encoding
// most optical MIBs use into a float dBm value.
func dBmFromHundredths(raw string) float64 {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return float64(n) / 100.0
}
