package collection

import (
	"context"
	"fmt"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/maintenance"
	"github.com/nwmaint/collectord/internal/record"
	"github.com/nwmaint/collectord/internal/snmp"
)

// SNMPDriver collects by SNMP, delegating any api_name in
// PassthroughAPINames or with no registered collector to an HTTPDriver.
// The engine is shared, read-only, across the driver's whole lifetime;
// the SessionCache is not — ResetForCycle swaps in a fresh one at the
// start of every Collect call, matching the rule that community-probe
// and ifIndex/bridge-port memoization must never leak between cycles.
type SNMPDriver struct {
	collectors       *snmp.CollectorRegistry
	engine           snmp.Engine
	communities      []string
	cache            *snmp.SessionCache
	port             uint16
	timeout          float64
	retries          int
	collectorRetries int
	fallback         *HTTPDriver
}

// NewSNMPDriver builds the SNMP driver. retries is the transport-level
// per-request retry count baked into every Target; collectorRetries is
// the collector-level retry loop bound applied around each indicator's
// whole walk-and-assemble attempt.
func NewSNMPDriver(engine snmp.Engine, communities []string, port uint16, timeout float64, retries, collectorRetries int, fallback *HTTPDriver) *SNMPDriver {
	d := &SNMPDriver{
		collectors:       snmp.NewCollectorRegistry(),
		engine:           engine,
		communities:      communities,
		port:             port,
		timeout:          timeout,
		retries:          retries,
		collectorRetries: collectorRetries,
		fallback:         fallback,
	}
	d.cache = snmp.NewSessionCache(engine, communities, port, timeout, retries)
	return d
}

// ResetForCycle discards the driver's SessionCache and builds a fresh
// one, called by the collection service once at the start of every
// Collect invocation (never mid-cycle: device tasks within one cycle
// must share the same cache to get the deduplication benefit it exists
// for).
func (d *SNMPDriver) ResetForCycle() {
	d.cache = snmp.NewSessionCache(d.engine, d.communities, d.port, d.timeout, d.retries)
}

func (d *SNMPDriver) CollectForTarget(ctx context.Context, apiName string, deviceType enums.DeviceType, target maintenance.DeviceTarget) ([]record.Record, string, error) {
	if PassthroughAPINames[apiName] {
		return d.fallback.CollectForTarget(ctx, apiName, deviceType, target)
	}

	collector, ok := d.collectors.Get(apiName)
	if !ok {
		return d.fallback.CollectForTarget(ctx, apiName, deviceType, target)
	}

	snmpTarget, err := d.cache.GetTarget(ctx, target.NewIPAddress)
	if err != nil {
		return nil, "", fmt.Errorf("snmp: resolving target %s: %w", target.NewIPAddress, err)
	}

	return collector.Collect(ctx, snmpTarget, deviceType, d.cache, d.engine, d.collectorRetries)
}
