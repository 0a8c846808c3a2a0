package snmp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// SessionCache absorbs per-device discovery work that every collector
// invoked within one collection cycle would otherwise repeat: which
// community string a device actually answers to, and its ifIndex/
// bridge-port maps. Constructed fresh at the start of each Collect call;
// never shared across cycles, since communities and topology can change
// between them.
type SessionCache struct {
	engine    Engine
	port      uint16
	timeout   float64
	retries   int
	community []string

	mu          sync.Mutex
	targets     map[string]Target
	ifIndexMaps map[string]map[string]string // ip -> ifIndex -> ifName
	bridgePorts map[string]map[string]string // ip -> bridgePort -> ifIndex
}

func NewSessionCache(engine Engine, communities []string, port uint16, timeout float64, retries int) *SessionCache {
	return &SessionCache{
		engine:      engine,
		port:        port,
		timeout:     timeout,
		retries:     retries,
		community:   communities,
		targets:     make(map[string]Target),
		ifIndexMaps: make(map[string]map[string]string),
		bridgePorts: make(map[string]map[string]string),
	}
}

// Clear resets all three caches, for tests that reuse one SessionCache
// instance across simulated cycles.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targets = make(map[string]Target)
	c.ifIndexMaps = make(map[string]map[string]string)
	c.bridgePorts = make(map[string]map[string]string)
}

// GetTarget resolves ip to a working Target by probing candidate
// community strings in order with a sysObjectID GET, caching the first
// one that answers. A timeout on one community tries the next; if every
// candidate times out, the last timeout is returned.
func (c *SessionCache) GetTarget(ctx context.Context, ip string) (Target, error) {
	c.mu.Lock()
	if t, ok := c.targets[ip]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	var lastErr error
	for _, community := range c.community {
		candidate := Target{IP: ip, Community: community, Port: c.port, Timeout: c.timeout, Retries: c.retries}
		_, err := c.engine.Get(ctx, candidate, OIDSysObjectID)
		if err == nil {
			c.mu.Lock()
			c.targets[ip] = candidate
			c.mu.Unlock()
			return candidate, nil
		}
		lastErr = err
		if !errors.Is(err, ErrTimeout) {
			// a non-timeout failure (bad community syntax, malformed PDU)
			// is still worth trying the next candidate for, but is the
			// error surfaced if nothing else works either.
			continue
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("snmp: no candidate communities configured")
	}
	return Target{}, fmt.Errorf("snmp: probing %s: %w", ip, lastErr)
}

// GetIfIndexMap walks IF-MIB::ifName once per device per cycle and
// caches the ifIndex -> ifName mapping collectors join against.
func (c *SessionCache) GetIfIndexMap(ctx context.Context, ip string) (map[string]string, error) {
	c.mu.Lock()
	if m, ok := c.ifIndexMaps[ip]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	target, err := c.GetTarget(ctx, ip)
	if err != nil {
		return nil, err
	}
	vbs, err := c.engine.Walk(ctx, target, OIDIfName)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(vbs))
	for _, vb := range vbs {
		idx := ExtractIndex(vb.OID, OIDIfName)
		if idx == "" {
			continue
		}
		m[idx] = vb.Value
	}
	c.mu.Lock()
	c.ifIndexMaps[ip] = m
	c.mu.Unlock()
	return m, nil
}

// GetBridgePortMap walks BRIDGE-MIB::dot1dBasePortIfIndex once per
// device per cycle and caches the bridge-port -> ifIndex mapping MAC
// table collectors join against.
func (c *SessionCache) GetBridgePortMap(ctx context.Context, ip string) (map[string]string, error) {
	c.mu.Lock()
	if m, ok := c.bridgePorts[ip]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	target, err := c.GetTarget(ctx, ip)
	if err != nil {
		return nil, err
	}
	vbs, err := c.engine.Walk(ctx, target, OIDDot1dBasePortIfIndex)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(vbs))
	for _, vb := range vbs {
		port := ExtractIndex(vb.OID, OIDDot1dBasePortIfIndex)
		if port == "" {
			continue
		}
		m[port] = vb.Value
	}
	c.mu.Lock()
	c.bridgePorts[ip] = m
	c.mu.Unlock()
	return m, nil
}

// ExtractIndex strips prefix plus its trailing dot from oid, returning
// whatever index suffix remains (a single integer, or a dotted
// multi-component index such as a MAC-encoded one). Returns "" if oid
// does not start with prefix.
func ExtractIndex(oid, prefix string) string {
	p := prefix
	if !strings.HasSuffix(p, ".") {
		p += "."
	}
	if !strings.HasPrefix(oid, p) {
		return ""
	}
	return oid[len(p):]
}

// SafeInt parses val as an integer, returning def on any parse failure
// rather than propagating an error — used by collectors reading loosely
// structured SNMP index/value strings where a malformed entry should be
// skipped, not fail the whole walk.
func SafeInt(val string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return def
	}
	return n
}
