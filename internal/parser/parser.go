// Package parser holds the registry that maps a vendor command/API name
// onto the code that turns its raw text output into typed records.
// Parsers are value-to-value: raw text in, []record.Record out. They never
// touch the database or the network.
package parser

import (
	"fmt"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

// Parser turns one device's raw command output into zero or more typed
// records. A parser never partially fails: a line it cannot make sense of
// is dropped, not reported, matching the reference system's "best effort"
// contract for CLI scraping.
type Parser interface {
	APIName() string
	DeviceType() enums.DeviceType
	Parse(raw string) ([]record.Record, error)
}

// Key is the composite registration key: (device_type, api_name). A zero
// DeviceType (enums.AnyDeviceType) registers a vendor-neutral parser, such
// as the ping_batch passthrough.
type Key struct {
	DeviceType enums.DeviceType
	APIName    string
}

// Registry resolves a Key to a Parser with exact-match-then-fallback
// semantics: an exact (device_type, api_name) hit wins; otherwise a
// (any, api_name) registration is tried before giving up.
type Registry struct {
	parsers map[Key]Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Key]Parser)}
}

// global is the process-wide registry populated by plugin package init()
// functions via Register, mirroring how plugins self-register rather than
// being discovered by scanning a directory.
var global = NewRegistry()

// Register adds p to the global registry. It panics on a duplicate
// (device_type, api_name) key: two parsers claiming the same command is a
// startup-time programming error, never a runtime condition to tolerate.
func Register(p Parser) {
	global.Register(p)
}

func (r *Registry) Register(p Parser) {
	key := Key{DeviceType: p.DeviceType(), APIName: p.APIName()}
	if _, exists := r.parsers[key]; exists {
		panic(fmt.Sprintf("parser: duplicate registration for device_type=%s api_name=%s", key.DeviceType, key.APIName))
	}
	r.parsers[key] = p
}

// Get resolves apiName for deviceType, falling back to the vendor-neutral
// registration when no exact match exists.
func (r *Registry) Get(apiName string, deviceType enums.DeviceType) (Parser, bool) {
	if !deviceType.IsAbsent() {
		if p, ok := r.parsers[Key{DeviceType: deviceType, APIName: apiName}]; ok {
			return p, true
		}
	}
	p, ok := r.parsers[Key{DeviceType: enums.AnyDeviceType, APIName: apiName}]
	return p, ok
}

// MustGet resolves apiName for deviceType or returns an error identifying
// both lookup fields, for callers (the collection services) that treat a
// missing parser as a per-device collection failure rather than a panic.
func (r *Registry) MustGet(apiName string, deviceType enums.DeviceType) (Parser, error) {
	p, ok := r.Get(apiName, deviceType)
	if !ok {
		return nil, fmt.Errorf("parser: no parser registered for api_name=%s device_type=%s", apiName, deviceType)
	}
	return p, nil
}

// Default returns the global registry populated by plugin package imports.
func Default() *Registry {
	return global
}

func MustGet(apiName string, deviceType enums.DeviceType) (Parser, error) {
	return global.MustGet(apiName, deviceType)
}

func Get(apiName string, deviceType enums.DeviceType) (Parser, bool) {
	return global.Get(apiName, deviceType)
}
