package parser

import (
	"testing"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/record"
)

type stubParser struct {
	apiName    string
	deviceType enums.DeviceType
}

func (s stubParser) APIName() string             { return s.apiName }
func (s stubParser) DeviceType() enums.DeviceType { return s.deviceType }
func (s stubParser) Parse(string) ([]record.Record, error) {
	return nil, nil
}

func TestRegistry_ExactMatch(t *testing.T) {
	r := NewRegistry()
	p := stubParser{apiName: "get_fan", deviceType: enums.NewDeviceType(enums.PlatformHPEComware)}
	r.Register(p)

	got, ok := r.Get("get_fan", enums.NewDeviceType(enums.PlatformHPEComware))
	if !ok || got != Parser(p) {
		t.Fatalf("expected exact-match parser, got %v, ok=%v", got, ok)
	}
}

func TestRegistry_GenericFallback(t *testing.T) {
	r := NewRegistry()
	p := stubParser{apiName: "ping_batch", deviceType: enums.AnyDeviceType}
	r.Register(p)

	got, ok := r.Get("ping_batch", enums.NewDeviceType(enums.PlatformCiscoIOS))
	if !ok || got != Parser(p) {
		t.Fatalf("expected fallback to vendor-neutral parser, got %v, ok=%v", got, ok)
	}
}

func TestRegistry_ExactBeatsFallback(t *testing.T) {
	r := NewRegistry()
	generic := stubParser{apiName: "get_version", deviceType: enums.AnyDeviceType}
	specific := stubParser{apiName: "get_version", deviceType: enums.NewDeviceType(enums.PlatformCiscoIOS)}
	r.Register(generic)
	r.Register(specific)

	got, ok := r.Get("get_version", enums.NewDeviceType(enums.PlatformCiscoIOS))
	if !ok || got != Parser(specific) {
		t.Fatalf("expected the exact-match registration to win, got %v", got)
	}
}

func TestRegistry_GetNonexistent(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("nonexistent", enums.AnyDeviceType); ok {
		t.Fatal("expected no parser found")
	}
}

func TestRegistry_MustGetError(t *testing.T) {
	r := NewRegistry()
	if _, err := r.MustGet("nonexistent", enums.AnyDeviceType); err == nil {
		t.Fatal("expected error for unregistered api_name")
	}
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(stubParser{apiName: "get_fan", deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	r.Register(stubParser{apiName: "get_fan", deviceType: enums.NewDeviceType(enums.PlatformHPEComware)})
}
