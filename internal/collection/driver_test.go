package collection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nwmaint/collectord/internal/enums"
	"github.com/nwmaint/collectord/internal/fetcher"
	"github.com/nwmaint/collectord/internal/maintenance"
	"github.com/nwmaint/collectord/internal/parser"
	_ "github.com/nwmaint/collectord/internal/parser/plugins"
	"github.com/nwmaint/collectord/internal/snmp"
)

func testHTTPDriver(t *testing.T, body string) *HTTPDriver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	fetchers := fetcher.NewRegistry()
	fetchers.Register(fetcher.NewConfigured("ping_batch", "/ping/{switch_ip}", fetcher.Source{
		BaseURL: srv.URL,
		Timeout: time.Second,
	}))
	return NewHTTPDriver(fetchers, parser.Default())
}

func TestSNMPDriver_PassthroughDelegatesToHTTP(t *testing.T) {
	httpDriver := testHTTPDriver(t, `{"results":[{"ip":"10.0.0.9","reachable":true}]}`)
	d := NewSNMPDriver(snmp.NewMockEngine(), []string{"public"}, 161, 1.0, 0, 0, httpDriver)

	target := maintenance.DeviceTarget{NewHostname: "SW-01", NewIPAddress: "10.1.1.1"}
	items, raw, err := d.CollectForTarget(context.Background(), "ping_batch",
		enums.NewDeviceType(enums.PlatformCiscoIOS), target)
	if err != nil {
		t.Fatalf("CollectForTarget: %v", err)
	}
	if raw == "" {
		t.Error("expected the HTTP body to come back as raw output")
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 ping record via the HTTP fallback, got %d", len(items))
	}
	fields := items[0].FingerprintFields()
	if fields[0].Name != "is_reachable" || fields[0].Value != "true" {
		t.Errorf("unexpected ping record fields: %+v", fields)
	}
}

func TestSNMPDriver_UnknownAPIFallsBackToHTTP(t *testing.T) {
	httpDriver := testHTTPDriver(t, "irrelevant")
	d := NewSNMPDriver(snmp.NewMockEngine(), []string{"public"}, 161, 1.0, 0, 0, httpDriver)

	target := maintenance.DeviceTarget{NewHostname: "SW-01", NewIPAddress: "10.1.1.1"}
	_, _, err := d.CollectForTarget(context.Background(), "get_custom_thing",
		enums.NewDeviceType(enums.PlatformCiscoIOS), target)
	if err == nil {
		t.Fatal("expected an error: no collector and no fetcher registered for get_custom_thing")
	}
}

func TestPassthroughSetMatchesSpec(t *testing.T) {
	for _, name := range []string{"get_static_acl", "get_dynamic_acl", "gnms_ping", "ping_batch"} {
		if !PassthroughAPINames[name] {
			t.Errorf("expected %s in the passthrough set", name)
		}
	}
	if PassthroughAPINames["get_fan"] {
		t.Error("get_fan must not be in the passthrough set")
	}
}
