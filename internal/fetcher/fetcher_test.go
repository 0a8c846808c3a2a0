package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nwmaint/collectord/internal/enums"
)

func TestConfigured_PlaceholderSubstitutionAndQueryParams(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewConfigured("get_fan", "/api/v1/fan/{switch_ip}", Source{BaseURL: srv.URL, Timeout: time.Second})
	result := f.Fetch(context.Background(), Context{
		SwitchIP:       "10.1.1.1",
		SwitchHostname: "sw1",
		DeviceType:     enums.NewDeviceType(enums.PlatformHPEComware),
	})

	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if gotPath != "/api/v1/fan/10.1.1.1" {
		t.Fatalf("expected substituted path, got %q", gotPath)
	}
	if gotQuery == "" {
		t.Fatal("expected unconsumed vars to become query params")
	}
}

func TestConfigured_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	f := NewConfigured("get_fan", "/api/v1/fan/{switch_ip}", Source{BaseURL: srv.URL, Timeout: time.Second})
	result := f.Fetch(context.Background(), Context{SwitchIP: "10.1.1.1"})

	if result.Success {
		t.Fatal("expected failure on HTTP 500")
	}
}

func TestConfigured_NoEndpointConfigured(t *testing.T) {
	f := NewConfigured("get_fan", "", Source{})
	result := f.Fetch(context.Background(), Context{})
	if result.Success {
		t.Fatal("expected failure for empty endpoint template")
	}
}

func TestRegistry_GetAndMustGet(t *testing.T) {
	r := NewRegistry()
	f := NewConfigured("get_fan", "/fan/{switch_ip}", Source{Timeout: time.Second})
	r.Register(f)

	if _, ok := r.Get("get_fan"); !ok {
		t.Fatal("expected registered fetcher to be found")
	}
	if _, err := r.MustGet("nonexistent"); err == nil {
		t.Fatal("expected error for unregistered api_name")
	}
}
