package snmp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExtractIndex(t *testing.T) {
	cases := []struct{ oid, prefix, want string }{
		{"1.3.6.1.2.1.31.1.1.1.1.5", "1.3.6.1.2.1.31.1.1.1.1", "5"},
		{"1.3.6.1.2.1.17.4.3.1.2.0.17.171.203.222.239", "1.3.6.1.2.1.17.4.3.1.2", "0.17.171.203.222.239"},
		{"2.2.2.2", "1.1.1.1", ""},
	}
	for _, c := range cases {
		got := ExtractIndex(c.oid, c.prefix)
		if got != c.want {
			t.Errorf("ExtractIndex(%q, %q) = %q, want %q", c.oid, c.prefix, got, c.want)
		}
	}
}

func TestSafeInt(t *testing.T) {
	if SafeInt("42", -1) != 42 {
		t.Fatal("expected 42")
	}
	if SafeInt("garbage", -1) != -1 {
		t.Fatal("expected fallback for unparseable input")
	}
}

func TestParseAggOperState_SynchronizationBit(t *testing.T) {
	cases := []struct {
		val  string
		sync bool
	}{
		{"0x08", true},
		{"0x0f", true},
		{"0x07", false},
		{"8", true},
		{"7", false},
	}
	for _, c := range cases {
		sync, ok := parseAggOperState(c.val)
		if !ok {
			t.Fatalf("parseAggOperState(%q) failed to parse", c.val)
		}
		if sync != c.sync {
			t.Errorf("parseAggOperState(%q) sync = %v, want %v", c.val, sync, c.sync)
		}
	}
}

func TestSessionCache_GetTarget_FallsThroughCommunities(t *testing.T) {
	engine := &fakeEngine{acceptedCommunity: "public2"}
	cache := NewSessionCache(engine, []string{"public1", "public2"}, 161, 2.0, 1)

	target, err := cache.GetTarget(context.Background(), "10.0.0.1")
	if err != nil {
		t.Fatalf("GetTarget: %v", err)
	}
	if target.Community != "public2" {
		t.Errorf("community = %q, want public2", target.Community)
	}

	engine.getCalls = 0
	if _, err := cache.GetTarget(context.Background(), "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if engine.getCalls != 0 {
		t.Errorf("expected cached target to avoid re-probing, got %d calls", engine.getCalls)
	}
}

func TestSessionCache_GetTarget_ExhaustsToError(t *testing.T) {
	engine := &fakeEngine{acceptedCommunity: "never-matches"}
	cache := NewSessionCache(engine, []string{"a", "b"}, 161, 1.0, 0)

	if _, err := cache.GetTarget(context.Background(), "10.0.0.1"); err == nil {
		t.Fatal("expected error when no community works")
	}
}

type fakeEngine struct {
	acceptedCommunity string
	getCalls          int
}

func (f *fakeEngine) Get(ctx context.Context, target Target, oids ...string) (map[string]string, error) {
	f.getCalls++
	if target.Community != f.acceptedCommunity {
		return nil, fmt.Errorf("probe failed: %w", ErrTimeout)
	}
	return map[string]string{OIDSysObjectID: "1.3.6.1.4.1.9.1.1"}, nil
}

func (f *fakeEngine) Walk(ctx context.Context, target Target, oidPrefix string) ([]VarBind, error) {
	return nil, nil
}

func TestMockEngine_StableWithinCycleVariesAcross(t *testing.T) {
	fixed := time.Date(2026, 7, 29, 10, 0, 30, 0, time.UTC)
	m := &MockEngine{now: func() time.Time { return fixed }}

	vbs1, err := m.Walk(context.Background(), Target{IP: "10.0.0.5"}, OIDIfName)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	vbs2, err := m.Walk(context.Background(), Target{IP: "10.0.0.5"}, OIDIfName)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(vbs1) != len(vbs2) {
		t.Fatalf("same-minute walks diverged in length: %d vs %d", len(vbs1), len(vbs2))
	}
	for i := range vbs1 {
		if vbs1[i] != vbs2[i] {
			t.Fatalf("same-minute walk result differs at %d: %+v vs %+v", i, vbs1[i], vbs2[i])
		}
	}

	later := fixed.Add(5 * time.Minute)
	m2 := &MockEngine{now: func() time.Time { return later }}
	vbs3, err := m2.Walk(context.Background(), Target{IP: "10.0.0.5"}, OIDIfName)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(vbs3) == len(vbs1) {
		same := true
		for i := range vbs3 {
			if i >= len(vbs1) || vbs3[i] != vbs1[i] {
				same = false
				break
			}
		}
		if same {
			t.Fatal("expected mock walk output to vary across cycles")
		}
	}
}

func TestMockEngine_GetFiltersTimeoutInjection(t *testing.T) {
	var timeouts, successes int
	for i := 0; i < 200; i++ {
		fixed := time.Unix(int64(i)*60, 0)
		m := &MockEngine{now: func() time.Time { return fixed }}
		_, err := m.Get(context.Background(), Target{IP: fmt.Sprintf("10.0.%d.1", i)}, OIDSysObjectID)
		if errors.Is(err, ErrTimeout) {
			timeouts++
		} else if err == nil {
			successes++
		}
	}
	if timeouts == 0 || successes == 0 {
		t.Fatalf("expected a mix of timeouts and successes, got %d timeouts / %d successes", timeouts, successes)
	}
}
