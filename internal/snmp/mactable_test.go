package snmp

import (
	"context"
	"fmt"
	"testing"

	"github.com/nwmaint/collectord/internal/enums"
)

// scriptedEngine serves canned walk results keyed by (community, prefix)
// and records every walk it receives, so tests can assert which per-VLAN
// pseudo-communities the MAC-table collector opened.
type scriptedEngine struct {
	walks     map[string][]VarBind // "community|prefix" -> varbinds
	walkCalls []string
}

func walkKey(community, prefix string) string { return community + "|" + prefix }

func (e *scriptedEngine) Get(ctx context.Context, target Target, oids ...string) (map[string]string, error) {
	result := make(map[string]string, len(oids))
	for _, oid := range oids {
		result[oid] = "1.3.6.1.4.1.9.1.1"
	}
	return result, nil
}

func (e *scriptedEngine) Walk(ctx context.Context, target Target, oidPrefix string) ([]VarBind, error) {
	key := walkKey(target.Community, oidPrefix)
	e.walkCalls = append(e.walkCalls, key)
	vbs, ok := e.walks[key]
	if !ok {
		return nil, fmt.Errorf("unexpected walk: %w", ErrTimeout)
	}
	return vbs, nil
}

func TestMacTableCollector_CiscoIOSPerVlanCommunities(t *testing.T) {
	engine := &scriptedEngine{walks: map[string][]VarBind{
		walkKey("public", oidVtpVlanState): {
			{OID: oidVtpVlanState + ".10", Value: "1"},
			{OID: oidVtpVlanState + ".20", Value: "1"},
			{OID: oidVtpVlanState + ".30", Value: "2"},   // not active
			{OID: oidVtpVlanState + ".1002", Value: "1"}, // reserved
			{OID: oidVtpVlanState + ".1005", Value: "1"}, // reserved
		},
		walkKey("public", OIDDot1dBasePortIfIndex): {
			{OID: OIDDot1dBasePortIfIndex + ".1", Value: "101"},
			{OID: OIDDot1dBasePortIfIndex + ".2", Value: "102"},
		},
		walkKey("public", OIDIfName): {
			{OID: OIDIfName + ".101", Value: "GigabitEthernet1/0/1"},
			{OID: OIDIfName + ".102", Value: "GigabitEthernet1/0/2"},
		},
		walkKey("public@10", oidDot1dTpFdbPort): {
			{OID: oidDot1dTpFdbPort + ".0.17.171.203.222.239", Value: "1"},
		},
		walkKey("public@20", oidDot1dTpFdbPort): {
			{OID: oidDot1dTpFdbPort + ".0.1.2.3.4.5", Value: "2"},
		},
	}}

	cache := NewSessionCache(engine, []string{"public"}, 161, 2.0, 1)
	target := Target{IP: "10.0.0.1", Community: "public", Port: 161, Timeout: 2.0, Retries: 1}

	items, raw, err := MacTableCollector{}.Collect(
		context.Background(), target, enums.NewDeviceType(enums.PlatformCiscoIOS), cache, engine, 1)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if raw == "" {
		t.Error("expected non-empty raw output")
	}

	fdbWalks := filterWalks(engine.walkCalls, oidDot1dTpFdbPort)
	if len(fdbWalks) != 2 {
		t.Fatalf("expected per-VLAN walks for exactly VLANs 10 and 20, got %v", fdbWalks)
	}
	if fdbWalks[0] != walkKey("public@10", oidDot1dTpFdbPort) || fdbWalks[1] != walkKey("public@20", oidDot1dTpFdbPort) {
		t.Fatalf("unexpected per-VLAN communities: %v", fdbWalks)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 MAC entries, got %d", len(items))
	}
	first := items[0].FingerprintFields()
	if first[0].Value != "GigabitEthernet1/0/1" || first[1].Value != "10" {
		t.Errorf("first entry = %v, want GigabitEthernet1/0/1 vlan 10", first)
	}
	second := items[1].FingerprintFields()
	if second[0].Value != "GigabitEthernet1/0/2" || second[1].Value != "20" {
		t.Errorf("second entry = %v, want GigabitEthernet1/0/2 vlan 20", second)
	}
}

// filterWalks narrows recorded walk calls down to those against prefix.
func filterWalks(calls []string, prefix string) []string {
	var out []string
	for _, c := range calls {
		if len(c) > len(prefix) && c[len(c)-len(prefix):] == prefix {
			out = append(out, c)
		}
	}
	return out
}

func TestMacTableCollector_PerVlanTimeoutSkipsVlan(t *testing.T) {
	engine := &scriptedEngine{walks: map[string][]VarBind{
		walkKey("public", oidVtpVlanState): {
			{OID: oidVtpVlanState + ".10", Value: "1"},
			{OID: oidVtpVlanState + ".20", Value: "1"},
		},
		walkKey("public", OIDDot1dBasePortIfIndex): {
			{OID: OIDDot1dBasePortIfIndex + ".1", Value: "101"},
		},
		walkKey("public", OIDIfName): {
			{OID: OIDIfName + ".101", Value: "GigabitEthernet1/0/1"},
		},
		// public@10 missing -> walk errors with ErrTimeout and VLAN 10 is skipped
		walkKey("public@20", oidDot1dTpFdbPort): {
			{OID: oidDot1dTpFdbPort + ".0.17.171.203.222.239", Value: "1"},
		},
	}}

	cache := NewSessionCache(engine, []string{"public"}, 161, 2.0, 1)
	target := Target{IP: "10.0.0.1", Community: "public", Port: 161, Timeout: 2.0, Retries: 1}

	items, _, err := MacTableCollector{}.Collect(
		context.Background(), target, enums.NewDeviceType(enums.PlatformCiscoIOS), cache, engine, 1)
	if err != nil {
		t.Fatalf("expected per-VLAN timeout to be skipped, not fatal: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 entry from the surviving VLAN, got %d", len(items))
	}
	if items[0].FingerprintFields()[1].Value != "20" {
		t.Errorf("expected the surviving entry to come from VLAN 20")
	}
}
