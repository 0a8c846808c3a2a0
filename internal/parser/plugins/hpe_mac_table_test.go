package plugins

import "testing"

func TestHpeMacTableParser_CLIFormat(t *testing.T) {
	p := hpeMacTableParser{}
	raw := "MAC ADDR          VLAN ID  STATE          PORT INDEX       AGING TIME(s)\n" +
		"000c-29aa-bb01    100      Learned        GigabitEthernet1/0/1   AGING\n" +
		"000c-29aa-bb02    200      Learned        GigabitEthernet1/0/2   AGING\n"

	results, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
	fields := results[0].FingerprintFields()
	if fields[0].Value != "GigabitEthernet1/0/1" {
		t.Fatalf("expected interface GigabitEthernet1/0/1, got %q", fields[0].Value)
	}
	if fields[1].Value != "100" {
		t.Fatalf("expected vlan 100, got %q", fields[1].Value)
	}
}

func TestHpeMacTableParser_CSVFormat(t *testing.T) {
	p := hpeMacTableParser{}
	results, err := p.Parse("MAC,Interface,VLAN\nAA:BB:CC:DD:EE:01,GE1/0/1,10\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(results))
	}
	fields := results[0].FingerprintFields()
	if fields[0].Value != "GE1/0/1" {
		t.Fatalf("expected interface GE1/0/1, got %q", fields[0].Value)
	}
	if fields[1].Value != "10" {
		t.Fatalf("expected vlan 10, got %q", fields[1].Value)
	}
}

func TestHpeMacTableParser_EmptyInput(t *testing.T) {
	p := hpeMacTableParser{}
	results, err := p.Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Fatalf("expected nil results for empty input, got %v", results)
	}
}

func TestHpeMacTableParser_InvalidVlanSkipped(t *testing.T) {
	p := hpeMacTableParser{}
	raw := "000c-29aa-bb01    5000      Learned        GigabitEthernet1/0/1   AGING\n"
	results, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected out-of-range vlan to be dropped, got %d results", len(results))
	}
}
