package plugins

import "testing"

func TestArpParser_SkipsIncomplete(t *testing.T) {
	p := arpParser{}
	raw := "Internet  10.0.0.1  -   aabb.ccdd.eeff  ARPA  Vlan10\n" +
		"Internet  10.0.0.2  -   Incomplete      ARPA  Vlan10\n"

	results, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 resolved entry, got %d", len(results))
	}
}

func TestArpParser_EmptyInput(t *testing.T) {
	p := arpParser{}
	results, err := p.Parse("   \n  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for blank input, got %d", len(results))
	}
}
