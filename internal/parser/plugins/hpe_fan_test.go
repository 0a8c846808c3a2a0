package plugins

import "testing"

const hpeFanSample = `Slot 1:
FanID    Status      Direction
1        Normal      Back-to-front
2        Normal      Back-to-front
3        Absent      Back-to-front
4        Normal      Back-to-front

Slot 2:
FanID    Status      Direction
1        Normal      Front-to-back
2        Normal      Front-to-back
`

func TestHpeFanParser_Parse(t *testing.T) {
	p := hpeFanParser{}
	results, err := p.Parse(hpeFanSample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("expected 6 fan rows, got %d", len(results))
	}

	first := results[0].FingerprintFields()
	if first[0].Value != "Fan 1/1" {
		t.Fatalf("expected first fan_id 'Fan 1/1', got %q", first[0].Value)
	}
	if first[1].Value != "normal" {
		t.Fatalf("expected normalized status 'normal', got %q", first[1].Value)
	}
}

func TestHpeFanParser_EmptyInput(t *testing.T) {
	p := hpeFanParser{}
	results, err := p.Parse("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for blank input, got %d", len(results))
	}
}

func TestHpeFanParser_NoSlotHeaderDefaultsToSlotOne(t *testing.T) {
	p := hpeFanParser{}
	results, err := p.Parse("FanID    Status      Direction\n1        Normal      Back-to-front\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 fan row, got %d", len(results))
	}
	if results[0].FingerprintFields()[0].Value != "Fan 1/1" {
		t.Fatalf("expected default slot 1, got %q", results[0].FingerprintFields()[0].Value)
	}
}
