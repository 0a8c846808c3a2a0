package kafka

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPublish_NoBrokersIsNoop(t *testing.T) {
	p, err := NewPublisher(nil, "batch-changed", "collectord-test", nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Must not panic or block with a nil underlying client.
	p.Publish(context.Background(), BatchChangedEvent{
		APIName:        "get_fan_hpe_dna",
		SwitchHostname: "SW-01",
		MaintenanceID:  "MAINT-001",
		BatchID:        1,
		CollectedAt:    time.Now().UTC(),
	})

	p.Close()
}
