// Package kafka is a producer-only client: it notifies the external
// comparison/evaluation service that a batch changed. This service never
// consumes from Kafka — collection state flows one way, out.
package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"go.uber.org/zap"
)

// BatchChangedEvent is published whenever a repository writes a new
// CollectionBatch row, so the evaluator can regenerate its comparison
// views without polling the database.
type BatchChangedEvent struct {
	APIName        string    `json:"api_name"`
	SwitchHostname string    `json:"switch_hostname"`
	MaintenanceID  string    `json:"maintenance_id"`
	BatchID        int64     `json:"batch_id"`
	CollectedAt    time.Time `json:"collected_at"`
}

// Publisher wraps a franz-go producer client. A Publisher built with no
// brokers is a valid, inert no-op: the evaluator is not deployed in every
// environment and the collection path must not depend on it being up.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *zap.Logger
}

// NewPublisher builds a Publisher. If brokers is empty, Publish on the
// returned Publisher is always a no-op.
func NewPublisher(brokers []string, topic, clientID string, tlsCfg *tls.Config, saslMech sasl.Mechanism, logger *zap.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return &Publisher{logger: logger}, nil
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	if saslMech != nil {
		opts = append(opts, kgo.SASL(saslMech))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// Publish sends ev keyed by SwitchHostname so every event for one device
// lands on the same partition, preserving per-device ordering for any
// consumer that cares. Publish is fire-and-forget: a failure is logged,
// never propagated, because the batch write it follows is already durable
// on its own.
func (p *Publisher) Publish(ctx context.Context, ev BatchChangedEvent) {
	if p.client == nil {
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("event publish: marshal failed", zap.Error(err), zap.String("api_name", ev.APIName))
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.SwitchHostname),
		Value: body,
	}

	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("event publish failed",
				zap.Error(err),
				zap.String("api_name", ev.APIName),
				zap.String("switch_hostname", ev.SwitchHostname),
			)
		}
	})
}

func (p *Publisher) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
