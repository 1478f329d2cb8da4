// Package kafka mirrors appended audit events to a Kafka topic for SIEM and
// operational consumers. The Postgres chain stays the source of truth; the
// mirror is best-effort and never blocks an append.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/D00256764/u-vote-sub002/internal/ledger"
)

// Publisher produces audit events to a single topic, keyed by election so
// per-election ordering survives partitioning.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// payload is the wire shape. It repeats the chain fields so consumers can
// spot gaps without querying Postgres; it never carries ballot content.
type payload struct {
	LogID        int64           `json:"log_id"`
	ElectionID   string          `json:"election_id"`
	EventType    string          `json:"event_type"`
	Actor        string          `json:"actor"`
	Detail       json.RawMessage `json:"detail"`
	CreatedAt    string          `json:"created_at"`
	PreviousHash string          `json:"previous_hash"`
	EventHash    string          `json:"event_hash"`
}

// NewPublisher connects to the brokers and ensures the topic exists.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProduceRequestTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopics(ctx, 3, 1, nil, topic); err != nil {
		// Already-exists is fine; anything else is surfaced at startup rather
		// than on the first append.
		logger.Warn("create audit topic", "topic", topic, "error", err)
	}

	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces asynchronously; delivery failures are logged, not surfaced.
func (p *Publisher) Publish(ctx context.Context, event ledger.Event) {
	body, err := json.Marshal(payload{
		LogID:        event.ID,
		ElectionID:   event.ElectionID.String(),
		EventType:    string(event.Type),
		Actor:        event.Actor,
		Detail:       event.Detail,
		CreatedAt:    event.CreatedAt.Format(time.RFC3339Nano),
		PreviousHash: event.PreviousHash,
		EventHash:    event.EventHash,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal audit mirror payload", "error", err)
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.ElectionID.String()),
		Value: body,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("audit mirror produce failed",
				"topic", p.topic,
				"event_hash", event.EventHash,
				"error", err,
			)
		}
	})
}

// Close flushes outstanding records and releases the client.
func (p *Publisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return err
	}
	p.client.Close()
	return nil
}
