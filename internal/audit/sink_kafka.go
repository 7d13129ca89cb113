package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"confgate/pkg/platform/circuit"
)

// DefaultChangeTopic is the broker topic change events are published to.
const DefaultChangeTopic = "confgate.config-changes"

const produceTimeout = 5 * time.Second

// KafkaSink publishes journal entries to a broker topic for downstream
// consumers (compliance exports, cache invalidators). Delivery is confirmed
// while the broker is healthy; after repeated failures the breaker opens and
// events become fire-and-forget probes, so a broker outage can never back up
// the journal pipeline. The first confirmed probe closes the breaker again.
type KafkaSink struct {
	client  *kgo.Client
	topic   string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// KafkaSinkOption configures a KafkaSink.
type KafkaSinkOption func(*KafkaSink)

// WithKafkaTopic overrides DefaultChangeTopic.
func WithKafkaTopic(topic string) KafkaSinkOption {
	return func(s *KafkaSink) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithKafkaLogger sets the logger.
func WithKafkaLogger(logger *slog.Logger) KafkaSinkOption {
	return func(s *KafkaSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewKafkaSink connects to the brokers and ensures the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, opts ...KafkaSinkOption) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID("confgate"),
	)
	if err != nil {
		return nil, fmt.Errorf("create broker client: %w", err)
	}

	sink := &KafkaSink{
		client:  client,
		topic:   DefaultChangeTopic,
		breaker: circuit.New("audit-broker", circuit.WithFailureThreshold(3)),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sink)
		}
	}

	if err := sink.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return sink, nil
}

func (s *KafkaSink) ensureTopic(ctx context.Context) error {
	admin := kadm.NewClient(s.client)
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %q: %w", s.topic, err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %q: %w", res.Topic, res.Err)
		}
	}
	return nil
}

// Append publishes the event as JSON, keyed by action so consumers can
// partition by event class.
func (s *KafkaSink) Append(ctx context.Context, e Event) error {
	payload, err := json.Marshal(eventRecord(e))
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(e.Action),
		Value: payload,
	}

	if s.breaker.IsOpen() {
		// Unconfirmed probe; the delivery callback closes the breaker when
		// the broker comes back.
		s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
			if err != nil {
				s.breaker.RecordFailure()
				return
			}
			if _, change := s.breaker.RecordSuccess(); change.Closed {
				s.logger.Info("audit broker recovered, resuming confirmed delivery")
			}
		})
		return nil
	}

	produceCtx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()
	if err := s.client.ProduceSync(produceCtx, record).FirstErr(); err != nil {
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.logger.Error("audit broker unreachable, switching to unconfirmed delivery",
				"error", err,
				"topic", s.topic,
			)
		}
		return fmt.Errorf("publish audit event: %w", err)
	}
	s.breaker.RecordSuccess()
	return nil
}

// Close flushes buffered records and releases the client.
func (s *KafkaSink) Close() {
	s.client.Close()
}

// changeRecord is the wire shape published to the broker. Kept separate from
// Event so the journal's internal type can evolve without breaking consumers.
type changeRecord struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	Reason    string        `json:"reason,omitempty"`
	Changes   []FieldChange `json:"changes,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Domain    string        `json:"domain,omitempty"`
	Folder    string        `json:"folder,omitempty"`
}

func eventRecord(e Event) changeRecord {
	return changeRecord{
		ID:        e.ID.String(),
		Timestamp: e.Timestamp,
		Action:    string(e.Action),
		Reason:    e.Reason,
		Changes:   e.Changes,
		RequestID: e.RequestID,
		Domain:    e.DomainName,
		Folder:    e.Folder,
	}
}
