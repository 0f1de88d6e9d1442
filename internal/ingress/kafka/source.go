// Package kafka consumes tracker events from a Kafka topic and feeds them
// into the engine through the same ingress as API events. The source is
// optional; the host only wires it when brokers are configured.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

var records = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tt_automation_kafka_records_total",
	Help: "Total Kafka records consumed by outcome",
}, []string{"outcome"}) // outcome: "accepted", "skipped"

const defaultRetryDelay = 100 * time.Millisecond

// Acceptor is the engine-side ingress the source feeds.
type Acceptor interface {
	Accept(ctx context.Context, trigger models.TriggerType, payload map[string]any, source models.EventSource, occurredAt time.Time) (models.Event, error)
}

// eventRecord is the wire shape of one tracker event on the topic.
type eventRecord struct {
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	OccurredAt *time.Time     `json:"occurred_at,omitempty"`
}

// Source is a consumer-group Kafka source.
type Source struct {
	client     *kgo.Client
	acceptor   Acceptor
	topic      string
	group      string
	logger     *slog.Logger
	retryDelay time.Duration
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetryDelay sets how long a full engine queue holds consumption
// before the record is offered again.
func WithRetryDelay(delay time.Duration) Option {
	return func(s *Source) {
		if delay > 0 {
			s.retryDelay = delay
		}
	}
}

// New constructs a Kafka source consuming topic as part of group. Offsets
// are committed explicitly after each poll is fully handed to the engine,
// so delivery into the engine is at least once.
func New(brokers []string, topic, group string, acceptor Acceptor, opts ...Option) (*Source, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if group == "" {
		return nil, fmt.Errorf("consumer group is required")
	}
	if acceptor == nil {
		return nil, fmt.Errorf("acceptor is required")
	}

	s := &Source{
		acceptor:   acceptor,
		topic:      topic,
		group:      group,
		logger:     slog.Default(),
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s.client = client
	return s, nil
}

// Run consumes until ctx is cancelled. The topic is created first if it
// does not exist, so the service comes up cleanly against a fresh cluster.
func (s *Source) Run(ctx context.Context) error {
	defer s.client.Close()

	if err := s.ensureTopic(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "kafka source started", "topic", s.topic, "group", s.group)

	for {
		fetches := s.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			s.logger.InfoContext(ctx, "kafka source stopped")
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			s.logger.ErrorContext(ctx, "kafka fetch failed",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		fetches.EachRecord(func(record *kgo.Record) {
			s.consume(ctx, record)
		})

		if err := s.client.CommitUncommittedOffsets(ctx); err != nil {
			s.logger.WarnContext(ctx, "kafka offset commit failed", "error", err)
		}
	}
}

func (s *Source) ensureTopic(ctx context.Context) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	for _, ctr := range resp {
		if ctr.Err != nil && !errors.Is(ctr.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", ctr.Topic, ctr.Err)
		}
	}
	return nil
}

// consume hands one record to the engine. Records the engine can never
// take (malformed, unknown type) are logged and dropped so the partition
// keeps moving; a full queue holds the partition until the engine drains.
func (s *Source) consume(ctx context.Context, record *kgo.Record) {
	var raw eventRecord
	if err := json.Unmarshal(record.Value, &raw); err != nil {
		records.WithLabelValues("skipped").Inc()
		s.logger.WarnContext(ctx, "skipping malformed kafka record",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"error", err,
		)
		return
	}

	trigger, err := models.ParseTriggerType(raw.Type)
	if err != nil {
		records.WithLabelValues("skipped").Inc()
		s.logger.WarnContext(ctx, "skipping kafka record with unknown trigger",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"type", raw.Type,
		)
		return
	}

	var occurredAt time.Time
	if raw.OccurredAt != nil {
		occurredAt = *raw.OccurredAt
	}

	for {
		_, err := s.acceptor.Accept(ctx, trigger, raw.Payload, models.SourceKafka, occurredAt)
		if err == nil {
			records.WithLabelValues("accepted").Inc()
			return
		}
		if !dErrors.HasCode(err, dErrors.CodeUnavailable) {
			records.WithLabelValues("skipped").Inc()
			s.logger.WarnContext(ctx, "skipping rejected kafka record",
				"topic", record.Topic,
				"partition", record.Partition,
				"offset", record.Offset,
				"error", err,
			)
			return
		}

		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return
		}
	}
}
