package kafka

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

type acceptedCall struct {
	trigger    models.TriggerType
	payload    map[string]any
	source     models.EventSource
	occurredAt time.Time
}

// sequenceAcceptor fails with the queued errors first, then admits events
// under the same validation the engine applies.
type sequenceAcceptor struct {
	mu    sync.Mutex
	errs  []error
	calls []acceptedCall
}

func (a *sequenceAcceptor) Accept(_ context.Context, trigger models.TriggerType, payload map[string]any, source models.EventSource, occurredAt time.Time) (models.Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		return models.Event{}, err
	}
	event, err := models.NewEvent(trigger, payload, source, occurredAt, time.Now())
	if err != nil {
		return models.Event{}, err
	}
	a.calls = append(a.calls, acceptedCall{
		trigger:    trigger,
		payload:    payload,
		source:     source,
		occurredAt: occurredAt,
	})
	return event, nil
}

func (a *sequenceAcceptor) accepted() []acceptedCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]acceptedCall(nil), a.calls...)
}

func testRecord(value string) *kgo.Record {
	return &kgo.Record{Topic: "tracker-events", Partition: 0, Offset: 42, Value: []byte(value)}
}

func newTestSource(t *testing.T, acceptor Acceptor) *Source {
	t.Helper()
	source, err := New([]string{"localhost:9092"}, "tracker-events", "automation", acceptor,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRetryDelay(time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(source.client.Close)
	return source
}

func Test_New_Validation(t *testing.T) {
	acceptor := &sequenceAcceptor{}

	cases := map[string]struct {
		brokers []string
		topic   string
		group   string
		accept  Acceptor
		want    string
	}{
		"no brokers":  {nil, "tracker-events", "automation", acceptor, "at least one broker is required"},
		"no topic":    {[]string{"localhost:9092"}, "", "automation", acceptor, "topic is required"},
		"no group":    {[]string{"localhost:9092"}, "tracker-events", "", acceptor, "consumer group is required"},
		"no acceptor": {[]string{"localhost:9092"}, "tracker-events", "automation", nil, "acceptor is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(tc.brokers, tc.topic, tc.group, tc.accept)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func Test_Consume_ValidRecord(t *testing.T) {
	acceptor := &sequenceAcceptor{}
	source := newTestSource(t, acceptor)

	source.consume(context.Background(), testRecord(
		`{"type":"invoice_paid","payload":{"invoice":{"id":"inv-7","total":129.5}},"occurred_at":"2026-03-01T10:00:00Z"}`,
	))

	calls := acceptor.accepted()
	require.Len(t, calls, 1)
	assert.Equal(t, models.TriggerInvoicePaid, calls[0].trigger)
	assert.Equal(t, models.SourceKafka, calls[0].source)
	assert.Equal(t, map[string]any{"invoice": map[string]any{"id": "inv-7", "total": 129.5}}, calls[0].payload)
	assert.True(t, calls[0].occurredAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func Test_Consume_MalformedRecordSkipped(t *testing.T) {
	acceptor := &sequenceAcceptor{}
	source := newTestSource(t, acceptor)

	source.consume(context.Background(), testRecord(`{not json`))

	assert.Empty(t, acceptor.accepted())
}

func Test_Consume_UnknownTriggerSkipped(t *testing.T) {
	acceptor := &sequenceAcceptor{}
	source := newTestSource(t, acceptor)

	source.consume(context.Background(), testRecord(`{"type":"coffee_break","payload":{}}`))

	assert.Empty(t, acceptor.accepted())
}

func Test_Consume_RejectedRecordSkipped(t *testing.T) {
	// A record without a payload parses but is refused at admission; it
	// must be dropped rather than retried.
	acceptor := &sequenceAcceptor{}
	source := newTestSource(t, acceptor)

	source.consume(context.Background(), testRecord(`{"type":"manual_trigger"}`))

	assert.Empty(t, acceptor.accepted())
}

func Test_Consume_FullQueueRetries(t *testing.T) {
	queueFull := dErrors.New(dErrors.CodeUnavailable, "event queue full")
	acceptor := &sequenceAcceptor{errs: []error{queueFull, queueFull}}
	source := newTestSource(t, acceptor)

	source.consume(context.Background(), testRecord(`{"type":"manual_trigger","payload":{"reason":"replay"}}`))

	calls := acceptor.accepted()
	require.Len(t, calls, 1)
	assert.Equal(t, models.TriggerManual, calls[0].trigger)
}

func Test_Consume_RetryStopsOnCancel(t *testing.T) {
	queueFull := dErrors.New(dErrors.CodeUnavailable, "event queue full")
	acceptor := &sequenceAcceptor{errs: []error{queueFull, queueFull, queueFull, queueFull}}
	source := newTestSource(t, acceptor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source.consume(ctx, testRecord(`{"type":"manual_trigger","payload":{}}`))

	assert.Empty(t, acceptor.accepted())
}
