package rule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// notifyChannel is the NOTIFY channel the rule management surface fires
// after any rule write.
const notifyChannel = "tt_rule_changes"

const defaultRetryDelay = 5 * time.Second

// Invalidator expires a cached rule snapshot.
type Invalidator interface {
	Invalidate()
}

// ChangeListener holds a dedicated LISTEN connection and invalidates the
// rule cache on every notification, so rule edits become visible before the
// cache TTL would expire. The listener reconnects after failures; the TTL
// remains the fallback while it is down.
type ChangeListener struct {
	connString string
	cache      Invalidator
	logger     *slog.Logger
	retryDelay time.Duration
}

type ListenerOption func(*ChangeListener)

func WithListenerLogger(logger *slog.Logger) ListenerOption {
	return func(l *ChangeListener) {
		l.logger = logger
	}
}

func WithListenerRetryDelay(d time.Duration) ListenerOption {
	return func(l *ChangeListener) {
		if d > 0 {
			l.retryDelay = d
		}
	}
}

func NewChangeListener(connString string, cache Invalidator, opts ...ListenerOption) (*ChangeListener, error) {
	if connString == "" {
		return nil, fmt.Errorf("connection string is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	l := &ChangeListener{
		connString: connString,
		cache:      cache,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l, nil
}

// Run blocks listening for rule change notifications until ctx is cancelled.
func (l *ChangeListener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.ErrorContext(ctx, "rule change listener disconnected",
			"channel", notifyChannel,
			"retry_in", l.retryDelay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *ChangeListener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("connect for listen: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("listen on %s: %w", notifyChannel, err)
	}
	l.logger.InfoContext(ctx, "listening for rule changes", "channel", notifyChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		l.cache.Invalidate()
		l.logger.DebugContext(ctx, "rule cache invalidated",
			"channel", notification.Channel,
			"payload", notification.Payload,
		)
	}
}
