package actions

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation"
	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/circuit"
	"github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/sentinel"
)

// signatureHeader carries the hex HMAC-SHA256 of the request body, computed
// with the configured webhook secret. Receivers verify it to authenticate
// the caller.
const signatureHeader = "X-Automation-Signature"

const (
	defaultWebhookTimeout  = 10 * time.Second
	defaultWebhookCooldown = 30 * time.Second
)

// Webhook is the webhook_call handler. It posts the resolved parameters
// (minus url) as a JSON body to the url parameter. Each endpoint host gets
// its own circuit breaker so a dead receiver fails fast instead of burning
// the action timeout on every matching event; while a breaker is open, one
// probe call per cooldown is let through.
type Webhook struct {
	client   *http.Client
	secret   string
	cooldown time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	endpoints map[string]*endpoint
}

type endpoint struct {
	breaker *circuit.Breaker
	retryAt time.Time
}

type WebhookOption func(*Webhook)

func WithWebhookClient(client *http.Client) WebhookOption {
	return func(w *Webhook) {
		if client != nil {
			w.client = client
		}
	}
}

// WithWebhookSecret enables request signing. Empty means unsigned requests.
func WithWebhookSecret(secret string) WebhookOption {
	return func(w *Webhook) {
		w.secret = secret
	}
}

func WithWebhookCooldown(d time.Duration) WebhookOption {
	return func(w *Webhook) {
		if d > 0 {
			w.cooldown = d
		}
	}
}

func WithWebhookLogger(logger *slog.Logger) WebhookOption {
	return func(w *Webhook) {
		w.logger = logger
	}
}

func NewWebhook(opts ...WebhookOption) *Webhook {
	w := &Webhook{
		client:    &http.Client{Timeout: defaultWebhookTimeout},
		cooldown:  defaultWebhookCooldown,
		endpoints: make(map[string]*endpoint),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Register binds the handler to the webhook_call action type.
func (w *Webhook) Register(registry *automation.HandlerRegistry) error {
	return registry.Register(models.ActionWebhookCall, automation.ActionHandlerFunc(w.Call))
}

// Call posts to the rule-authored URL. A response status of 400 or above is
// a failed action.
func (w *Webhook) Call(ctx context.Context, params map[string]any) (automation.ActionOutcome, error) {
	rawURL, err := requireString(params, "url")
	if err != nil {
		return automation.ActionOutcome{}, err
	}
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return automation.ActionOutcome{}, dErrors.New(dErrors.CodeInvalidInput, "parameter url must be an absolute http(s) URL")
	}

	ep, allowed := w.allow(target.Host)
	if !allowed {
		return automation.ActionOutcome{}, dErrors.Wrap(sentinel.ErrCircuitOpen, dErrors.CodeUnavailable, "webhook endpoint "+target.Host+" is failing, call skipped")
	}

	body := make(map[string]any, len(params))
	for k, v := range params {
		if k == "url" {
			continue
		}
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to encode webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set(signatureHeader, Sign(w.secret, payload))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.recordFailure(ctx, ep, target.Host)
		return automation.ActionOutcome{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "webhook call failed")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		w.recordFailure(ctx, ep, target.Host)
		return automation.ActionOutcome{}, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}

	w.recordSuccess(ctx, ep, target.Host)
	return automation.ActionOutcome{Detail: fmt.Sprintf("webhook %s returned status %d", target.Host, resp.StatusCode)}, nil
}

// allow reports whether a call to host may proceed. While the breaker is
// open, one probe per cooldown interval is let through.
func (w *Webhook) allow(host string) (*endpoint, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ep, ok := w.endpoints[host]
	if !ok {
		ep = &endpoint{breaker: circuit.New(host)}
		w.endpoints[host] = ep
	}
	if !ep.breaker.IsOpen() {
		return ep, true
	}

	now := time.Now()
	if now.Before(ep.retryAt) {
		return ep, false
	}
	ep.retryAt = now.Add(w.cooldown)
	return ep, true
}

func (w *Webhook) recordFailure(ctx context.Context, ep *endpoint, host string) {
	_, change := ep.breaker.RecordFailure()
	if change.Opened {
		w.mu.Lock()
		ep.retryAt = time.Now().Add(w.cooldown)
		w.mu.Unlock()
		w.logger.WarnContext(ctx, "webhook circuit opened",
			"host", host,
			"retry_in", w.cooldown,
		)
	}
}

func (w *Webhook) recordSuccess(ctx context.Context, ep *endpoint, host string) {
	if _, change := ep.breaker.RecordSuccess(); change.Closed {
		w.logger.InfoContext(ctx, "webhook circuit closed", "host", host)
	}
}

// Sign computes the hex HMAC-SHA256 signature receivers should compare
// against the X-Automation-Signature header.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
