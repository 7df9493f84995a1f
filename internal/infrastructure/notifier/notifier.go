// Package notifier delivers "waiting for approval" notices to the next approver.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

var (
	_ apppayroll.ApprovalNotifier = (*LogNotifier)(nil)
	_ apppayroll.ApprovalNotifier = (*WebhookNotifier)(nil)
)

// LogNotifier writes notices to the log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyNext implements ApprovalNotifier
func (n *LogNotifier) NotifyNext(ctx context.Context, notice apppayroll.ApprovalNotice) error {
	logger.WithTraceContext(ctx, n.logger).Info("approval pending",
		zap.String("feature", string(notice.Feature)),
		zap.String("state", string(notice.State)),
		zap.String("tenant_id", notice.TenantID.String()),
		zap.String("record_id", notice.RecordID.String()),
		zap.String("display_id", notice.DisplayID),
		zap.String("record", notice.RecordLabel),
		zap.String("type", notice.TypeKey),
	)
	return nil
}

// WebhookNotifier posts each notice as JSON to a fixed URL
type WebhookNotifier struct {
	url        string
	client     *http.Client
	maxElapsed time.Duration
	logger     *zap.Logger
}

// NewWebhookNotifier creates a notifier posting to url
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:        url,
		client:     &http.Client{Timeout: timeout},
		maxElapsed: 3 * timeout,
		logger:     logger,
	}
}

// New picks the webhook notifier when a URL is configured and the log notifier otherwise
func New(cfg config.NotifierConfig, logger *zap.Logger) apppayroll.ApprovalNotifier {
	if cfg.WebhookURL == "" {
		return NewLogNotifier(logger)
	}
	return NewWebhookNotifier(cfg.WebhookURL, cfg.Timeout, logger)
}

type webhookPayload struct {
	Event  string                    `json:"event"`
	SentAt time.Time                 `json:"sent_at"`
	Notice apppayroll.ApprovalNotice `json:"notice"`
}

// NotifyNext implements ApprovalNotifier. 5xx answers and transport errors
// are retried with exponential backoff; 4xx answers are not.
func (n *WebhookNotifier) NotifyNext(ctx context.Context, notice apppayroll.ApprovalNotice) error {
	body, err := json.Marshal(webhookPayload{Event: "approval.pending", SentAt: time.Now().UTC(), Notice: notice})
	if err != nil {
		return fmt.Errorf("failed to encode notice: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = n.maxElapsed

	attempts := 0
	err = backoff.Retry(func() error {
		attempts++
		return n.post(ctx, body)
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("failed to deliver approval notice for %s after %d attempts: %w", notice.DisplayID, attempts, err)
	}
	n.logger.Debug("approval notice delivered",
		zap.String("record_id", notice.RecordID.String()),
		zap.Int("attempts", attempts),
	)
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	case resp.StatusCode >= 300:
		return backoff.Permanent(fmt.Errorf("webhook returned %d", resp.StatusCode))
	}
	return nil
}
