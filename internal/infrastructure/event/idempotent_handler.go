package event

import (
	"context"
	"sync/atomic"

	"github.com/erp/payroll/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats is a snapshot of idempotency counters
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

type idempotencyCounters struct {
	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandler wraps an EventHandler so each event id is applied once,
// however often the outbox redelivers it. A failed run forgets the mark so
// the next retry applies the event again.
type IdempotentHandler struct {
	handler  shared.EventHandler
	store    shared.IdempotencyStore
	config   shared.IdempotencyConfig
	logger   *zap.Logger
	counters idempotencyCounters
}

// IdempotentHandlerOption is a functional option for IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets the idempotency configuration
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// NewIdempotentHandler creates a new idempotent handler wrapper
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the event types of the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle applies the event unless its id was already applied
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	eventID := event.EventID().String()
	fields := []zap.Field{
		zap.String("event_id", eventID),
		zap.String("event_type", event.EventType()),
	}

	isNew, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	if err != nil {
		// A store outage must not stall cost center bookings
		h.logger.Warn("failed to check idempotency, processing anyway", append(fields, zap.Error(err))...)
	} else if !isNew {
		h.counters.duplicate.Add(1)
		h.logger.Debug("duplicate event skipped", fields...)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		h.counters.failed.Add(1)
		if ferr := h.store.Forget(ctx, eventID); ferr != nil {
			h.logger.Warn("failed to forget idempotency mark", append(fields, zap.Error(ferr))...)
		}
		return err
	}

	h.counters.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the handler counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.counters.processed.Load(),
		EventsDuplicate: h.counters.duplicate.Load(),
		EventsFailed:    h.counters.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
