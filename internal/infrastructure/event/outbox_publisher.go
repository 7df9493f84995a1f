package event

import (
	"context"

	"github.com/erp/payroll/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to the outbox inside the caller's
// transaction, so an event exists exactly when its ledger change commits
type OutboxPublisher struct {
	serializer *EventSerializer
	policy     shared.RetryPolicy
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer, policy shared.RetryPolicy) *OutboxPublisher {
	return &OutboxPublisher{
		serializer: serializer,
		policy:     policy,
	}
}

// PublishWithTx serializes events and saves them through tx
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload, p.policy))
	}
	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// ForTx binds the publisher to a transaction
func (p *OutboxPublisher) ForTx(tx *gorm.DB) shared.EventPublisher {
	return &txPublisher{publisher: p, tx: tx}
}

type txPublisher struct {
	publisher *OutboxPublisher
	tx        *gorm.DB
}

func (t *txPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return t.publisher.PublishWithTx(ctx, t.tx, events...)
}
