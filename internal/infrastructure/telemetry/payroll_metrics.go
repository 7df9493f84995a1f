package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// PayrollMetrics records posting engine activity and reconciliation drift
type PayrollMetrics struct {
	postings        *Counter
	legs            *Counter
	reversals       *Counter
	approvalNoops   *Counter
	postingDuration *Histogram
	postedAmount    metric.Float64Counter
	driftAccounts   *Gauge
}

// NewPayrollMetrics creates the payroll instruments on meter
func NewPayrollMetrics(meter metric.Meter) (*PayrollMetrics, error) {
	var (
		m   PayrollMetrics
		err error
	)
	if m.postings, err = NewCounter(meter, "payroll_postings_total", "Completed postings by source type", "{posting}"); err != nil {
		return nil, err
	}
	if m.legs, err = NewCounter(meter, "payroll_posting_legs_total", "Ledger legs written", "{leg}"); err != nil {
		return nil, err
	}
	if m.reversals, err = NewCounter(meter, "payroll_reversals_total", "Reversed postings by source type", "{posting}"); err != nil {
		return nil, err
	}
	if m.approvalNoops, err = NewCounter(meter, "payroll_approval_noops_total", "Transitions ignored because the record was already in the target state", "{transition}"); err != nil {
		return nil, err
	}
	if m.postingDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "payroll_posting_duration_seconds",
		Description: "Time spent writing the legs of one posting",
		Unit:        "s",
		Boundaries:  PostingDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.postedAmount, err = meter.Float64Counter("payroll_posted_amount",
		metric.WithDescription("Sum of posted payroll amounts"),
		metric.WithUnit("{currency}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create counter payroll_posted_amount: %w", err)
	}
	if m.driftAccounts, err = NewGauge(meter, "payroll_ledger_drift_accounts", "Accounts whose cached balance disagrees with the transaction sum", "{account}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordPosting counts one completed posting
func (m *PayrollMetrics) RecordPosting(ctx context.Context, sourceType string, legs int, amount decimal.Decimal, duration time.Duration) {
	attr := AttrSourceType.String(sourceType)
	m.postings.Inc(ctx, attr)
	m.legs.Add(ctx, int64(legs), attr)
	m.postingDuration.RecordDuration(ctx, duration, attr)
	m.postedAmount.Add(ctx, amount.InexactFloat64(), metric.WithAttributes(attr))
}

// RecordReversal counts one reversed posting
func (m *PayrollMetrics) RecordReversal(ctx context.Context, sourceType string, legs int) {
	attr := AttrSourceType.String(sourceType)
	m.reversals.Inc(ctx, attr)
	m.legs.Add(ctx, int64(legs), attr, AttrOutcome.String("reversed"))
}

// RecordApprovalNoop counts an ignored same-state transition
func (m *PayrollMetrics) RecordApprovalNoop(ctx context.Context, feature approval.Feature) {
	m.approvalNoops.Inc(ctx, AttrFeature.String(feature.String()))
}

// RecordDrift sets the number of drifting accounts found for tenant
func (m *PayrollMetrics) RecordDrift(ctx context.Context, tenant string, accounts int) {
	m.driftAccounts.Record(ctx, int64(accounts), AttrTenantID.String(tenant))
}
