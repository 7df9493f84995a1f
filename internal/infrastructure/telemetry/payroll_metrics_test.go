package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/erp/payroll/internal/domain/approval"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumInt(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestPayrollMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewPayrollMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordPosting(ctx, "voucher", 6, decimal.NewFromInt(4200), 12*time.Millisecond)
	m.RecordPosting(ctx, "payroll", 2, decimal.NewFromInt(800), 3*time.Millisecond)
	m.RecordReversal(ctx, "payroll", 2)
	m.RecordApprovalNoop(ctx, approval.FeaturePayrollVoucher)
	m.RecordDrift(ctx, "tenant-a", 1)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumInt(t, got["payroll_postings_total"]))
	assert.Equal(t, int64(10), sumInt(t, got["payroll_posting_legs_total"]))
	assert.Equal(t, int64(1), sumInt(t, got["payroll_reversals_total"]))
	assert.Equal(t, int64(1), sumInt(t, got["payroll_approval_noops_total"]))

	amount, ok := got["payroll_posted_amount"].Data.(metricdata.Sum[float64])
	require.True(t, ok)
	var total float64
	for _, dp := range amount.DataPoints {
		total += dp.Value
	}
	assert.InDelta(t, 5000, total, 0.001)

	hist, ok := got["payroll_posting_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)
	for _, dp := range hist.DataPoints {
		assert.Equal(t, uint64(1), dp.Count)
	}

	noops := got["payroll_approval_noops_total"].Data.(metricdata.Sum[int64])
	feature, present := noops.DataPoints[0].Attributes.Value(attribute.Key("approval_feature"))
	require.True(t, present)
	assert.Equal(t, "payroll_voucher", feature.AsString())

	drift, ok := got["payroll_ledger_drift_accounts"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, drift.DataPoints, 1)
	assert.Equal(t, int64(1), drift.DataPoints[0].Value)
}

func TestMeterProviderDisabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{}, zapNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter(MeterName))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
