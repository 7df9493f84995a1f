package telemetry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()

	tp, err := NewTracerProvider(ctx, Config{ServiceName: "payroll-ledger"}, zapNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer(TracerName))
	tp.EnableSpanProfiles()
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, LogsConfig{}, zapNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	base := zapNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))

	p, err := NewProfiler(ProfilerConfig{}, zapNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestProfilerRequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true}, zapNop())
	assert.Error(t, err)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: core, minLevel: zapcore.WarnLevel}
	logger := zap.New(filtered).With(zap.String("tenant_id", "t1"))

	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "t1", logs.All()[0].ContextMap()["tenant_id"])
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		ProfilingLabelOperation: "voucher.approve",
		ProfilingLabelTenantID:  "acme",
		"employee_id":           "e-1",
		"empty":                 "",
		ProfilingLabelRoute:     strings.Repeat("r", 200),
	})
	require.Len(t, pairs, 6)
	assert.Equal(t, []string{ProfilingLabelOperation, "voucher.approve"}, pairs[0:2])
	assert.Equal(t, ProfilingLabelRoute, pairs[2])
	assert.Len(t, pairs[3], maxLabelValueLength)
	assert.Equal(t, []string{ProfilingLabelTenantID, "acme"}, pairs[4:6])

	called := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}

func TestRegisterDBTracing(t *testing.T) {
	recorder := installRecorder(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
		DBSystem:        "sqlite",
	}, zapNop()))

	type account struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&account{}))

	ctx, span := StartSpan(context.Background(), "test")
	require.NoError(t, db.WithContext(ctx).Create(&account{Name: "Salaries"}).Error)
	span.End()

	var dbSpans int
	for _, s := range recorder.Ended() {
		if s.Name() != "test" {
			dbSpans++
		}
	}
	assert.Positive(t, dbSpans)
}

func TestRegisterDBTracingDisabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zapNop()))
}
