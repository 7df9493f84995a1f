package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "payroll-ledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "payroll", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
		assert.Equal(t, 10*time.Second, cfg.Lock.WaitTimeout)
		assert.Equal(t, "USD", cfg.Payroll.DefaultCurrency)
		assert.Equal(t, "en-US", cfg.Payroll.StatementLocale)
		assert.False(t, cfg.Payroll.StrictAccounts)
		assert.Equal(t, 2, cfg.Scheduler.ReconcileHour)
		assert.Equal(t, 5*time.Minute, cfg.Event.StaleAfter)
	})

	t.Run("loads values from environment variables with PAYROLL prefix", func(t *testing.T) {
		t.Setenv("PAYROLL_APP_NAME", "payroll-test")
		t.Setenv("PAYROLL_DATABASE_HOST", "db.internal")
		t.Setenv("PAYROLL_DATABASE_PORT", "5433")
		t.Setenv("PAYROLL_REDIS_ENABLED", "true")
		t.Setenv("PAYROLL_LOCK_WAIT_TIMEOUT", "3s")
		t.Setenv("PAYROLL_PAYROLL_STRICT_ACCOUNTS", "true")
		t.Setenv("PAYROLL_NOTIFIER_WEBHOOK_URL", "https://hooks.example.com/approvals")
		t.Setenv("PAYROLL_SCHEDULER_RECONCILE_HOUR", "4")
		t.Setenv("PAYROLL_SCHEDULER_RECONCILE_MINUTE", "30")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "payroll-test", cfg.App.Name)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 3*time.Second, cfg.Lock.WaitTimeout)
		assert.True(t, cfg.Payroll.StrictAccounts)
		assert.Equal(t, "https://hooks.example.com/approvals", cfg.Notifier.WebhookURL)
		assert.Equal(t, 4, cfg.Scheduler.ReconcileHour)
		assert.Equal(t, 30, cfg.Scheduler.ReconcileMinute)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("PAYROLL_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("PAYROLL_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects an unparseable webhook url", func(t *testing.T) {
		t.Setenv("PAYROLL_NOTIFIER_WEBHOOK_URL", "not a url")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "notifier.webhook_url")
	})

	t.Run("rejects a wait timeout shorter than the retry interval", func(t *testing.T) {
		t.Setenv("PAYROLL_LOCK_WAIT_TIMEOUT", "1ms")
		t.Setenv("PAYROLL_LOCK_RETRY_INTERVAL", "50ms")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lock.wait_timeout")
	})

	t.Run("rejects reconcile hour out of range", func(t *testing.T) {
		t.Setenv("PAYROLL_SCHEDULER_RECONCILE_HOUR", "24")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reconcile_hour")
	})

	t.Run("storage requires credentials when enabled", func(t *testing.T) {
		t.Setenv("PAYROLL_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})
}

func TestValidate_Production(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Redis.Enabled = true
		return cfg
	}

	require.NoError(t, valid().validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, "jwt.secret"},
		{"missing db password", func(c *Config) { c.Database.Password = "" }, "database.password"},
		{"ssl disabled", func(c *Config) { c.Database.SSLMode = "disable" }, "sslmode"},
		{"in-memory locks", func(c *Config) { c.Redis.Enabled = false }, "redis.enabled"},
		{"wildcard cors", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, "cors_allow_origins"},
		{"open swagger", func(c *Config) { c.Swagger.Enabled = true }, "swagger"},
		{"full sql in traces", func(c *Config) { c.Telemetry.DBLogFullSQL = true }, "db_log_full_sql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "pay roll", Password: "p@ss", DBName: "payroll", SSLMode: "disable"}
	assert.Equal(t, "postgres://pay%20roll:p%40ss@db:5432/payroll?sslmode=disable", d.DSN())
}
