package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_DB", "library")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")

	cfg, err := NewConfig()
	require.NoError(t, err)

	require.Equal(t, defaultHTTPPort, cfg.HTTP.Port)
	require.Equal(t, DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, "postgres://u:p@db:5432/library?sslmode=disable", cfg.PG.MigrationURL)
	require.Equal(t, cfg.PG.MigrationURL+"&pool_max_conns=10", cfg.PG.URL)
	require.Equal(t, 14*24*time.Hour, cfg.Circulation.LoanPeriod)
	require.Equal(t, 3, cfg.Circulation.RetryAttempts)
	require.Equal(t, 5*time.Millisecond, cfg.Circulation.RetryBaseDelay)
	require.Zero(t, cfg.Circulation.ReservationTTL)
	require.Equal(t, 30*24*time.Hour, cfg.Recommendation.PopularWindow)
	require.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.False(t, cfg.Outbox.Enabled)
	require.True(t, cfg.Log.LogUseCase)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOAN_PERIOD_DAYS", "7")
	t.Setenv("CAS_RETRY_ATTEMPTS", "5")
	t.Setenv("RESERVATION_TTL_HOURS", "48")
	t.Setenv("OUTBOX_ENABLED", "true")
	t.Setenv("OUTBOX_WORKERS", "2")
	t.Setenv("OUTBOX_BATCH_SIZE", "50")
	t.Setenv("OUTBOX_WAIT_TIME_MS", "250")
	t.Setenv("OUTBOX_IN_PROGRESS_TTL_MS", "1000")
	t.Setenv("LOG_DB_REPO_ENABLED", "false")

	cfg, err := NewConfig()
	require.NoError(t, err)

	require.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Equal(t, 7*24*time.Hour, cfg.Circulation.LoanPeriod)
	require.Equal(t, 5, cfg.Circulation.RetryAttempts)
	require.Equal(t, 48*time.Hour, cfg.Circulation.ReservationTTL)
	require.True(t, cfg.Outbox.Enabled)
	require.Equal(t, 2, cfg.Outbox.Workers)
	require.Equal(t, 250*time.Millisecond, cfg.Outbox.WaitTimeMS)
	require.Equal(t, defaultAttemptsRetry, cfg.Outbox.AttemptsRetry)
	require.False(t, cfg.Log.LogDBRepo)
}

func TestNewConfigRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown driver", key: "STORAGE_DRIVER", value: "sqlite"},
		{name: "zero loan period", key: "LOAN_PERIOD_DAYS", value: "0"},
		{name: "zero attempts", key: "CAS_RETRY_ATTEMPTS", value: "0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			_, err := NewConfig()
			require.Error(t, err)
		})
	}
}
