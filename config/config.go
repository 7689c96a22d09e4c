package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAttemptsRetry = 2000
	defaultLogValue      = true
	defaultMaxConn       = "10"
	defaultHTTPPort      = "8080"
	defaultGRPCPort      = "9090"
	defaultLogFile       = "/app/logs/circulation.log"

	defaultLoanPeriodDays   = 14
	defaultCASAttempts      = 3
	defaultCASBaseDelayMS   = 5
	defaultSearchWorkers    = 4
	defaultPopularWindowDay = 30
	defaultRecommendLimit   = 10
	defaultCacheCapacity    = 128
	defaultJWTTTLMinutes    = 60

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type (
	Config struct {
		HTTP struct {
			Port string `env:"HTTP_PORT"`
		}

		GRPC struct {
			Port string `env:"GRPC_PORT"`
		}

		Storage struct {
			Driver string `env:"STORAGE_DRIVER"`
		}

		PG struct {
			URL          string
			MigrationURL string
			Host         string `env:"POSTGRES_HOST"`
			Port         string `env:"POSTGRES_PORT"`
			DB           string `env:"POSTGRES_DB"`
			User         string `env:"POSTGRES_USER"`
			Password     string `env:"POSTGRES_PASSWORD"`
			MaxConn      string `env:"POSTGRES_MAX_CONN"`
		}

		Outbox Outbox

		Log struct {
			File            string `env:"LOG_FILE"`
			LogController   bool   `env:"LOG_CONTROLLER_ENABLED"`
			LogTransactor   bool   `env:"LOG_TRANSACTOR_ENABLED"`
			LogUseCase      bool   `env:"LOG_USECASE_ENABLED"`
			LogDBRepo       bool   `env:"LOG_DB_REPO_ENABLED"`
			LogOutboxWorker bool   `env:"LOG_OUTBOX_WORKER_ENABLED"`
		}

		Observability struct {
			MetricsPort string `env:"METRICS_PORT"`
			JaegerURL   string `env:"JAEGER_URL"`
		}

		Circulation Circulation

		Recommendation Recommendation

		Auth struct {
			JWTSecret string        `env:"JWT_SECRET"`
			TokenTTL  time.Duration `env:"JWT_TTL_MINUTES"`
		}
	}

	Outbox struct {
		Enabled            bool          `env:"OUTBOX_ENABLED"`
		Workers            int           `env:"OUTBOX_WORKERS"`
		BatchSize          int           `env:"OUTBOX_BATCH_SIZE"`
		WaitTimeMS         time.Duration `env:"OUTBOX_WAIT_TIME_MS"`
		InProgressTTLMS    time.Duration `env:"OUTBOX_IN_PROGRESS_TTL_MS"`
		AuthorSendURL      string        `env:"OUTBOX_AUTHOR_SEND_URL"`
		BookSendURL        string        `env:"OUTBOX_BOOK_SEND_URL"`
		TransactionSendURL string        `env:"OUTBOX_TRANSACTION_SEND_URL"`
		AttemptsRetry      int           `env:"OUTBOX_ATTEMPTS_RETRY"`
	}

	Circulation struct {
		LoanPeriod     time.Duration `env:"LOAN_PERIOD_DAYS"`
		RetryAttempts  int           `env:"CAS_RETRY_ATTEMPTS"`
		RetryBaseDelay time.Duration `env:"CAS_RETRY_BASE_DELAY_MS"`
		ReservationTTL time.Duration `env:"RESERVATION_TTL_HOURS"`
		SearchWorkers  int           `env:"SEARCH_WORKERS"`
	}

	Recommendation struct {
		PopularWindow time.Duration `env:"POPULAR_WINDOW_DAYS"`
		Limit         int           `env:"RECOMMENDATION_LIMIT"`
		FeatureFile   string        `env:"FEATURE_FILE"`
		Dimension     int           `env:"FEATURE_DIMENSION"`
		CacheCapacity int           `env:"RECOMMENDATION_CACHE_CAPACITY"`
	}
)

func NewConfig() (*Config, error) {
	cfg := &Config{}

	var err error
	v := viper.New()

	if cfg.HTTP.Port, err = parseEnvString(v, "http_port", "HTTP_PORT", defaultHTTPPort); err != nil {
		return nil, err
	}
	if cfg.GRPC.Port, err = parseEnvString(v, "grpc_port", "GRPC_PORT", defaultGRPCPort); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver, err = parseEnvString(v, "storage_driver", "STORAGE_DRIVER", DriverPostgres); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != DriverPostgres && cfg.Storage.Driver != DriverMemory {
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	cfg.PG.Host = os.Getenv("POSTGRES_HOST")
	cfg.PG.Port = os.Getenv("POSTGRES_PORT")
	cfg.PG.DB = os.Getenv("POSTGRES_DB")
	cfg.PG.User = os.Getenv("POSTGRES_USER")
	cfg.PG.Password = os.Getenv("POSTGRES_PASSWORD")

	if cfg.PG.MaxConn, err = parseEnvString(v, "db_MaxCon", "POSTGRES_MAX_CONN", defaultMaxConn); err != nil {
		return nil, err
	}

	cfg.PG.MigrationURL = fmt.Sprintf("postgres://%s:%s@", cfg.PG.User, cfg.PG.Password) +
		net.JoinHostPort(cfg.PG.Host, cfg.PG.Port) + fmt.Sprintf("/%s?sslmode=disable", cfg.PG.DB)
	cfg.PG.URL = cfg.PG.MigrationURL + fmt.Sprintf("&pool_max_conns=%s", cfg.PG.MaxConn)

	if cfg.Outbox.Enabled, err = parseEnvBool(v, "outbox", "OUTBOX_ENABLED"); err != nil {
		return nil, err
	}

	if cfg.Outbox.Enabled {
		if cfg.Outbox.Workers, err = parseInt(os.Getenv("OUTBOX_WORKERS")); err != nil {
			return nil, err
		}

		if cfg.Outbox.BatchSize, err = parseInt(os.Getenv("OUTBOX_BATCH_SIZE")); err != nil {
			return nil, err
		}

		if cfg.Outbox.WaitTimeMS, err = parseTime(os.Getenv("OUTBOX_WAIT_TIME_MS"), time.Millisecond); err != nil {
			return nil, err
		}

		if cfg.Outbox.InProgressTTLMS, err = parseTime(os.Getenv("OUTBOX_IN_PROGRESS_TTL_MS"), time.Millisecond); err != nil {
			return nil, err
		}

		cfg.Outbox.AuthorSendURL = os.Getenv("OUTBOX_AUTHOR_SEND_URL")
		cfg.Outbox.BookSendURL = os.Getenv("OUTBOX_BOOK_SEND_URL")
		cfg.Outbox.TransactionSendURL = os.Getenv("OUTBOX_TRANSACTION_SEND_URL")

		if cfg.Outbox.AttemptsRetry, err = parseEnvInt(v, "attempts", "OUTBOX_ATTEMPTS_RETRY", defaultAttemptsRetry); err != nil {
			return nil, err
		}
	}

	if cfg.Log.File, err = parseEnvString(v, "log_file", "LOG_FILE", defaultLogFile); err != nil {
		return nil, err
	}

	if cfg.Log.LogController, err = parseEnvBool(v, "log_controller", "LOG_CONTROLLER_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogTransactor, err = parseEnvBool(v, "log_transactor", "LOG_TRANSACTOR_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogUseCase, err = parseEnvBool(v, "log_usecase", "LOG_USECASE_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogDBRepo, err = parseEnvBool(v, "log_db", "LOG_DB_REPO_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	if cfg.Log.LogOutboxWorker, err = parseEnvBool(v, "log_outbox_worker", "LOG_OUTBOX_WORKER_ENABLED", defaultLogValue); err != nil {
		return nil, err
	}

	cfg.Observability.MetricsPort = os.Getenv("METRICS_PORT")
	cfg.Observability.JaegerURL = os.Getenv("JAEGER_URL")

	if err = parseCirculation(v, &cfg.Circulation); err != nil {
		return nil, err
	}

	if err = parseRecommendation(v, &cfg.Recommendation); err != nil {
		return nil, err
	}

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	ttl, err := parseEnvInt(v, "jwt_ttl", "JWT_TTL_MINUTES", defaultJWTTTLMinutes)
	if err != nil {
		return nil, err
	}
	cfg.Auth.TokenTTL = time.Duration(ttl) * time.Minute

	return cfg, nil
}

func parseCirculation(v *viper.Viper, c *Circulation) error {
	days, err := parseEnvInt(v, "loan_days", "LOAN_PERIOD_DAYS", defaultLoanPeriodDays)
	if err != nil {
		return err
	}
	if days <= 0 {
		return fmt.Errorf("LOAN_PERIOD_DAYS must be positive, got %d", days)
	}
	c.LoanPeriod = time.Duration(days) * 24 * time.Hour

	if c.RetryAttempts, err = parseEnvInt(v, "cas_attempts", "CAS_RETRY_ATTEMPTS", defaultCASAttempts); err != nil {
		return err
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("CAS_RETRY_ATTEMPTS must be positive, got %d", c.RetryAttempts)
	}

	delay, err := parseEnvInt(v, "cas_delay", "CAS_RETRY_BASE_DELAY_MS", defaultCASBaseDelayMS)
	if err != nil {
		return err
	}
	c.RetryBaseDelay = time.Duration(delay) * time.Millisecond

	hours, err := parseEnvInt(v, "reservation_ttl", "RESERVATION_TTL_HOURS", 0)
	if err != nil {
		return err
	}
	c.ReservationTTL = time.Duration(hours) * time.Hour

	if c.SearchWorkers, err = parseEnvInt(v, "search_workers", "SEARCH_WORKERS", defaultSearchWorkers); err != nil {
		return err
	}

	return nil
}

func parseRecommendation(v *viper.Viper, r *Recommendation) error {
	days, err := parseEnvInt(v, "popular_days", "POPULAR_WINDOW_DAYS", defaultPopularWindowDay)
	if err != nil {
		return err
	}
	r.PopularWindow = time.Duration(days) * 24 * time.Hour

	if r.Limit, err = parseEnvInt(v, "recommend_limit", "RECOMMENDATION_LIMIT", defaultRecommendLimit); err != nil {
		return err
	}

	if r.FeatureFile, err = parseEnvString(v, "feature_file", "FEATURE_FILE", ""); err != nil {
		return err
	}

	if r.Dimension, err = parseEnvInt(v, "feature_dim", "FEATURE_DIMENSION", 0); err != nil {
		return err
	}

	if r.CacheCapacity, err = parseEnvInt(v, "recommend_cache", "RECOMMENDATION_CACHE_CAPACITY", defaultCacheCapacity); err != nil {
		return err
	}

	return nil
}

func parseTime(s string, unit time.Duration) (time.Duration, error) {
	t, err := parseInt(s)

	if err != nil {
		return time.Duration(0), err
	}

	return time.Duration(t) * unit, nil
}

func parseInt(s string) (int, error) {
	str, err := strconv.ParseInt(s, 10, 64)

	if err != nil {
		return 0, err
	}

	return int(str), nil
}

func parseEnvBool(v *viper.Viper, key, envVar string, defaultValue ...bool) (bool, error) {
	err := v.BindEnv(key, envVar)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], err
		}
		return false, err
	}
	if len(defaultValue) > 0 {
		v.SetDefault(key, defaultValue[0])
	}
	return v.GetBool(key), nil
}

func parseEnvInt(v *viper.Viper, key, envVar string, defaultValue ...int) (int, error) {
	err := v.BindEnv(key, envVar)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], err
		}
		return 0, err
	}
	if len(defaultValue) > 0 {
		v.SetDefault(key, defaultValue[0])
	}
	return v.GetInt(key), nil
}

func parseEnvString(v *viper.Viper, key, envVar string, defaultValue ...string) (string, error) {
	err := v.BindEnv(key, envVar)
	if err != nil {
		if len(defaultValue) > 0 {
			return defaultValue[0], err
		}
		return "", err
	}
	if len(defaultValue) > 0 {
		v.SetDefault(key, defaultValue[0])
	}
	return v.GetString(key), nil
}
