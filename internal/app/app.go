package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/db"
	"github.com/project/circulation/internal/auth"
	"github.com/project/circulation/internal/controller"
	"github.com/project/circulation/internal/usecase/circulation"
	"github.com/project/circulation/internal/usecase/inventory"
	"github.com/project/circulation/internal/usecase/ledger"
	"github.com/project/circulation/internal/usecase/library"
	"github.com/project/circulation/internal/usecase/recommendation"
	"github.com/project/circulation/internal/usecase/repository"
	logutil "github.com/project/circulation/pkg/logger"
)

const (
	shutDownSeconds        = 3
	dialerTimeoutSeconds   = 30
	dialerKeepAliveSeconds = 180
	transportMaxIdleConns  = 100
	transportMaxConnsPerHost
	transportIdleConnTimeoutSeconds       = 90
	transportTLSHandshakeTimeoutSeconds   = 15
	transportExpectContinueTimeoutSeconds = 2
	readHeaderTimeoutSeconds              = 10
)

type stores struct {
	catalog    repository.CatalogRepository
	inventory  repository.InventoryRepository
	ledger     repository.LedgerRepository
	outbox     repository.OutboxRepository
	transactor repository.Transactor
}

func Run(logger *zap.Logger, cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := setupTracing(cfg.Observability.JaegerURL)
	if err != nil {
		logger.Error("can not set up tracing", zap.Error(err))
		return
	}
	defer shutdownTracing()

	s, closeStores, err := openStores(ctx, logger, cfg)
	if err != nil {
		logger.Error("can not open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
		return
	}
	defer closeStores()

	logUseCase := logutil.Enabled(logger, cfg.Log.LogUseCase)

	inv := inventory.New(logUseCase, s.inventory)
	led := ledger.New(logUseCase, inv, s.ledger, s.outbox, s.transactor, cfg.Circulation)

	recOpts := make([]recommendation.Option, 0, 1)
	if cfg.Recommendation.FeatureFile != "" {
		space, err := recommendation.LoadFeatureSpace(cfg.Recommendation.FeatureFile, cfg.Recommendation.Dimension)
		if err != nil {
			logger.Error("can not load feature vectors", zap.String("file", cfg.Recommendation.FeatureFile), zap.Error(err))
			return
		}
		recOpts = append(recOpts, recommendation.WithFeatures(space))
	}
	rec := recommendation.New(logUseCase, s.catalog, led, cfg.Recommendation, recOpts...)

	lib := library.New(logUseCase, s.catalog, s.outbox, s.transactor, library.WithOnChange(rec.Invalidate))
	engine := circulation.New(logUseCase, lib, inv, led, s.transactor,
		circulation.WithSearchWorkers(cfg.Circulation.SearchWorkers),
		circulation.WithOnChange(rec.Invalidate))

	ctrl := controller.New(
		logutil.Enabled(logger, cfg.Log.LogController),
		lib, lib, engine, rec,
		auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)

	mux, err := ctrl.NewMux()
	if err != nil {
		logger.Error("can not register routes", zap.Error(err))
		return
	}

	worker := runOutbox(ctx, cfg, logger, s, led)
	go runExpiry(ctx, logUseCase, led, cfg.Circulation.ReservationTTL)

	go runRest(ctx, cfg, logger, mux)
	go runGrpc(ctx, cfg, logger)
	go runMetrics(ctx, cfg, logger)

	<-ctx.Done()
	worker.Wait()
	time.Sleep(time.Second * shutDownSeconds)
}

// openStores returns the repositories for the configured driver and a close
// function for them.
func openStores(ctx context.Context, logger *zap.Logger, cfg *config.Config) (stores, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		memory := repository.NewMemoryStore(cfg.Outbox.AttemptsRetry)
		logger.Info("using in-memory storage")
		return stores{memory, memory, memory, memory, memory}, func() {}, nil
	}

	if err := db.SetupPostgres(ctx, cfg.PG.MigrationURL, logger); err != nil {
		return stores{}, nil, err
	}

	dbPool, err := pgxpool.New(ctx, cfg.PG.URL)
	if err != nil {
		return stores{}, nil, err
	}

	logRepo := logutil.Enabled(logger, cfg.Log.LogDBRepo)
	return stores{
		catalog:    repository.NewCatalog(logRepo, dbPool),
		inventory:  repository.NewInventory(logRepo, dbPool),
		ledger:     repository.NewLedger(logRepo, dbPool),
		outbox:     repository.NewOutbox(dbPool, cfg.Outbox.AttemptsRetry),
		transactor: repository.NewTransactor(logutil.Enabled(logger, cfg.Log.LogTransactor), dbPool),
	}, dbPool.Close, nil
}
