package app

import (
	"context"
	"net"
	"net/http"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/internal/usecase/ledger"
	"github.com/project/circulation/internal/usecase/outbox"
	logutil "github.com/project/circulation/pkg/logger"
)

const (
	expiryInterval  = time.Minute
	expiryBatchSize = 100
)

func runOutbox(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	s stores,
	reconciler outbox.Reconciler,
) outbox.Outbox {
	dialer := &net.Dialer{
		Timeout:   dialerTimeoutSeconds * time.Second,
		KeepAlive: dialerKeepAliveSeconds * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          transportMaxIdleConns,
		MaxConnsPerHost:       transportMaxConnsPerHost,
		IdleConnTimeout:       transportIdleConnTimeoutSeconds * time.Second,
		TLSHandshakeTimeout:   transportTLSHandshakeTimeoutSeconds * time.Second,
		ExpectContinueTimeout: transportExpectContinueTimeoutSeconds * time.Second,
		MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
	}

	client := new(http.Client)
	client.Transport = transport

	globalHandler := outbox.NewGlobalHandler(client, cfg.Outbox, reconciler)
	outboxService := outbox.New(
		logutil.Enabled(logger, cfg.Log.LogOutboxWorker),
		s.outbox,
		globalHandler,
		cfg.Outbox,
		s.transactor,
	)

	outboxService.Start(
		ctx,
		cfg.Outbox.Workers,
		cfg.Outbox.BatchSize,
		cfg.Outbox.WaitTimeMS,
		cfg.Outbox.InProgressTTLMS,
	)

	return outboxService
}

// runExpiry cancels reservations older than ttl until ctx is done. A zero
// ttl keeps reservations forever.
func runExpiry(ctx context.Context, logger *zap.Logger, led *ledger.Ledger, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(expiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		expired, err := led.ExpireReservations(ctx, ttl, expiryBatchSize)
		if logutil.CheckError(err, logger, "reservation expiry failed", zap.Error(err)) {
			continue
		}
		if expired > 0 {
			logutil.MakeInfo(logger, "reservations expired", zap.Int("count", expired))
		}
	}
}
