package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/project/circulation/config"
)

func runRest(ctx context.Context, cfg *config.Config, logger *zap.Logger, mux http.Handler) {
	serve(ctx, logger, "rest", ":"+cfg.HTTP.Port, mux)
}

func runMetrics(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	if cfg.Observability.MetricsPort == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serve(ctx, logger, "metrics", ":"+cfg.Observability.MetricsPort, mux)
}

// serve runs an HTTP server on address until ctx is done.
func serve(ctx context.Context, logger *zap.Logger, name, address string, handler http.Handler) {
	server := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutDownSeconds*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.String("server", name), zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("server", name), zap.String("address", address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server listen error", zap.String("server", name), zap.Error(err))
	}
}

// runGrpc serves the health service and reflection.
func runGrpc(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	port := ":" + cfg.GRPC.Port
	lis, err := net.Listen("tcp", port)
	if err != nil {
		logger.Error("can not open tcp socket", zap.Error(err))
		return
	}

	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	reflection.Register(s)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		healthServer.Shutdown()
		s.GracefulStop()
	}()

	logger.Info("grpc server listening at port", zap.String("port", port))
	if err = s.Serve(lis); err != nil {
		logger.Error("grpc server listen error", zap.Error(err))
	}
}
