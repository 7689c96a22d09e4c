package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/project/circulation/config"
	"github.com/project/circulation/db"
	"github.com/project/circulation/internal/app"
	"github.com/project/circulation/internal/auth"
	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/pkg/logger"
)

const migrateTimeout = 2 * time.Minute

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "circulation",
		Short:        "Library catalog and circulation service",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), migrateCmd(), tokenCmd())
	return root
}

func loadConfig() *config.Config {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("can not get application config: %s", err)
	}
	return cfg
}

// fileLogger falls back to stderr when the log file can not be opened.
func fileLogger(cfg *config.Config) *zap.Logger {
	l, err := logger.NewFileLogger(cfg.Log.File, zap.InfoLevel)
	if err == nil {
		return l
	}

	log.Warnf("can not open log file %s, logging to stderr: %s", cfg.Log.File, err)
	if l, err = zap.NewProduction(); err != nil {
		log.Fatalf("can not initialize logger: %s", err)
	}
	return l
}

func serveCmd() *cobra.Command {
	var driver, httpPort, grpcPort string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the gRPC health service and the background workers",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := loadConfig()

			if cmd.Flags().Changed("storage") {
				if driver != config.DriverPostgres && driver != config.DriverMemory {
					log.Fatalf("unsupported storage driver %q", driver)
				}
				cfg.Storage.Driver = driver
			}
			if cmd.Flags().Changed("http-port") {
				cfg.HTTP.Port = httpPort
			}
			if cmd.Flags().Changed("grpc-port") {
				cfg.GRPC.Port = grpcPort
			}

			l := fileLogger(cfg)
			defer func() { _ = l.Sync() }()

			app.Run(l, cfg)
		},
	}

	cmd.Flags().StringVar(&driver, "storage", config.DriverPostgres, "storage driver: postgres or memory")
	cmd.Flags().StringVar(&httpPort, "http-port", "", "HTTP listen port")
	cmd.Flags().StringVar(&grpcPort, "grpc-port", "", "gRPC listen port")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			l := fileLogger(cfg)
			defer func() { _ = l.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			return db.SetupPostgres(ctx, cfg.PG.MigrationURL, l)
		},
	}
}

func tokenCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			parsed, err := entity.ParseRole(role)
			if err != nil {
				return err
			}

			token, err := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(entity.User{ID: args[0], Role: parsed})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&role, "role", string(entity.RoleStudent), "ADMIN, ISSUER, STUDENT or FACULTY")
	return cmd
}
