package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/config"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/db"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/server"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/server/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port       int
		sessionTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server that exposes job analysis, CV scoring and optimization sessions.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			engine, closeEngine, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			store, err := db.Open(cmd.Context(), a.cfg.Store, storeDSN(a.cfg), sessionTTL)
			if err != nil {
				return err
			}
			a.logger.Info("session store ready", zap.String("store", a.cfg.Store))

			srv := server.New(
				server.Config{Port: a.cfg.Port, RateLimit: ratelimit.LoadConfig(a.getenv)},
				engine,
				server.WithStore(store),
				server.WithFetcher(a.newFetcher(false)),
				server.WithLogger(a.logger),
				server.WithMetrics(a.metrics),
			)
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides PORT and the config file)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 7*24*time.Hour, "Expiry of sessions in the redis store (0 keeps them forever)")
	return cmd
}

func storeDSN(cfg config.Config) string {
	switch cfg.Store {
	case config.StorePostgres:
		return cfg.DatabaseURL
	case config.StoreRedis:
		return cfg.RedisURL
	default:
		return ""
	}
}
