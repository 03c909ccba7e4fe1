package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Skufu/vitalrisk/internal/alerts"
	"github.com/Skufu/vitalrisk/internal/config"
	"github.com/Skufu/vitalrisk/internal/enrich"
	"github.com/Skufu/vitalrisk/internal/logging"
	"github.com/Skufu/vitalrisk/internal/server"
	"github.com/Skufu/vitalrisk/internal/session"
	"github.com/Skufu/vitalrisk/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "vitalrisk",
		Short:        "Vital-sign risk scoring and batch analytics",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(predictCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			return runServer(cfg, logging.New(os.Stdout, cfg.Env, cfg.LogLevel))
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the trend tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required for migrate")
			}
			ctx := cmd.Context()
			pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := store.NewTrendStore(pool).Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func runServer(cfg *config.Config, log zerolog.Logger) error {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := server.Options{
		Log:          log,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	deps := session.Deps{
		Log:      log,
		Timeout:  cfg.EnrichTimeout,
		Enricher: enrich.New(cfg.EnrichURL, log, enrich.WithAPIKey(cfg.EnrichAPIKey), enrich.WithTimeout(cfg.EnrichTimeout)),
	}

	if cfg.EnableDB {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()
		trends := store.NewTrendStore(pool)
		if err := trends.Migrate(ctx); err != nil {
			return err
		}
		opts.DB = pool
		opts.Trends = trends
		deps.Trends = trends
		log.Info().Msg("connected to database")
	}

	if cfg.RedisURL != "" {
		client, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer client.Close()
		deps.Mirror = store.NewHistoryMirror(client, cfg.HistoryTTL)
		opts.Cache = server.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Info().Msg("connected to redis")
	}

	hub := alerts.NewHub(log)
	go hub.Run(ctx)
	deps.Alerts = hub
	opts.Alerts = hub

	sessions := session.NewRegistry(deps)
	opts.Sessions = sessions

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("server listening")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	err := waitForShutdown(srv, stop, serveErr, log)
	sessions.Wait()
	return err
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(srv *http.Server, stop <-chan os.Signal, serveErr <-chan error, log zerolog.Logger) error {
	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
