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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ugur10/course-store/internal/config"
	"github.com/ugur10/course-store/internal/httpapi"
	"github.com/ugur10/course-store/internal/logger"
	"github.com/ugur10/course-store/internal/metrics"
	"github.com/ugur10/course-store/internal/resource"
	"github.com/ugur10/course-store/internal/snapshot"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:          "course-store",
		Short:        "Serve the course store over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a config file (yaml, json or toml)")
	flags.String("addr", ":8080", "listen address")
	flags.String("log-level", "INFO", "log level: DEBUG, INFO, WARN or ERROR")
	flags.String("log-format", "JSON", "log format: JSON or CONSOLE")
	flags.String("snapshot", "", "SQLite file to load the store from and save it to")
	flags.String("schema", config.SchemaCourse, "record schema: course or name")
	flags.Bool("seed", true, "pre-populate the store with example courses")
	flags.Int("rate-limit", 0, "requests per minute per client, 0 disables")

	for key, flag := range map[string]string{
		"server.addr":   "addr",
		"log.level":     "log-level",
		"log.format":    "log-format",
		"snapshot.path": "snapshot",
		"schema":        "schema",
		"seed":          "seed",
		"ratelimit.rpm": "rate-limit",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.Log.Level, logger.ParseFormat(cfg.Log.Format))
	defer func() { _ = log.Sync() }()
	serverLog := logger.For(log, logger.ComponentServer)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("courses")
	}

	store, err := newStore(cfg, logger.For(log, logger.ComponentStore), m)
	if err != nil {
		return err
	}

	if cfg.Snapshot.Path != "" {
		db, err := snapshot.Open(cfg.Snapshot.Path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		loaded, err := db.Load(ctx, cfg.Snapshot.Name, store)
		if err != nil {
			return err
		}
		snapLog := logger.For(log, logger.ComponentSnapshot)
		snapLog.Info("snapshot opened", zap.String("path", db.Path()), zap.Bool("loaded", loaded))
		defer func() {
			if err := db.Save(context.Background(), cfg.Snapshot.Name, store); err != nil {
				snapLog.Error("snapshot save failed", zap.Error(err))
				return
			}
			snapLog.Info("snapshot saved", zap.Int("records", store.Count(context.Background())))
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(store, httpapi.Options{
		Logger:         logger.For(log, logger.ComponentHTTP),
		Metrics:        m,
		RateLimitRPM:   cfg.RateLimit.RPM,
		RateLimitBurst: cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		serverLog.Info("Starting server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	serverLog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newStore(cfg config.Config, log *zap.Logger, m *metrics.Metrics) (*resource.Store, error) {
	opts := []resource.Option{resource.WithLogger(log)}
	if m != nil {
		opts = append(opts, resource.WithObserver(m))
	}
	if cfg.Seed {
		opts = append(opts, resource.WithSeed(resource.SeedCourses()))
	}
	return resource.NewStore(schemaFor(cfg.Schema), opts...)
}

func schemaFor(name string) resource.Schema {
	if name == config.SchemaName {
		return resource.NameSchema()
	}
	return resource.CourseSchema()
}
