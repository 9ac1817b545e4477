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
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/listings/internal/api"
	"github.com/persistorai/listings/internal/config"
	"github.com/persistorai/listings/internal/db"
	"github.com/persistorai/listings/internal/dbpool"
	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/logging"
	"github.com/persistorai/listings/internal/service"
	"github.com/persistorai/listings/internal/store"
	"github.com/persistorai/listings/internal/ws"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the listings HTTP API",
		Long: `Load configuration from the environment (and .env), open the configured
database, apply pending migrations and serve the REST API. Prometheus metrics
are served on METRICS_PORT as well as on /metrics of the API listener.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func loadRuntime() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

// backend is an opened, migrated store plus what the router reports about it.
type backend struct {
	store   domain.PropertyStore
	dialect goose.Dialect
	driver  string
	close   func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*backend, error) {
	base := store.Base{Log: log}

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), int32(cfg.DBMaxConns)) //nolint:gosec // bounded by config validation.
		if err != nil {
			return nil, err
		}

		if err := db.MigratePostgres(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}

		return &backend{
			store:   store.NewPostgresStore(base, pool),
			dialect: goose.DialectPostgres,
			driver:  config.DriverPostgres,
			close:   pool.Close,
		}, nil
	default:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err := db.Migrate(ctx, sqlDB, goose.DialectSQLite3, log); err != nil {
			sqlDB.Close() //nolint:errcheck
			return nil, err
		}

		return &backend{
			store:   store.NewSQLiteStore(base, sqlDB),
			dialect: goose.DialectSQLite3,
			driver:  config.DriverSQLite,
			close:   func() { sqlDB.Close() }, //nolint:errcheck
		}, nil
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer be.close()

	// The hub and its connections stop only after the drain in the shutdown
	// goroutine, so clients get the shutdown frame before their sockets close.
	hub := ws.NewHub(log)
	go hub.Run(context.Background())

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()

	worker := service.NewChangeWorker(log, cfg.ChangeQueueSize, hub)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()

	// The worker outlives the listeners so in-flight updates are still published.
	defer func() {
		stopWorker()
		<-workerDone
	}()

	svc := service.NewPropertyService(be.store, log, service.WithChangeWorker(worker))

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:           log,
		Properties:    svc,
		Store:         be.store,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       config.Version,
		Driver:        be.driver,
		SchemaVersion: db.SchemaVersion(be.dialect),
		RateLimit:     cfg.RateLimit,
		RateBurst:     cfg.RateBurst,
		Feed:          hub,
		FeedContext:   feedCtx,
	})

	servers := []*http.Server{newHTTPServer(cfg.Addr(), router)}
	if cfg.MetricsEnabled() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		servers = append(servers, newHTTPServer(cfg.MetricsAddr(), mux))
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			log.WithFields(logrus.Fields{"addr": srv.Addr, "driver": be.driver}).Info("listening")

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}

			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		hub.Shutdown()
		stopFeed()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}

		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server exited")

	return nil
}

// newHTTPServer sets no read or write timeout: change feed connections are long-lived.
func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
