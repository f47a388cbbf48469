package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/app"
	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/geocoder89/sportsbuddy/internal/cache/redisclient"
	"github.com/geocoder89/sportsbuddy/internal/config"
	"github.com/geocoder89/sportsbuddy/internal/db"
	httpx "github.com/geocoder89/sportsbuddy/internal/http"
	"github.com/geocoder89/sportsbuddy/internal/http/handlers"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/validation"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
)

const serviceName = "sportsbuddy-api"

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: serviceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	if err := validation.RegisterGin(); err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	prom := observability.NewProm(prometheus.DefaultRegisterer)
	checks := map[string]handlers.PingFunc{}

	// stores: postgres when configured, memory otherwise
	stores := app.MemoryStores()
	if cfg.DBURL != "" {
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			return err
		}

		stores = app.PostgresStores(pool, prom)
		checks["postgres"] = pool.Ping
		log.Info("store adapter", "kind", "postgres")
	} else {
		log.Warn("DATABASE_URL not set; running on the in-memory store")
	}

	// shared cache: redis when configured
	var shared cache.Store = cache.NewMemory(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rc.Close() }()

		shared = cache.NewRedis(rc.Raw(), cfg.CacheTTL)
		checks["redis"] = rc.Ping
	}

	// activity: ring for the admin view, slog always, NATS when configured
	ring := observer.NewRing(cfg.ActivityRetain)
	sinks := []observer.Sink{ring, observer.NewSlog(log)}

	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name(serviceName), nats.MaxReconnects(-1))
		if err != nil {
			return err
		}
		defer nc.Close()

		sinks = append(sinks, observer.NewProtected(
			observer.NewNATS(nc, cfg.NATSSubjectPrefix),
			observer.ProtectedConfig{
				Clock: clock,
				OnStateChange: func(from, to observer.BreakerState) {
					log.Warn("activity publisher circuit", "from", from, "to", to)
				},
			},
		))
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return errors.New("nats " + nc.Status().String())
			}
			return nil
		}
	}

	obs := observer.NewAsync(cfg.ActivityBuffer, sinks,
		observer.WithDropCounter(prom.ObserverDropped.Inc),
		observer.WithErrorLog(log),
	)
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Close(cctx); err != nil {
			log.Error("observer drain incomplete", "err", err)
		}
	}()

	svc := app.NewServices(stores, app.Options{
		JWTSecret:       cfg.Secret(),
		AccessTTL:       cfg.JWTAccessTTL,
		AdminSignupCode: cfg.AdminSignupCode,
		Cache:           shared,
		Clock:           clock,
		Observer:        obs,
	})

	seeded, err := svc.Seed(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, cfg.CategoriesFile)
	if err != nil {
		return err
	}
	log.Info("seed complete", "admin_created", seeded.AdminCreated, "categories_added", seeded.CategoriesAdded)

	router := httpx.NewRouter(httpx.Deps{
		Log:           log,
		Prom:          prom,
		Gatherer:      prometheus.DefaultGatherer,
		Clock:         clock,
		ReleaseMode:   cfg.IsProd(),
		CORSOrigins:   cfg.CORSOrigins,
		ServiceName:   serviceName,
		Catalog:       svc.Catalog,
		Registrations: svc.Registrations,
		Reference:     svc.Reference,
		Provider:      svc.Provider,
		Tokens:        svc.Tokens,
		Revocations:   svc.Revocations,
		Users:         stores.Users,
		ListCache:     shared,
		ListCacheTTL:  cfg.CacheTTL,
		Observer:      obs,
		Activity:      ring,
		Checks:        checks,
		AuthRateLimit: cfg.AuthRateLimit,
	})

	// server set up
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info("server shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}
