package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/config"
	"github.com/geocoder89/sportsbuddy/internal/db"
	"github.com/geocoder89/sportsbuddy/internal/observability"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/repo/postgres"
	"github.com/geocoder89/sportsbuddy/internal/worker"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker stopped with error", "err", err)
		os.Exit(1)
	}

	log.Info("worker shutdown complete")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.DBURL == "" || cfg.NATSURL == "" {
		return errors.New("the archiver needs DATABASE_URL and NATS_URL")
	}

	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	host, _ := os.Hostname()
	workerID := host + "-" + strconv.Itoa(os.Getpid())

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("sportsbuddy-archiver-"+workerID), nats.MaxReconnects(-1))
	if err != nil {
		return err
	}
	defer nc.Close()

	msgs := make(chan *nats.Msg, cfg.ArchiveBatchSize*4)
	subject := observer.NewNATS(nc, cfg.NATSSubjectPrefix).Wildcard()

	// queue group: several archivers split the stream instead of duplicating it
	sub, err := nc.ChanQueueSubscribe(subject, "activity-archiver", msgs)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	prom := observability.NewProm(prometheus.DefaultRegisterer)
	archiver := worker.NewArchiver(worker.Config{
		FlushInterval: cfg.ArchiveFlushInterval,
		BatchSize:     cfg.ArchiveBatchSize,
		ShutdownGrace: 10 * time.Second,
		Log:           log.With("worker_id", workerID),
	}, msgs, postgres.NewActivityRepo(pool, prom))

	ready := func(ctx context.Context) error {
		if !nc.IsConnected() {
			return errors.New("nats " + nc.Status().String())
		}
		return pool.Ping(ctx)
	}

	probes := &http.Server{
		Addr:              cfg.WorkerAddr(),
		Handler:           worker.Probes(ready, archiver.ShuttingDown),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := probes.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("probe server failed", "err", err)
		}
	}()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = probes.Shutdown(sctx)
	}()

	log.Info("worker has started", "subject", subject, "worker_id", workerID)

	err = archiver.Run(ctx)

	log.Info("archiver stopped",
		"archived", archiver.Archived(),
		"rejected", archiver.Rejected(),
		"dropped", archiver.Dropped(),
	)
	return err
}
