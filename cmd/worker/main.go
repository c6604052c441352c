package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/config"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/gemini"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
	miniostorage "github.com/vaisu-bhut/PetPulse-Server/internal/infra/minio"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/postgres"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/redisqueue"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/tracing"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/webhook"
	"github.com/vaisu-bhut/PetPulse-Server/internal/usecase"
	"github.com/vaisu-bhut/PetPulse-Server/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting petpulse worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint, "petpulse-worker")
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	// Migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		UseSSL:    cfg.MinIOUseSSL,
	})
	fatalOnErr(err, "create minio storage")

	// Redis queues
	queue, err := redisqueue.New(cfg.RedisURL, cfg.VideoQueueName, cfg.DigestQueueName)
	fatalOnErr(err, "connect to redis")
	defer queue.Close()

	// Gemini
	analyzer, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	fatalOnErr(err, "create gemini client")

	// Infra adapters
	clips := postgres.NewClipRepository(pool)
	digests := postgres.NewDigestRepository(pool)
	alerts := webhook.NewClient(cfg.AgentURL)

	// Use cases
	processUC := usecase.NewProcessClipUseCase(
		clips, queue, queue, storage, analyzer, alerts, log,
		usecase.ProcessClipConfig{TempDir: cfg.TempDir},
	)
	digestUC := usecase.NewDigestUseCase(clips, digests, queue, log)
	reaper := usecase.NewReaper(clips, queue, cfg.ProcessingDeadline, cfg.ReaperInterval, log)

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, "petpulse-worker", cfg.MetricsPort, log)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		processUC.Run(ctx, cfg.VideoWorkerCount)
	}()
	go func() {
		defer wg.Done()
		digestUC.Run(ctx, cfg.DigestWorkerCount)
	}()
	go func() {
		defer wg.Done()
		reaper.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		queue.Monitor(ctx, cfg.QueueMonitorPeriod, log)
	}()

	log.Info("petpulse worker started, consuming jobs",
		zap.Int("video_workers", cfg.VideoWorkerCount),
		zap.Int("digest_workers", cfg.DigestWorkerCount),
	)

	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	log.Info("petpulse worker stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
