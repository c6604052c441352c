package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/agent"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/config"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/gemini"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/notify"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/postgres"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/tracing"
	"github.com/vaisu-bhut/PetPulse-Server/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting petpulse agent")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint, "petpulse-agent")
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Warn("migration warning", zap.Error(err))
	}

	textgen, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	fatalOnErr(err, "create gemini client")

	notifier := notify.NewDispatcher(notify.DispatcherConfig{
		SendGridKey: cfg.TwilioSendGridKey,
		SMTPHost:    cfg.SMTPHost,
		SMTPPort:    cfg.SMTPPort,
		EmailFrom:   cfg.EmailFrom,
		TwilioSID:   cfg.TwilioAccountSID,
		TwilioAuth:  cfg.TwilioAuthToken,
		SMSFrom:     cfg.TwilioSMSFrom,
	}, log)

	loop := agent.NewComfortLoop(
		postgres.NewAlertRepository(pool),
		postgres.NewClipRepository(pool),
		postgres.NewPetRepository(pool),
		postgres.NewContactRepository(pool),
		postgres.NewQuickActionRepository(pool),
		notifier,
		textgen,
		agent.ComfortLoopConfig{
			MonitoringDelay:   cfg.MonitoringDelay,
			DefaultOwnerEmail: cfg.DefaultOwnerEmail,
			DefaultOwnerPhone: cfg.DefaultOwnerPhone,
			DashboardBaseURL:  cfg.DashboardBaseURL,
		},
		log,
	)

	srv := agent.NewServer(loop, cfg.AlertConcurrency, log)
	metricsSrv := metrics.StartMetricsServer(ctx, "petpulse-agent", cfg.MetricsPort, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := srv.Start(ctx, cfg.AgentPort); err != nil {
		log.Error("server error", zap.Error(err))
	}

	// Let detached notification sends finish before exiting.
	notifier.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	log.Info("petpulse agent stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
