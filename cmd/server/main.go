package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlink/backend/internal/app"
	"github.com/tutorlink/backend/internal/config"
	"github.com/tutorlink/backend/internal/notify"
	"github.com/tutorlink/backend/internal/payment"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}

	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Push delivery and payment capture live behind interfaces; the console
	// sender and dummy provider stand in until real credentials are wired.
	sender := notify.NewConsoleSender(logger)
	provider := payment.NewDummyProvider()

	application := app.NewApplication(cfg, pool, sender, provider, logger)

	application.Poller.Start(ctx)
	defer application.Poller.Stop()

	logger.Info("Tutorlink backend started",
		zap.String("environment", cfg.Environment),
		zap.Duration("payment_poll_interval", cfg.PaymentPollInterval),
	)

	<-ctx.Done()
	logger.Info("Shutting down")
}
