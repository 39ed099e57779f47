package app

import (
	"context"
	"time"

	"github.com/tutorlink/backend/internal/service"
	"go.uber.org/zap"
)

// PaymentPoller periodically asks the payment provider about pending
// purchases and settles the completed ones.
type PaymentPoller struct {
	paymentService *service.PaymentService
	interval       time.Duration
	logger         *zap.Logger
	stopChan       chan struct{}
}

// NewPaymentPoller creates a poller with the given scan interval
func NewPaymentPoller(paymentService *service.PaymentService, interval time.Duration, logger *zap.Logger) *PaymentPoller {
	return &PaymentPoller{
		paymentService: paymentService,
		interval:       interval,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start launches the polling loop in the background
func (p *PaymentPoller) Start(ctx context.Context) {
	p.logger.Info("Starting payment status poller",
		zap.Duration("interval", p.interval))

	go p.run(ctx)
}

// Stop stops the polling loop
func (p *PaymentPoller) Stop() {
	p.logger.Info("Stopping payment status poller")
	close(p.stopChan)
}

func (p *PaymentPoller) run(ctx context.Context) {
	// First scan right away so a restart doesn't delay settlement
	p.scan(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.scan(ctx)
		case <-p.stopChan:
			p.logger.Info("Payment poller stopped")
			return
		case <-ctx.Done():
			p.logger.Info("Payment poller cancelled")
			return
		}
	}
}

func (p *PaymentPoller) scan(ctx context.Context) {
	if err := p.paymentService.ProcessPending(ctx); err != nil {
		p.logger.Error("Failed to process pending payments", zap.Error(err))
	}
}
