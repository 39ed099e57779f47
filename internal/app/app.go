package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlink/backend/internal/config"
	"github.com/tutorlink/backend/internal/i18n"
	"github.com/tutorlink/backend/internal/notify"
	"github.com/tutorlink/backend/internal/payment"
	"github.com/tutorlink/backend/internal/repository"
	"github.com/tutorlink/backend/internal/repository/base"
	"github.com/tutorlink/backend/internal/service"
	"go.uber.org/zap"
)

// Application wires repositories and services together. Transports (HTTP
// handlers, admin tooling) consume services off this struct.
type Application struct {
	Parties  *service.PartyService
	Requests *service.SessionRequestService
	Sessions *service.SessionService
	Points   *service.PointsService
	Lookups  *service.LookupService
	Payments *service.PaymentService
	Poller   *PaymentPoller
}

// NewApplication builds the full service graph on top of the pool
func NewApplication(
	cfg *config.Config,
	pool *pgxpool.Pool,
	sender notify.Sender,
	provider payment.Provider,
	logger *zap.Logger,
) *Application {
	partyRepo := repository.NewPartyRepository(pool)
	ledgerRepo := repository.NewPointsTransactionRepository(pool)
	requestRepo := repository.NewSessionRequestRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	lookupRepo := repository.NewLookupRepository(pool)

	txm := base.NewPgxTxManager(pool)
	messages := i18n.NewProvider()

	points := service.NewPointsService(partyRepo, ledgerRepo, logger)
	notifications := service.NewNotificationService(sender, messages, logger)
	payments := service.NewPaymentService(txm, partyRepo, paymentRepo, points, provider, notifications, logger)

	return &Application{
		Parties:  service.NewPartyService(pool, partyRepo, ledgerRepo, logger, cfg.SignupPointsGrant),
		Requests: service.NewSessionRequestService(txm, partyRepo, requestRepo, sessionRepo, points, notifications, logger),
		Sessions: service.NewSessionService(txm, partyRepo, sessionRepo, points, notifications, logger),
		Points:   points,
		Lookups:  service.NewLookupService(lookupRepo),
		Payments: payments,
		Poller:   NewPaymentPoller(payments, cfg.PaymentPollInterval, logger),
	}
}
