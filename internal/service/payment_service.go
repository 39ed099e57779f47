package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/payment"
	"github.com/tutorlink/backend/internal/repository/base"
	"go.uber.org/zap"
)

// PaymentService sells points through the external payment provider. A
// purchase creates a provider order plus a pending payment row; the
// background poller later confirms the order and credits the points. The
// credit and the payment's completed flip share one transaction with a
// conditional update, so a payment can never be credited twice.
type PaymentService struct {
	txm          base.TxManager
	partyRepo    PartyStore
	paymentRepo  PaymentStore
	ledger       *PointsService
	provider     payment.Provider
	notification *NotificationService
	logger       *zap.Logger
}

func NewPaymentService(
	txm base.TxManager,
	partyRepo PartyStore,
	paymentRepo PaymentStore,
	ledger *PointsService,
	provider payment.Provider,
	notification *NotificationService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		txm:          txm,
		partyRepo:    partyRepo,
		paymentRepo:  paymentRepo,
		ledger:       ledger,
		provider:     provider,
		notification: notification,
		logger:       logger,
	}
}

type CreatePurchaseInput struct {
	PartyID     int64  `validate:"required"`
	Points      int    `validate:"required,gt=0,lte=10000"`
	AmountCents int64  `validate:"required,gt=0"`
	Currency    string `validate:"required,len=3"`
}

// CreatePurchase opens a provider order and records the pending payment
func (s *PaymentService) CreatePurchase(ctx context.Context, in CreatePurchaseInput) (*model.Payment, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	party, err := s.partyRepo.GetByID(ctx, in.PartyID)
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}

	if party == nil {
		return nil, ErrPartyNotFound
	}

	order, err := s.provider.CreateOrder(ctx, in.AmountCents, in.Currency, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("create provider order: %w", err)
	}

	pmt := &model.Payment{
		PartyID:         in.PartyID,
		ProviderOrderID: order.ID,
		Points:          in.Points,
		AmountCents:     in.AmountCents,
		Currency:        in.Currency,
		Status:          model.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, pmt); err != nil {
		return nil, err
	}

	s.logger.Info("Points purchase created",
		zap.Int64("payment_id", pmt.ID),
		zap.Int64("party_id", in.PartyID),
		zap.Int("points", in.Points),
		zap.String("provider_order_id", order.ID),
	)

	return pmt, nil
}

// GetByID gets a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, paymentID int64) (*model.Payment, error) {
	pmt, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	if pmt == nil {
		return nil, ErrPaymentNotFound
	}

	return pmt, nil
}

// ProcessPending scans pending payments and settles the ones the provider
// reports as resolved. One broken payment does not stop the scan.
func (s *PaymentService) ProcessPending(ctx context.Context) error {
	pending, err := s.paymentRepo.GetPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending payments: %w", err)
	}

	for _, pmt := range pending {
		if err := s.processOne(ctx, pmt); err != nil {
			s.logger.Error("Failed to process pending payment",
				zap.Int64("payment_id", pmt.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *PaymentService) processOne(ctx context.Context, pmt *model.Payment) error {
	var order *payment.Order

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		o, err := s.provider.GetOrder(ctx, pmt.ProviderOrderID)
		if err != nil {
			return retry.RetryableError(err)
		}
		order = o
		return nil
	})
	if err != nil {
		return fmt.Errorf("get provider order: %w", err)
	}

	switch order.Status {
	case payment.OrderStatusCompleted:
		return s.settle(ctx, pmt)
	case payment.OrderStatusFailed:
		if _, err := s.paymentRepo.MarkFailed(ctx, pmt.ID); err != nil {
			return err
		}
		s.logger.Info("Payment failed at provider",
			zap.Int64("payment_id", pmt.ID),
			zap.String("provider_order_id", pmt.ProviderOrderID),
		)
		return nil
	default:
		// Still in flight; the next poll will pick it up again.
		return nil
	}
}

func (s *PaymentService) settle(ctx context.Context, pmt *model.Payment) error {
	credited := false

	err := s.txm.WithinTx(ctx, func(q base.Querier) error {
		ok, err := s.paymentRepo.MarkCompleted(ctx, q, pmt.ID, time.Now())
		if err != nil {
			return err
		}

		if !ok {
			// Already settled by an earlier poll.
			return nil
		}

		credited = true
		ref := fmt.Sprintf("payment:%d", pmt.ID)
		return s.ledger.Credit(ctx, q, pmt.PartyID, pmt.Points, model.ReasonPurchase, ref)
	})
	if err != nil {
		return err
	}

	if !credited {
		return nil
	}

	s.logger.Info("Payment settled",
		zap.Int64("payment_id", pmt.ID),
		zap.Int64("party_id", pmt.PartyID),
		zap.Int("points", pmt.Points),
	)

	party, err := s.partyRepo.GetByID(ctx, pmt.PartyID)
	if err != nil {
		s.logger.Error("Failed to load party for notification",
			zap.Int64("party_id", pmt.PartyID),
			zap.Error(err),
		)
		return nil
	}

	s.notification.PointsCredited(ctx, party, pmt.Points)

	return nil
}
