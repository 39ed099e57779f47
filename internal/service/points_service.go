package service

import (
	"context"
	"fmt"

	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
	"go.uber.org/zap"
)

// PointsService is the points ledger: every balance mutation goes through
// Debit or Credit, each of which updates the balance and appends an audit
// row in the caller's transaction. There is no operation that moves points
// between two parties outside a single enclosing transaction.
type PointsService struct {
	partyRepo  PartyStore
	ledgerRepo LedgerStore
	logger     *zap.Logger
}

func NewPointsService(partyRepo PartyStore, ledgerRepo LedgerStore, logger *zap.Logger) *PointsService {
	return &PointsService{
		partyRepo:  partyRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// Debit subtracts amount from the party's balance. Fails with
// ErrInsufficientPoints when the balance does not cover the amount; the
// underlying update is conditional, so the balance can never go negative
// even under concurrent debits.
func (s *PointsService) Debit(ctx context.Context, q base.Querier, partyID int64, amount int, reason model.LedgerReason, reference string) error {
	if amount <= 0 {
		return &ValidationError{Fields: []FieldError{{Field: "amount", Error: "must be positive"}}}
	}

	balance, err := s.partyRepo.Debit(ctx, q, partyID, amount)
	if err != nil {
		if base.IsNotFound(err) {
			return ErrInsufficientPoints
		}
		return fmt.Errorf("debit party: %w", err)
	}

	txn := &model.PointsTransaction{
		PartyID:      partyID,
		Entry:        model.LedgerEntryDebit,
		Reason:       reason,
		Amount:       amount,
		BalanceAfter: balance,
		Reference:    reference,
	}

	if err := s.ledgerRepo.Create(ctx, q, txn); err != nil {
		return fmt.Errorf("record debit: %w", err)
	}

	s.logger.Info("Points debited",
		zap.Int64("party_id", partyID),
		zap.Int("amount", amount),
		zap.Int("balance", balance),
		zap.String("reason", string(reason)),
	)

	return nil
}

// Credit adds amount to the party's balance. The refund/payout path; always
// succeeds for an existing party.
func (s *PointsService) Credit(ctx context.Context, q base.Querier, partyID int64, amount int, reason model.LedgerReason, reference string) error {
	if amount <= 0 {
		return &ValidationError{Fields: []FieldError{{Field: "amount", Error: "must be positive"}}}
	}

	balance, err := s.partyRepo.Credit(ctx, q, partyID, amount)
	if err != nil {
		if base.IsNotFound(err) {
			return ErrPartyNotFound
		}
		return fmt.Errorf("credit party: %w", err)
	}

	txn := &model.PointsTransaction{
		PartyID:      partyID,
		Entry:        model.LedgerEntryCredit,
		Reason:       reason,
		Amount:       amount,
		BalanceAfter: balance,
		Reference:    reference,
	}

	if err := s.ledgerRepo.Create(ctx, q, txn); err != nil {
		return fmt.Errorf("record credit: %w", err)
	}

	s.logger.Info("Points credited",
		zap.Int64("party_id", partyID),
		zap.Int("amount", amount),
		zap.Int("balance", balance),
		zap.String("reason", string(reason)),
	)

	return nil
}

// GetBalance gets the party's current balance
func (s *PointsService) GetBalance(ctx context.Context, partyID int64) (int, error) {
	balance, err := s.partyRepo.GetPoints(ctx, partyID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// HasSufficientPoints checks if the party's balance covers the amount
func (s *PointsService) HasSufficientPoints(ctx context.Context, partyID int64, amount int) (bool, error) {
	balance, err := s.GetBalance(ctx, partyID)
	if err != nil {
		return false, err
	}

	return balance >= amount, nil
}

// GetHistory gets the party's points audit trail
func (s *PointsService) GetHistory(ctx context.Context, partyID int64) ([]*model.PointsTransaction, error) {
	return s.ledgerRepo.GetByPartyID(ctx, partyID)
}
