package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, party_id, provider_order_id, points, amount_cents, currency, status, completed_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.PartyID,
		&p.ProviderOrderID,
		&p.Points,
		&p.AmountCents,
		&p.Currency,
		&p.Status,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a pending payment
func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (party_id, provider_order_id, points, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		payment.PartyID,
		payment.ProviderOrderID,
		payment.Points,
		payment.AmountCents,
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	return payment, nil
}

// GetPending gets all payments still awaiting provider confirmation
func (r *PaymentRepository) GetPending(ctx context.Context) ([]*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get pending payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// MarkCompleted moves a pending payment to completed inside the caller's
// transaction, so the points credit commits atomically with it. False means
// the payment was already resolved (the poller retried a finished row).
func (r *PaymentRepository) MarkCompleted(ctx context.Context, q base.Querier, id int64, at time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'completed', completed_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark payment completed: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkFailed moves a pending payment to failed
func (r *PaymentRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'failed', updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark payment failed: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
