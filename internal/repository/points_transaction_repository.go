package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
)

type PointsTransactionRepository struct {
	pool *pgxpool.Pool
}

func NewPointsTransactionRepository(pool *pgxpool.Pool) *PointsTransactionRepository {
	return &PointsTransactionRepository{pool: pool}
}

// Create appends an audit row inside the caller's transaction
func (r *PointsTransactionRepository) Create(ctx context.Context, q base.Querier, txn *model.PointsTransaction) error {
	query := `
		INSERT INTO points_transactions (party_id, entry, reason, amount, balance_after, reference)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(
		ctx, query,
		txn.PartyID,
		txn.Entry,
		txn.Reason,
		txn.Amount,
		txn.BalanceAfter,
		txn.Reference,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("create points transaction: %w", err)
	}

	return nil
}

// GetByPartyID gets a party's points history, newest first
func (r *PointsTransactionRepository) GetByPartyID(ctx context.Context, partyID int64) ([]*model.PointsTransaction, error) {
	query := `
		SELECT id, party_id, entry, reason, amount, balance_after, reference, created_at
		FROM points_transactions
		WHERE party_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("get points transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.PointsTransaction
	for rows.Next() {
		var txn model.PointsTransaction
		err := rows.Scan(
			&txn.ID,
			&txn.PartyID,
			&txn.Entry,
			&txn.Reason,
			&txn.Amount,
			&txn.BalanceAfter,
			&txn.Reference,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan points transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points transactions: %w", err)
	}

	return txns, nil
}
