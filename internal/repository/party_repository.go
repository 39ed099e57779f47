package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
)

type PartyRepository struct {
	pool *pgxpool.Pool
}

func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

const partyColumns = `id, role, name, email, locale, device_token, points, status, created_at, updated_at`

func scanParty(row pgx.Row) (*model.Party, error) {
	var p model.Party
	err := row.Scan(
		&p.ID,
		&p.Role,
		&p.Name,
		&p.Email,
		&p.Locale,
		&p.DeviceToken,
		&p.Points,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new party
func (r *PartyRepository) Create(ctx context.Context, party *model.Party) error {
	query := `
		INSERT INTO parties (role, name, email, locale, device_token, points, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		party.Role,
		party.Name,
		party.Email,
		party.Locale,
		party.DeviceToken,
		party.Points,
		party.Status,
	).Scan(&party.ID, &party.CreatedAt, &party.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create party: %w", err)
	}

	return nil
}

// GetByID gets a party by ID
func (r *PartyRepository) GetByID(ctx context.Context, id int64) (*model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1`

	party, err := scanParty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party by id: %w", err)
	}

	return party, nil
}

// GetByEmail gets a party by email
func (r *PartyRepository) GetByEmail(ctx context.Context, email string) (*model.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE email = $1`

	party, err := scanParty(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party by email: %w", err)
	}

	return party, nil
}

// GetPoints gets a party's current points balance
func (r *PartyRepository) GetPoints(ctx context.Context, id int64) (int, error) {
	query := `SELECT points FROM parties WHERE id = $1`

	var points int
	err := r.pool.QueryRow(ctx, query, id).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("party not found")
		}
		return 0, fmt.Errorf("get points: %w", err)
	}

	return points, nil
}

// Debit subtracts amount from the party's balance and returns the new
// balance. The update is conditional on the balance covering the amount, so
// a concurrent debit can never drive the balance negative; pgx.ErrNoRows
// means the balance was insufficient (or the party does not exist).
func (r *PartyRepository) Debit(ctx context.Context, q base.Querier, id int64, amount int) (int, error) {
	query := `
		UPDATE parties
		SET points = points - $2, updated_at = now()
		WHERE id = $1 AND points >= $2
		RETURNING points
	`

	var balance int
	err := q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// Credit adds amount to the party's balance and returns the new balance.
func (r *PartyRepository) Credit(ctx context.Context, q base.Querier, id int64, amount int) (int, error) {
	query := `
		UPDATE parties
		SET points = points + $2, updated_at = now()
		WHERE id = $1
		RETURNING points
	`

	var balance int
	err := q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// UpdateStatus updates a teacher's moderation status
func (r *PartyRepository) UpdateStatus(ctx context.Context, id int64, status model.PartyStatus) error {
	query := `
		UPDATE parties
		SET status = $1, updated_at = now()
		WHERE id = $2 AND role = 'teacher'
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update party status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("teacher not found")
	}

	return nil
}

// UpdateDeviceToken updates the party's push notification token
func (r *PartyRepository) UpdateDeviceToken(ctx context.Context, id int64, token string) error {
	query := `
		UPDATE parties
		SET device_token = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, token, id)
	if err != nil {
		return fmt.Errorf("update device token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("party not found")
	}

	return nil
}

// UpdateLocale updates the party's preferred language
func (r *PartyRepository) UpdateLocale(ctx context.Context, id int64, locale model.Locale) error {
	query := `
		UPDATE parties
		SET locale = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, locale, id)
	if err != nil {
		return fmt.Errorf("update locale: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("party not found")
	}

	return nil
}

// GetAvailableTeachers gets all teachers accepted by moderation
func (r *PartyRepository) GetAvailableTeachers(ctx context.Context) ([]*model.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE role = 'teacher' AND status = 'accepted'
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get available teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Party
	for rows.Next() {
		teacher, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teachers: %w", err)
	}

	return teachers, nil
}
