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

type SessionRequestRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRequestRepository(pool *pgxpool.Pool) *SessionRequestRepository {
	return &SessionRequestRepository{pool: pool}
}

const sessionRequestColumns = `id, student_id, teacher_id, points_amount, subject, description,
		duration_minutes, requested_time, status, rejection_reason, session_id,
		accepted_at, rejected_at, created_at, updated_at`

func scanSessionRequest(row pgx.Row) (*model.SessionRequest, error) {
	var req model.SessionRequest
	err := row.Scan(
		&req.ID,
		&req.StudentID,
		&req.TeacherID,
		&req.PointsAmount,
		&req.Subject,
		&req.Description,
		&req.DurationMinutes,
		&req.RequestedTime,
		&req.Status,
		&req.RejectionReason,
		&req.SessionID,
		&req.AcceptedAt,
		&req.RejectedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create creates a new session request inside the caller's transaction
func (r *SessionRequestRepository) Create(ctx context.Context, q base.Querier, req *model.SessionRequest) error {
	query := `
		INSERT INTO session_requests (student_id, teacher_id, points_amount, subject, description, duration_minutes, requested_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		req.StudentID,
		req.TeacherID,
		req.PointsAmount,
		req.Subject,
		req.Description,
		req.DurationMinutes,
		req.RequestedTime,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session request: %w", err)
	}

	return nil
}

// GetByID gets a session request by ID
func (r *SessionRequestRepository) GetByID(ctx context.Context, id int64) (*model.SessionRequest, error) {
	query := `SELECT ` + sessionRequestColumns + ` FROM session_requests WHERE id = $1`

	req, err := scanSessionRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session request by id: %w", err)
	}

	return req, nil
}

// MarkAccepted moves a pending request to accepted and links the created
// session. The update is conditional on status still being pending; false
// means another transition won the race.
func (r *SessionRequestRepository) MarkAccepted(ctx context.Context, q base.Querier, id, sessionID int64, at time.Time) (bool, error) {
	query := `
		UPDATE session_requests
		SET status = 'accepted', session_id = $2, accepted_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, id, sessionID, at)
	if err != nil {
		return false, fmt.Errorf("mark request accepted: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkRejected moves a pending request to rejected. Same conditional rule as
// MarkAccepted: false means the request was no longer pending.
func (r *SessionRequestRepository) MarkRejected(ctx context.Context, q base.Querier, id int64, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE session_requests
		SET status = 'rejected', rejection_reason = $2, rejected_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := q.Exec(ctx, query, id, reason, at)
	if err != nil {
		return false, fmt.Errorf("mark request rejected: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetPendingByTeacherID gets all pending requests addressed to a teacher
func (r *SessionRequestRepository) GetPendingByTeacherID(ctx context.Context, teacherID int64) ([]*model.SessionRequest, error) {
	query := `
		SELECT ` + sessionRequestColumns + `
		FROM session_requests
		WHERE teacher_id = $1 AND status = 'pending'
		ORDER BY created_at ASC
	`

	return r.queryMany(ctx, query, teacherID)
}

// GetByStudentID gets all requests created by a student
func (r *SessionRequestRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*model.SessionRequest, error) {
	query := `
		SELECT ` + sessionRequestColumns + `
		FROM session_requests
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	return r.queryMany(ctx, query, studentID)
}

func (r *SessionRequestRepository) queryMany(ctx context.Context, query string, args ...any) ([]*model.SessionRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session requests: %w", err)
	}
	defer rows.Close()

	var requests []*model.SessionRequest
	for rows.Next() {
		req, err := scanSessionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session requests: %w", err)
	}

	return requests, nil
}
