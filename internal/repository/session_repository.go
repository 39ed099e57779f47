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

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, session_request_id, student_id, teacher_id, points_amount, subject,
		description, scheduled_start_time, actual_start_time, actual_end_time,
		planned_duration_minutes, actual_duration_minutes, status,
		is_points_transferred, points_transferred_at, teacher_notes, student_notes,
		student_rating, teacher_rating, created_at, updated_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.ID,
		&s.SessionRequestID,
		&s.StudentID,
		&s.TeacherID,
		&s.PointsAmount,
		&s.Subject,
		&s.Description,
		&s.ScheduledStartTime,
		&s.ActualStartTime,
		&s.ActualEndTime,
		&s.PlannedDuration,
		&s.ActualDuration,
		&s.Status,
		&s.IsPointsTransferred,
		&s.PointsTransferredAt,
		&s.TeacherNotes,
		&s.StudentNotes,
		&s.StudentRating,
		&s.TeacherRating,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create creates a session inside the caller's transaction. The unique index
// on session_request_id guarantees at most one session per request.
func (r *SessionRepository) Create(ctx context.Context, q base.Querier, session *model.Session) error {
	query := `
		INSERT INTO sessions (session_request_id, student_id, teacher_id, points_amount, subject, description, scheduled_start_time, planned_duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		session.SessionRequestID,
		session.StudentID,
		session.TeacherID,
		session.PointsAmount,
		session.Subject,
		session.Description,
		session.ScheduledStartTime,
		session.PlannedDuration,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID gets a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

// MarkStarted moves a scheduled session to in_progress and records the actual
// start time. False means the session was not in the scheduled state.
func (r *SessionRepository) MarkStarted(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `
		UPDATE sessions
		SET status = 'in_progress', actual_start_time = $2, updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
	`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark session started: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkCompleted settles the session: completed status, end time, duration,
// notes, ratings and the points-transferred flag, all in one statement.
// The condition on is_points_transferred makes settlement happen exactly
// once; false means the session was already settled.
func (r *SessionRepository) MarkCompleted(ctx context.Context, id int64, at time.Time, actualDuration *int, teacherNotes, studentNotes string, studentRating, teacherRating *int) (bool, error) {
	query := `
		UPDATE sessions
		SET status = 'completed',
		    actual_end_time = $2,
		    actual_duration_minutes = $3,
		    teacher_notes = $4,
		    student_notes = $5,
		    student_rating = $6,
		    teacher_rating = $7,
		    is_points_transferred = TRUE,
		    points_transferred_at = $2,
		    updated_at = now()
		WHERE id = $1 AND is_points_transferred = FALSE AND status <> 'cancelled'
	`

	result, err := r.pool.Exec(ctx, query, id, at, actualDuration, teacherNotes, studentNotes, studentRating, teacherRating)
	if err != nil {
		return false, fmt.Errorf("mark session completed: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkCancelled moves a scheduled session to cancelled inside the caller's
// transaction, so the escrow refund commits atomically with it. False means
// the session had already left the scheduled state.
func (r *SessionRepository) MarkCancelled(ctx context.Context, q base.Querier, id int64) (bool, error) {
	query := `
		UPDATE sessions
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'scheduled'
	`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark session cancelled: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByTeacherID gets all sessions where the party teaches
func (r *SessionRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE teacher_id = $1
		ORDER BY scheduled_start_time DESC
	`

	return r.queryMany(ctx, query, teacherID)
}

// GetByStudentID gets all sessions where the party studies
func (r *SessionRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE student_id = $1
		ORDER BY scheduled_start_time DESC
	`

	return r.queryMany(ctx, query, studentID)
}

func (r *SessionRepository) queryMany(ctx context.Context, query string, args ...any) ([]*model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
