package model

import "time"

type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// Session is a confirmed tutoring engagement, created exactly once when a
// teacher accepts a session request.
type Session struct {
	ID                  int64         `json:"id"`
	SessionRequestID    int64         `json:"session_request_id"`
	StudentID           int64         `json:"student_id"`
	TeacherID           int64         `json:"teacher_id"`
	PointsAmount        int           `json:"points_amount"`
	Subject             string        `json:"subject"`
	Description         string        `json:"description"`
	ScheduledStartTime  time.Time     `json:"scheduled_start_time"`
	ActualStartTime     *time.Time    `json:"actual_start_time,omitempty"`
	ActualEndTime       *time.Time    `json:"actual_end_time,omitempty"`
	PlannedDuration     int           `json:"planned_duration_minutes"`
	ActualDuration      *int          `json:"actual_duration_minutes,omitempty"`
	Status              SessionStatus `json:"status"`
	IsPointsTransferred bool          `json:"is_points_transferred"`
	PointsTransferredAt *time.Time    `json:"points_transferred_at,omitempty"`
	TeacherNotes        string        `json:"teacher_notes,omitempty"`
	StudentNotes        string        `json:"student_notes,omitempty"`
	StudentRating       *int          `json:"student_rating,omitempty"`
	TeacherRating       *int          `json:"teacher_rating,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// IsCompleted checks if the session already went through settlement
func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}
