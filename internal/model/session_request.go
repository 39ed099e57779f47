package model

import "time"

type SessionRequestStatus string

const (
	RequestStatusPending  SessionRequestStatus = "pending"
	RequestStatusAccepted SessionRequestStatus = "accepted"
	RequestStatusRejected SessionRequestStatus = "rejected"
)

// SessionRequest is a student's proposal for a tutoring session. The points
// amount is debited from the student when the request is created and held
// until the teacher accepts (points stay gone) or rejects (points refunded).
type SessionRequest struct {
	ID              int64                `json:"id"`
	StudentID       int64                `json:"student_id"`
	TeacherID       int64                `json:"teacher_id"`
	PointsAmount    int                  `json:"points_amount"`
	Subject         string               `json:"subject"`
	Description     string               `json:"description"`
	DurationMinutes int                  `json:"duration_minutes"`
	RequestedTime   time.Time            `json:"requested_time"`
	Status          SessionRequestStatus `json:"status"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	SessionID       *int64               `json:"session_id,omitempty"`
	AcceptedAt      *time.Time           `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time           `json:"rejected_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`

	// Filled for convenience, not stored on the row
	Student *Party `json:"student,omitempty"`
	Teacher *Party `json:"teacher,omitempty"`
}

// IsPending checks if the request still awaits a teacher decision
func (r *SessionRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsTerminal checks if the request reached a final state
func (r *SessionRequest) IsTerminal() bool {
	return r.Status == RequestStatusAccepted || r.Status == RequestStatusRejected
}
