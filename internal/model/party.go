package model

import "time"

type PartyRole string

const (
	PartyRoleStudent PartyRole = "student"
	PartyRoleTeacher PartyRole = "teacher"
)

type PartyStatus string

const (
	PartyStatusPending  PartyStatus = "pending"
	PartyStatusAccepted PartyStatus = "accepted"
	PartyStatusRejected PartyStatus = "rejected"
)

// Party is a platform account holding a points balance: a student or a teacher.
// Teachers go through moderation; only accepted teachers may receive requests.
type Party struct {
	ID          int64       `json:"id"`
	Role        PartyRole   `json:"role"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Locale      Locale      `json:"locale"`
	DeviceToken string      `json:"device_token,omitempty"`
	Points      int         `json:"points"`
	Status      PartyStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsStudent checks if the party is a student account
func (p *Party) IsStudent() bool {
	return p.Role == PartyRoleStudent
}

// IsTeacher checks if the party is a teacher account
func (p *Party) IsTeacher() bool {
	return p.Role == PartyRoleTeacher
}

// IsAvailable checks if a teacher may receive new session requests
func (p *Party) IsAvailable() bool {
	return p.Role == PartyRoleTeacher && p.Status == PartyStatusAccepted
}
