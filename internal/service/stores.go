package service

import (
	"context"
	"time"

	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
)

// The store interfaces below are what services need from the repository
// layer. Methods taking a base.Querier join the caller's transaction; the
// rest run on the pool.

type PartyStore interface {
	Create(ctx context.Context, party *model.Party) error
	GetByID(ctx context.Context, id int64) (*model.Party, error)
	GetByEmail(ctx context.Context, email string) (*model.Party, error)
	GetPoints(ctx context.Context, id int64) (int, error)
	Debit(ctx context.Context, q base.Querier, id int64, amount int) (int, error)
	Credit(ctx context.Context, q base.Querier, id int64, amount int) (int, error)
	UpdateStatus(ctx context.Context, id int64, status model.PartyStatus) error
	UpdateDeviceToken(ctx context.Context, id int64, token string) error
	UpdateLocale(ctx context.Context, id int64, locale model.Locale) error
	GetAvailableTeachers(ctx context.Context) ([]*model.Party, error)
}

type LedgerStore interface {
	Create(ctx context.Context, q base.Querier, txn *model.PointsTransaction) error
	GetByPartyID(ctx context.Context, partyID int64) ([]*model.PointsTransaction, error)
}

type SessionRequestStore interface {
	Create(ctx context.Context, q base.Querier, req *model.SessionRequest) error
	GetByID(ctx context.Context, id int64) (*model.SessionRequest, error)
	MarkAccepted(ctx context.Context, q base.Querier, id, sessionID int64, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, q base.Querier, id int64, reason string, at time.Time) (bool, error)
	GetPendingByTeacherID(ctx context.Context, teacherID int64) ([]*model.SessionRequest, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*model.SessionRequest, error)
}

type SessionStore interface {
	Create(ctx context.Context, q base.Querier, session *model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	MarkStarted(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id int64, at time.Time, actualDuration *int, teacherNotes, studentNotes string, studentRating, teacherRating *int) (bool, error)
	MarkCancelled(ctx context.Context, q base.Querier, id int64) (bool, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Session, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*model.Session, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	GetPending(ctx context.Context) ([]*model.Payment, error)
	MarkCompleted(ctx context.Context, q base.Querier, id int64, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
}

type LookupStore interface {
	GetSubjects(ctx context.Context) ([]*model.LookupItem, error)
	GetGradeLevels(ctx context.Context) ([]*model.LookupItem, error)
	GetCities(ctx context.Context) ([]*model.LookupItem, error)
}
