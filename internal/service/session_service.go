package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
	"go.uber.org/zap"
)

// SessionService governs a confirmed session: scheduled, then in progress,
// then completed, with cancellation possible only while still scheduled.
// Settlement happens exactly once, at completion, by flipping the
// points-transferred flag; no points move at that moment because the
// student's debit from request time already is the teacher's earned amount.
type SessionService struct {
	txm          base.TxManager
	partyRepo    PartyStore
	sessionRepo  SessionStore
	ledger       *PointsService
	notification *NotificationService
	logger       *zap.Logger
}

func NewSessionService(
	txm base.TxManager,
	partyRepo PartyStore,
	sessionRepo SessionStore,
	ledger *PointsService,
	notification *NotificationService,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		txm:          txm,
		partyRepo:    partyRepo,
		sessionRepo:  sessionRepo,
		ledger:       ledger,
		notification: notification,
		logger:       logger,
	}
}

type EndSessionInput struct {
	SessionID     int64  `validate:"required"`
	TeacherNotes  string `validate:"max=2000"`
	StudentNotes  string `validate:"max=2000"`
	StudentRating *int   `validate:"omitempty,gte=1,lte=5"`
	TeacherRating *int   `validate:"omitempty,gte=1,lte=5"`
}

// Start moves a scheduled session to in progress and records the actual
// start time. Only the session's teacher may start it.
func (s *SessionService) Start(ctx context.Context, sessionID, teacherID int64) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.TeacherID != teacherID {
		return ErrNotSessionParty
	}

	ok, err := s.sessionRepo.MarkStarted(ctx, sessionID, time.Now())
	if err != nil {
		return err
	}

	if !ok {
		return ErrSessionNotStartable
	}

	s.logger.Info("Session started",
		zap.Int64("session_id", sessionID),
		zap.Int64("teacher_id", teacherID),
	)

	s.notifyParty(ctx, session.StudentID, func(student *model.Party) {
		s.notification.SessionStarted(ctx, student, session)
	})

	return nil
}

// End completes the session and settles the points. Ending an already
// completed session is a no-op success so retried calls stay harmless: the
// settlement flag flips false to true exactly once and the second caller's
// notes and ratings are dropped.
func (s *SessionService) End(ctx context.Context, in EndSessionInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	session, err := s.getSession(ctx, in.SessionID)
	if err != nil {
		return err
	}

	if session.Status == model.SessionStatusCancelled {
		return ErrSessionCancelled
	}

	if session.IsCompleted() {
		return nil
	}

	now := time.Now()

	var actualDuration *int
	if session.ActualStartTime != nil {
		minutes := int(now.Sub(*session.ActualStartTime).Minutes())
		actualDuration = &minutes
	}

	ok, err := s.sessionRepo.MarkCompleted(ctx, in.SessionID, now, actualDuration,
		in.TeacherNotes, in.StudentNotes, in.StudentRating, in.TeacherRating)
	if err != nil {
		return err
	}

	if !ok {
		// Lost a race against another End call; the session is settled,
		// which is what the caller wanted.
		return nil
	}

	s.logger.Info("Session completed",
		zap.Int64("session_id", in.SessionID),
		zap.Int("points_amount", session.PointsAmount),
	)

	s.notifyParty(ctx, session.StudentID, func(student *model.Party) {
		s.notification.SessionEnded(ctx, student, session)
	})

	return nil
}

// Cancel cancels a scheduled session and refunds the escrowed points to the
// student in the same transaction. Either party of the session may cancel.
func (s *SessionService) Cancel(ctx context.Context, sessionID, partyID int64) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.StudentID != partyID && session.TeacherID != partyID {
		return ErrNotSessionParty
	}

	refundRef := fmt.Sprintf("session:%d", session.ID)

	err = s.txm.WithinTx(ctx, func(q base.Querier) error {
		ok, err := s.sessionRepo.MarkCancelled(ctx, q, sessionID)
		if err != nil {
			return err
		}

		if !ok {
			return ErrSessionNotCancellable
		}

		return s.ledger.Credit(ctx, q, session.StudentID, session.PointsAmount, model.ReasonEscrowRefund, refundRef)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Session cancelled",
		zap.Int64("session_id", sessionID),
		zap.Int64("by_party_id", partyID),
	)

	counterpartyID := session.TeacherID
	if partyID == session.TeacherID {
		counterpartyID = session.StudentID
	}

	s.notifyParty(ctx, counterpartyID, func(counterparty *model.Party) {
		s.notification.SessionCancelled(ctx, counterparty, session)
	})

	return nil
}

// GetByID gets a session by ID
func (s *SessionService) GetByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	return s.getSession(ctx, sessionID)
}

// GetForTeacher gets all sessions taught by a teacher
func (s *SessionService) GetForTeacher(ctx context.Context, teacherID int64) ([]*model.Session, error) {
	return s.sessionRepo.GetByTeacherID(ctx, teacherID)
}

// GetForStudent gets all sessions attended by a student
func (s *SessionService) GetForStudent(ctx context.Context, studentID int64) ([]*model.Session, error) {
	return s.sessionRepo.GetByStudentID(ctx, studentID)
}

func (s *SessionService) getSession(ctx context.Context, sessionID int64) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session == nil {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *SessionService) notifyParty(ctx context.Context, partyID int64, fn func(party *model.Party)) {
	party, err := s.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		s.logger.Error("Failed to load party for notification",
			zap.Int64("party_id", partyID),
			zap.Error(err),
		)
		return
	}

	fn(party)
}
