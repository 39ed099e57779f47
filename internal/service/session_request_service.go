package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
	"go.uber.org/zap"
)

// SessionRequestService drives a request through its whole lifecycle:
// pending on creation, then exactly one transition to accepted or rejected.
// The student's points are debited into escrow when the request is created
// and refunded only on rejection.
type SessionRequestService struct {
	txm          base.TxManager
	partyRepo    PartyStore
	requestRepo  SessionRequestStore
	sessionRepo  SessionStore
	ledger       *PointsService
	notification *NotificationService
	logger       *zap.Logger
}

func NewSessionRequestService(
	txm base.TxManager,
	partyRepo PartyStore,
	requestRepo SessionRequestStore,
	sessionRepo SessionStore,
	ledger *PointsService,
	notification *NotificationService,
	logger *zap.Logger,
) *SessionRequestService {
	return &SessionRequestService{
		txm:          txm,
		partyRepo:    partyRepo,
		requestRepo:  requestRepo,
		sessionRepo:  sessionRepo,
		ledger:       ledger,
		notification: notification,
		logger:       logger,
	}
}

type SendSessionRequestInput struct {
	StudentID       int64     `validate:"required"`
	TeacherID       int64     `validate:"required"`
	PointsAmount    int       `validate:"required,gt=0,lte=1000"`
	Subject         string    `validate:"required,max=200"`
	Description     string    `validate:"max=2000"`
	DurationMinutes int       `validate:"required,gt=15,lte=480"`
	RequestedTime   time.Time `validate:"required"`
}

// Send creates a session request. The escrow debit and the request row are
// written in one transaction, so a failure after the debit undoes it; the
// teacher is notified only after the transaction committed.
func (s *SessionRequestService) Send(ctx context.Context, in SendSessionRequestInput) (*model.SessionRequest, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if !in.RequestedTime.After(time.Now()) {
		return nil, &ValidationError{Fields: []FieldError{{Field: "requested_time", Error: "must be in the future"}}}
	}

	student, err := s.partyRepo.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	if student == nil || !student.IsStudent() {
		return nil, ErrStudentNotFound
	}

	teacher, err := s.partyRepo.GetByID(ctx, in.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	if teacher == nil || !teacher.IsTeacher() {
		return nil, ErrTeacherNotFound
	}

	if !teacher.IsAvailable() {
		return nil, ErrTeacherNotAvailable
	}

	req := &model.SessionRequest{
		StudentID:       in.StudentID,
		TeacherID:       in.TeacherID,
		PointsAmount:    in.PointsAmount,
		Subject:         in.Subject,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		RequestedTime:   in.RequestedTime,
		Status:          model.RequestStatusPending,
	}

	// The reference ties the escrow ledger row to the request before the
	// request id exists; it also travels with the teacher's notification.
	escrowRef := uuid.NewString()

	err = s.txm.WithinTx(ctx, func(q base.Querier) error {
		if err := s.ledger.Debit(ctx, q, in.StudentID, in.PointsAmount, model.ReasonEscrowHold, escrowRef); err != nil {
			return err
		}

		return s.requestRepo.Create(ctx, q, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session request sent",
		zap.Int64("request_id", req.ID),
		zap.Int64("student_id", in.StudentID),
		zap.Int64("teacher_id", in.TeacherID),
		zap.Int("points_amount", in.PointsAmount),
		zap.String("escrow_ref", escrowRef),
	)

	s.notification.RequestReceived(ctx, teacher, req)

	return req, nil
}

// Accept creates the session and moves the request to accepted. The status
// update is conditional on the request still being pending, so of two
// concurrent accept attempts exactly one wins; the loser's session row rolls
// back and it gets ErrRequestAlreadyProcessed.
func (s *SessionRequestService) Accept(ctx context.Context, requestID, teacherID int64, scheduledStartTime time.Time) (*model.Session, error) {
	req, err := s.loadOwnedPending(ctx, requestID, teacherID)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		SessionRequestID:   req.ID,
		StudentID:          req.StudentID,
		TeacherID:          req.TeacherID,
		PointsAmount:       req.PointsAmount,
		Subject:            req.Subject,
		Description:        req.Description,
		ScheduledStartTime: scheduledStartTime,
		PlannedDuration:    req.DurationMinutes,
		Status:             model.SessionStatusScheduled,
	}

	now := time.Now()

	err = s.txm.WithinTx(ctx, func(q base.Querier) error {
		if err := s.sessionRepo.Create(ctx, q, session); err != nil {
			return err
		}

		ok, err := s.requestRepo.MarkAccepted(ctx, q, req.ID, session.ID, now)
		if err != nil {
			return err
		}

		if !ok {
			return ErrRequestAlreadyProcessed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	req.Status = model.RequestStatusAccepted
	req.SessionID = &session.ID
	req.AcceptedAt = &now

	s.logger.Info("Session request accepted",
		zap.Int64("request_id", req.ID),
		zap.Int64("session_id", session.ID),
		zap.Int64("teacher_id", teacherID),
	)

	s.notifyStudent(ctx, req.StudentID, func(student *model.Party) {
		s.notification.RequestAccepted(ctx, student, req, session.ID)
	})

	return session, nil
}

// Reject moves the request to rejected and refunds the escrowed points to
// the student, both in one transaction. Same conditional-update race rule as
// Accept.
func (s *SessionRequestService) Reject(ctx context.Context, requestID, teacherID int64, reason string) error {
	req, err := s.loadOwnedPending(ctx, requestID, teacherID)
	if err != nil {
		return err
	}

	now := time.Now()
	refundRef := fmt.Sprintf("session_request:%d", req.ID)

	err = s.txm.WithinTx(ctx, func(q base.Querier) error {
		ok, err := s.requestRepo.MarkRejected(ctx, q, req.ID, reason, now)
		if err != nil {
			return err
		}

		if !ok {
			return ErrRequestAlreadyProcessed
		}

		return s.ledger.Credit(ctx, q, req.StudentID, req.PointsAmount, model.ReasonEscrowRefund, refundRef)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Session request rejected",
		zap.Int64("request_id", req.ID),
		zap.Int64("teacher_id", teacherID),
		zap.String("reason", reason),
	)

	s.notifyStudent(ctx, req.StudentID, func(student *model.Party) {
		s.notification.RequestRejected(ctx, student, req, reason)
	})

	return nil
}

// GetByID gets a session request by ID
func (s *SessionRequestService) GetByID(ctx context.Context, requestID int64) (*model.SessionRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	if req == nil {
		return nil, ErrRequestNotFound
	}

	return req, nil
}

// GetPendingForTeacher gets a teacher's pending requests
func (s *SessionRequestService) GetPendingForTeacher(ctx context.Context, teacherID int64) ([]*model.SessionRequest, error) {
	return s.requestRepo.GetPendingByTeacherID(ctx, teacherID)
}

// GetForStudent gets all requests a student created
func (s *SessionRequestService) GetForStudent(ctx context.Context, studentID int64) ([]*model.SessionRequest, error) {
	return s.requestRepo.GetByStudentID(ctx, studentID)
}

// loadOwnedPending loads a request and checks ownership and pending status.
// The pending check here is only a fast path; the authoritative check is the
// conditional update inside the transition's transaction.
func (s *SessionRequestService) loadOwnedPending(ctx context.Context, requestID, teacherID int64) (*model.SessionRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	if req == nil {
		return nil, ErrRequestNotFound
	}

	if req.TeacherID != teacherID {
		return nil, ErrNotRequestOwner
	}

	if !req.IsPending() {
		return nil, ErrRequestAlreadyProcessed
	}

	return req, nil
}

func (s *SessionRequestService) notifyStudent(ctx context.Context, studentID int64, fn func(student *model.Party)) {
	student, err := s.partyRepo.GetByID(ctx, studentID)
	if err != nil {
		s.logger.Error("Failed to load student for notification",
			zap.Int64("student_id", studentID),
			zap.Error(err),
		)
		return
	}

	fn(student)
}
