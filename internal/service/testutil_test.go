package service

import (
	"time"

	"github.com/tutorlink/backend/internal/i18n"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/notify"
	"github.com/tutorlink/backend/internal/payment"
	"go.uber.org/zap"
)

type testEnv struct {
	st       *fakeStore
	sender   *notify.DummySender
	provider *payment.DummyProvider
	ledger   *PointsService
	requests *SessionRequestService
	sessions *SessionService
	payments *PaymentService
	parties  *PartyService
}

func newTestEnv() *testEnv {
	st := newFakeStore()
	logger := zap.NewNop()
	txm := newFakeTxManager(st)
	sender := notify.NewDummySender()
	provider := payment.NewDummyProvider()
	messages := i18n.NewProvider()

	ledger := NewPointsService(st, ledgerStore{st}, logger)
	notifications := NewNotificationService(sender, messages, logger)

	return &testEnv{
		st:       st,
		sender:   sender,
		provider: provider,
		ledger:   ledger,
		requests: NewSessionRequestService(txm, st, requestStore{st}, sessionStore{st}, ledger, notifications, logger),
		sessions: NewSessionService(txm, st, sessionStore{st}, ledger, notifications, logger),
		payments: NewPaymentService(txm, st, paymentStore{st}, ledger, provider, notifications, logger),
		parties:  NewPartyService(nil, st, ledgerStore{st}, logger, 100),
	}
}

func validSendInput(studentID, teacherID int64, points int) SendSessionRequestInput {
	return SendSessionRequestInput{
		StudentID:       studentID,
		TeacherID:       teacherID,
		PointsAmount:    points,
		Subject:         "Algebra",
		Description:     "Quadratic equations",
		DurationMinutes: 60,
		RequestedTime:   time.Now().Add(24 * time.Hour),
	}
}

func (e *testEnv) balance(partyID int64) int {
	p := e.st.parties[partyID]
	if p == nil {
		return -1
	}
	return p.Points
}

func (e *testEnv) newStudent(points int) *model.Party {
	return e.st.addParty(model.PartyRoleStudent, model.PartyStatusAccepted, points, "student-token")
}

func (e *testEnv) newTeacher() *model.Party {
	return e.st.addParty(model.PartyRoleTeacher, model.PartyStatusAccepted, 0, "teacher-token")
}
