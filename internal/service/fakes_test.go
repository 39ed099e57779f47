package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
)

// fakeStore is an in-memory stand-in for the whole repository layer. It
// mirrors the conditional-update semantics of the SQL repositories so the
// race and idempotency properties can be exercised without a database.
type fakeStore struct {
	mu       sync.Mutex
	parties  map[int64]*model.Party
	requests map[int64]*model.SessionRequest
	sessions map[int64]*model.Session
	payments map[int64]*model.Payment
	ledger   []*model.PointsTransaction
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		parties:  make(map[int64]*model.Party),
		requests: make(map[int64]*model.SessionRequest),
		sessions: make(map[int64]*model.Session),
		payments: make(map[int64]*model.Payment),
	}
}

func (st *fakeStore) id() int64 {
	st.nextID++
	return st.nextID
}

func (st *fakeStore) addParty(role model.PartyRole, status model.PartyStatus, points int, token string) *model.Party {
	st.mu.Lock()
	defer st.mu.Unlock()

	p := &model.Party{
		ID:          st.id(),
		Role:        role,
		Name:        "test party",
		Email:       "",
		Locale:      model.LocaleEnglish,
		DeviceToken: token,
		Points:      points,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	st.parties[p.ID] = p
	return copyParty(p)
}

func (st *fakeStore) addSession(s *model.Session) *model.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s.ID = st.id()
	st.sessions[s.ID] = s
	copied := *s
	return &copied
}

// ---- snapshot / restore (transaction rollback) ----

type snapshot struct {
	parties  map[int64]*model.Party
	requests map[int64]*model.SessionRequest
	sessions map[int64]*model.Session
	payments map[int64]*model.Payment
	ledger   []*model.PointsTransaction
	nextID   int64
}

func (st *fakeStore) snapshot() snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	snap := snapshot{
		parties:  make(map[int64]*model.Party, len(st.parties)),
		requests: make(map[int64]*model.SessionRequest, len(st.requests)),
		sessions: make(map[int64]*model.Session, len(st.sessions)),
		payments: make(map[int64]*model.Payment, len(st.payments)),
		ledger:   append([]*model.PointsTransaction(nil), st.ledger...),
		nextID:   st.nextID,
	}
	for id, p := range st.parties {
		snap.parties[id] = copyParty(p)
	}
	for id, r := range st.requests {
		copied := *r
		snap.requests[id] = &copied
	}
	for id, s := range st.sessions {
		copied := *s
		snap.sessions[id] = &copied
	}
	for id, p := range st.payments {
		copied := *p
		snap.payments[id] = &copied
	}
	return snap
}

func (st *fakeStore) restore(snap snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.parties = snap.parties
	st.requests = snap.requests
	st.sessions = snap.sessions
	st.payments = snap.payments
	st.ledger = snap.ledger
	st.nextID = snap.nextID
}

// fakeTxManager serializes transactions over the fake store and restores the
// pre-transaction state when the function fails, like a rollback would.
type fakeTxManager struct {
	txMu sync.Mutex
	st   *fakeStore
}

func newFakeTxManager(st *fakeStore) *fakeTxManager {
	return &fakeTxManager{st: st}
}

func (m *fakeTxManager) WithinTx(_ context.Context, fn func(q base.Querier) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.st.snapshot()
	if err := fn(nil); err != nil {
		m.st.restore(snap)
		return err
	}
	return nil
}

func copyParty(p *model.Party) *model.Party {
	copied := *p
	return &copied
}

// ---- PartyStore ----

func (st *fakeStore) Create(_ context.Context, party *model.Party) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	party.ID = st.id()
	party.CreatedAt = time.Now()
	party.UpdatedAt = party.CreatedAt
	st.parties[party.ID] = copyParty(party)
	return nil
}

func (st *fakeStore) GetByID(_ context.Context, id int64) (*model.Party, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok {
		return nil, nil
	}
	return copyParty(p), nil
}

func (st *fakeStore) GetByEmail(_ context.Context, email string) (*model.Party, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, p := range st.parties {
		if p.Email != "" && p.Email == email {
			return copyParty(p), nil
		}
	}
	return nil, nil
}

func (st *fakeStore) GetPoints(_ context.Context, id int64) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	return p.Points, nil
}

func (st *fakeStore) Debit(_ context.Context, _ base.Querier, id int64, amount int) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok || p.Points < amount {
		return 0, pgx.ErrNoRows
	}
	p.Points -= amount
	return p.Points, nil
}

func (st *fakeStore) Credit(_ context.Context, _ base.Querier, id int64, amount int) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	p.Points += amount
	return p.Points, nil
}

func (st *fakeStore) UpdateStatus(_ context.Context, id int64, status model.PartyStatus) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	return nil
}

func (st *fakeStore) UpdateDeviceToken(_ context.Context, id int64, token string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.DeviceToken = token
	return nil
}

func (st *fakeStore) UpdateLocale(_ context.Context, id int64, locale model.Locale) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	p, ok := st.parties[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Locale = locale
	return nil
}

func (st *fakeStore) GetAvailableTeachers(_ context.Context) ([]*model.Party, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.Party
	for _, p := range st.parties {
		if p.IsAvailable() {
			out = append(out, copyParty(p))
		}
	}
	return out, nil
}

// ---- LedgerStore ----

func (st *fakeStore) CreateLedgerEntry(_ context.Context, _ base.Querier, txn *model.PointsTransaction) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	txn.ID = st.id()
	txn.CreatedAt = time.Now()
	copied := *txn
	st.ledger = append(st.ledger, &copied)
	return nil
}

func (st *fakeStore) GetByPartyID(_ context.Context, partyID int64) ([]*model.PointsTransaction, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.PointsTransaction
	for _, txn := range st.ledger {
		if txn.PartyID == partyID {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ledgerStore adapts the combined fake to the LedgerStore interface; its
// Create would otherwise collide with PartyStore's.
type ledgerStore struct {
	st *fakeStore
}

func (l ledgerStore) Create(ctx context.Context, q base.Querier, txn *model.PointsTransaction) error {
	return l.st.CreateLedgerEntry(ctx, q, txn)
}

func (l ledgerStore) GetByPartyID(ctx context.Context, partyID int64) ([]*model.PointsTransaction, error) {
	return l.st.GetByPartyID(ctx, partyID)
}

// ---- SessionRequestStore ----

type requestStore struct {
	st *fakeStore
}

func (r requestStore) Create(_ context.Context, _ base.Querier, req *model.SessionRequest) error {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	req.ID = st.id()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	copied := *req
	st.requests[req.ID] = &copied
	return nil
}

func (r requestStore) GetByID(_ context.Context, id int64) (*model.SessionRequest, error) {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	req, ok := st.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (r requestStore) MarkAccepted(_ context.Context, _ base.Querier, id, sessionID int64, at time.Time) (bool, error) {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	req, ok := st.requests[id]
	if !ok || req.Status != model.RequestStatusPending {
		return false, nil
	}
	req.Status = model.RequestStatusAccepted
	req.SessionID = &sessionID
	req.AcceptedAt = &at
	return true, nil
}

func (r requestStore) MarkRejected(_ context.Context, _ base.Querier, id int64, reason string, at time.Time) (bool, error) {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	req, ok := st.requests[id]
	if !ok || req.Status != model.RequestStatusPending {
		return false, nil
	}
	req.Status = model.RequestStatusRejected
	req.RejectionReason = reason
	req.RejectedAt = &at
	return true, nil
}

func (r requestStore) GetPendingByTeacherID(_ context.Context, teacherID int64) ([]*model.SessionRequest, error) {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.SessionRequest
	for _, req := range st.requests {
		if req.TeacherID == teacherID && req.Status == model.RequestStatusPending {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r requestStore) GetByStudentID(_ context.Context, studentID int64) ([]*model.SessionRequest, error) {
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.SessionRequest
	for _, req := range st.requests {
		if req.StudentID == studentID {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ---- SessionStore ----

type sessionStore struct {
	st *fakeStore
}

func (s sessionStore) Create(_ context.Context, _ base.Querier, session *model.Session) error {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	session.ID = st.id()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	copied := *session
	st.sessions[session.ID] = &copied
	return nil
}

func (s sessionStore) GetByID(_ context.Context, id int64) (*model.Session, error) {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s sessionStore) MarkStarted(_ context.Context, id int64, at time.Time) (bool, error) {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok || session.Status != model.SessionStatusScheduled {
		return false, nil
	}
	session.Status = model.SessionStatusInProgress
	session.ActualStartTime = &at
	return true, nil
}

func (s sessionStore) MarkCompleted(_ context.Context, id int64, at time.Time, actualDuration *int, teacherNotes, studentNotes string, studentRating, teacherRating *int) (bool, error) {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok || session.IsPointsTransferred || session.Status == model.SessionStatusCancelled {
		return false, nil
	}
	session.Status = model.SessionStatusCompleted
	session.ActualEndTime = &at
	session.ActualDuration = actualDuration
	session.TeacherNotes = teacherNotes
	session.StudentNotes = studentNotes
	session.StudentRating = studentRating
	session.TeacherRating = teacherRating
	session.IsPointsTransferred = true
	session.PointsTransferredAt = &at
	return true, nil
}

func (s sessionStore) MarkCancelled(_ context.Context, _ base.Querier, id int64) (bool, error) {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok || session.Status != model.SessionStatusScheduled {
		return false, nil
	}
	session.Status = model.SessionStatusCancelled
	return true, nil
}

func (s sessionStore) GetByTeacherID(_ context.Context, teacherID int64) ([]*model.Session, error) {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.Session
	for _, session := range st.sessions {
		if session.TeacherID == teacherID {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s sessionStore) GetByStudentID(_ context.Context, studentID int64) ([]*model.Session, error) {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.Session
	for _, session := range st.sessions {
		if session.StudentID == studentID {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ---- PaymentStore ----

type paymentStore struct {
	st *fakeStore
}

func (p paymentStore) Create(_ context.Context, payment *model.Payment) error {
	st := p.st
	st.mu.Lock()
	defer st.mu.Unlock()

	payment.ID = st.id()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	copied := *payment
	st.payments[payment.ID] = &copied
	return nil
}

func (p paymentStore) GetByID(_ context.Context, id int64) (*model.Payment, error) {
	st := p.st
	st.mu.Lock()
	defer st.mu.Unlock()

	payment, ok := st.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (p paymentStore) GetPending(_ context.Context) ([]*model.Payment, error) {
	st := p.st
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*model.Payment
	for _, payment := range st.payments {
		if payment.Status == model.PaymentStatusPending {
			copied := *payment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (p paymentStore) MarkCompleted(_ context.Context, _ base.Querier, id int64, at time.Time) (bool, error) {
	st := p.st
	st.mu.Lock()
	defer st.mu.Unlock()

	payment, ok := st.payments[id]
	if !ok || payment.Status != model.PaymentStatusPending {
		return false, nil
	}
	payment.Status = model.PaymentStatusCompleted
	payment.CompletedAt = &at
	return true, nil
}

func (p paymentStore) MarkFailed(_ context.Context, id int64) (bool, error) {
	st := p.st
	st.mu.Lock()
	defer st.mu.Unlock()

	payment, ok := st.payments[id]
	if !ok || payment.Status != model.PaymentStatusPending {
		return false, nil
	}
	payment.Status = model.PaymentStatusFailed
	return true, nil
}
