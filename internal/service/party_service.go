package service

import (
	"context"
	"fmt"

	"github.com/tutorlink/backend/internal/model"
	"github.com/tutorlink/backend/internal/repository/base"
	"go.uber.org/zap"
)

// PartyService handles registration and profile maintenance. Students are
// active immediately and receive the signup grant; teachers start pending
// and only become available for requests once moderation accepts them.
type PartyService struct {
	db          base.Querier
	partyRepo   PartyStore
	ledgerRepo  LedgerStore
	logger      *zap.Logger
	signupGrant int
}

func NewPartyService(db base.Querier, partyRepo PartyStore, ledgerRepo LedgerStore, logger *zap.Logger, signupGrant int) *PartyService {
	return &PartyService{
		db:          db,
		partyRepo:   partyRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
		signupGrant: signupGrant,
	}
}

type RegisterPartyInput struct {
	Name   string       `validate:"required,max=100"`
	Email  string       `validate:"required,email,max=254"`
	Locale model.Locale `validate:"omitempty,oneof=en ar"`
}

// RegisterStudent creates a student account with the signup points grant
func (s *PartyService) RegisterStudent(ctx context.Context, in RegisterPartyInput) (*model.Party, error) {
	return s.register(ctx, in, model.PartyRoleStudent, model.PartyStatusAccepted, s.signupGrant)
}

// RegisterTeacher creates a teacher account pending moderation
func (s *PartyService) RegisterTeacher(ctx context.Context, in RegisterPartyInput) (*model.Party, error) {
	return s.register(ctx, in, model.PartyRoleTeacher, model.PartyStatusPending, 0)
}

func (s *PartyService) register(ctx context.Context, in RegisterPartyInput, role model.PartyRole, status model.PartyStatus, points int) (*model.Party, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.partyRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing party: %w", err)
	}

	if existing != nil {
		return nil, ErrEmailTaken
	}

	locale := in.Locale
	if locale == "" {
		locale = model.LocaleEnglish
	}

	party := &model.Party{
		Role:   role,
		Name:   in.Name,
		Email:  in.Email,
		Locale: locale,
		Points: points,
		Status: status,
	}

	if err := s.partyRepo.Create(ctx, party); err != nil {
		return nil, err
	}

	if points > 0 {
		txn := &model.PointsTransaction{
			PartyID:      party.ID,
			Entry:        model.LedgerEntryCredit,
			Reason:       model.ReasonSignupGrant,
			Amount:       points,
			BalanceAfter: points,
		}

		if err := s.ledgerRepo.Create(ctx, s.db, txn); err != nil {
			return nil, fmt.Errorf("record signup grant: %w", err)
		}
	}

	s.logger.Info("Party registered",
		zap.Int64("party_id", party.ID),
		zap.String("role", string(role)),
		zap.String("status", string(status)),
	)

	return party, nil
}

// ApproveTeacher accepts a pending teacher, opening them up for requests
func (s *PartyService) ApproveTeacher(ctx context.Context, teacherID int64) error {
	return s.moderateTeacher(ctx, teacherID, model.PartyStatusAccepted)
}

// RejectTeacher rejects a pending teacher
func (s *PartyService) RejectTeacher(ctx context.Context, teacherID int64) error {
	return s.moderateTeacher(ctx, teacherID, model.PartyStatusRejected)
}

func (s *PartyService) moderateTeacher(ctx context.Context, teacherID int64, status model.PartyStatus) error {
	teacher, err := s.partyRepo.GetByID(ctx, teacherID)
	if err != nil {
		return fmt.Errorf("get teacher: %w", err)
	}

	if teacher == nil || !teacher.IsTeacher() {
		return ErrTeacherNotFound
	}

	if err := s.partyRepo.UpdateStatus(ctx, teacherID, status); err != nil {
		return err
	}

	s.logger.Info("Teacher moderated",
		zap.Int64("teacher_id", teacherID),
		zap.String("status", string(status)),
	)

	return nil
}

// GetByID gets a party by ID
func (s *PartyService) GetByID(ctx context.Context, partyID int64) (*model.Party, error) {
	party, err := s.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}

	if party == nil {
		return nil, ErrPartyNotFound
	}

	return party, nil
}

// GetAvailableTeachers gets all teachers open for new requests
func (s *PartyService) GetAvailableTeachers(ctx context.Context) ([]*model.Party, error) {
	return s.partyRepo.GetAvailableTeachers(ctx)
}

// UpdateDeviceToken stores the party's push token; empty clears it
func (s *PartyService) UpdateDeviceToken(ctx context.Context, partyID int64, token string) error {
	return s.partyRepo.UpdateDeviceToken(ctx, partyID, token)
}

// UpdateLocale changes the party's preferred language
func (s *PartyService) UpdateLocale(ctx context.Context, partyID int64, locale model.Locale) error {
	if locale != model.LocaleEnglish && locale != model.LocaleArabic {
		return &ValidationError{Fields: []FieldError{{Field: "locale", Error: "unsupported locale"}}}
	}

	return s.partyRepo.UpdateLocale(ctx, partyID, locale)
}
