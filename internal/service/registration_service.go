package service

import (
	"english_center_backend/internal/model"
	"english_center_backend/internal/repository"
	"english_center_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// RegistrantStore is the persistence surface RegistrationService
// requires. *repository.RegistrantRepository satisfies it.
type RegistrantStore interface {
	FindByEmail(email string) (*model.Registrant, error)
	Upsert(reg *model.Registrant) error
	AppendResult(registrantID uint, result *model.TestResult) error
	FetchHistory(registrantID uint) ([]model.TestResult, error)
}

var _ RegistrantStore = (*repository.RegistrantRepository)(nil)

// RegistrationService is the gate in front of the free test and the
// recorder behind it: it captures candidate identity before an attempt
// starts and owns the append-only result history afterwards.
type RegistrationService struct {
	Store RegistrantStore
}

func NewRegistrationService(store RegistrantStore) *RegistrationService {
	return &RegistrationService{Store: store}
}

type RegistrantReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ValidateRegistrant enforces the gate: fullName, email and phone must
// all be present before any attempt may start.
func ValidateRegistrant(req RegistrantReq) error {
	if req.FullName == "" || req.Email == "" || req.Phone == "" {
		return util.ErrMissingRequiredFields
	}
	return nil
}

// Register validates and upserts the registrant. No attempt is created
// here; the delivery engine does that only after Register succeeds.
func (s *RegistrationService) Register(req RegistrantReq) (*model.Registrant, error) {
	if err := ValidateRegistrant(req); err != nil {
		return nil, util.NewValidationError(err.Error())
	}

	reg := &model.Registrant{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if err := s.Store.Upsert(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// RecordResult appends one immutable result to the registrant's history.
func (s *RegistrationService) RecordResult(email string, result *model.TestResult) error {
	reg, err := s.Store.FindByEmail(email)
	if err != nil {
		return err
	}
	return s.Store.AppendResult(reg.ID, result)
}

type UserTestHistory struct {
	Registrant  *model.Registrant  `json:"registrant"`
	TestHistory []model.TestResult `json:"testHistory"`
}

// FetchHistory returns the registrant's results ordered by submittedAt
// ascending. An email that was never registered yields an empty history,
// not an error.
func (s *RegistrationService) FetchHistory(email string) (*UserTestHistory, error) {
	reg, err := s.Store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &UserTestHistory{TestHistory: []model.TestResult{}}, nil
		}
		return nil, err
	}

	history, err := s.Store.FetchHistory(reg.ID)
	if err != nil {
		return nil, err
	}
	return &UserTestHistory{Registrant: reg, TestHistory: history}, nil
}
