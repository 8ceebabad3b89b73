package service

import (
	"errors"
	"testing"

	"english_center_backend/internal/model"
	"english_center_backend/internal/util"

	"gorm.io/gorm"
)

func TestValidateRegistrant(t *testing.T) {
	tests := []struct {
		name    string
		req     RegistrantReq
		wantErr error
	}{
		{
			name:    "all required fields present",
			req:     RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"},
			wantErr: nil,
		},
		{
			name:    "address is optional",
			req:     RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567", Address: ""},
			wantErr: nil,
		},
		{
			name:    "missing full name",
			req:     RegistrantReq{Email: "a@example.com", Phone: "0901234567"},
			wantErr: util.ErrMissingRequiredFields,
		},
		{
			name:    "missing email",
			req:     RegistrantReq{FullName: "Nguyen Van A", Phone: "0901234567"},
			wantErr: util.ErrMissingRequiredFields,
		},
		{
			name:    "missing phone",
			req:     RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com"},
			wantErr: util.ErrMissingRequiredFields,
		},
		{
			name:    "everything missing",
			req:     RegistrantReq{},
			wantErr: util.ErrMissingRequiredFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRegistrant(tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRegistrant() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// memRegistrantStore is a map-backed stand-in for the MySQL repository.
type memRegistrantStore struct {
	byEmail map[string]*model.Registrant
	results map[uint][]model.TestResult
	nextID  uint
}

func newMemRegistrantStore() *memRegistrantStore {
	return &memRegistrantStore{
		byEmail: make(map[string]*model.Registrant),
		results: make(map[uint][]model.TestResult),
		nextID:  1,
	}
}

func (s *memRegistrantStore) FindByEmail(email string) (*model.Registrant, error) {
	reg, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reg, nil
}

func (s *memRegistrantStore) Upsert(reg *model.Registrant) error {
	if existing, ok := s.byEmail[reg.Email]; ok {
		existing.FullName = reg.FullName
		existing.Phone = reg.Phone
		existing.Address = reg.Address
		*reg = *existing
		return nil
	}
	reg.ID = s.nextID
	s.nextID++
	s.byEmail[reg.Email] = reg
	return nil
}

func (s *memRegistrantStore) AppendResult(registrantID uint, result *model.TestResult) error {
	for _, r := range s.results[registrantID] {
		if r.AttemptID == result.AttemptID {
			*result = r
			return nil
		}
	}
	result.RegistrantID = registrantID
	s.results[registrantID] = append(s.results[registrantID], *result)
	return nil
}

func (s *memRegistrantStore) FetchHistory(registrantID uint) ([]model.TestResult, error) {
	history := s.results[registrantID]
	if history == nil {
		history = []model.TestResult{}
	}
	return history, nil
}

func TestRegister(t *testing.T) {
	t.Run("valid registrant is stored", func(t *testing.T) {
		svc := NewRegistrationService(newMemRegistrantStore())
		reg, err := svc.Register(RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if reg.ID == 0 {
			t.Error("registrant was not assigned an id")
		}
	})

	t.Run("re-registering the same email refreshes contact details", func(t *testing.T) {
		store := newMemRegistrantStore()
		svc := NewRegistrationService(store)

		first, err := svc.Register(RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		second, err := svc.Register(RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0912345678"})
		if err != nil {
			t.Fatalf("second Register() error = %v", err)
		}
		if second.ID != first.ID {
			t.Errorf("second registration created a new registrant: ids %d and %d", first.ID, second.ID)
		}
		if store.byEmail["a@example.com"].Phone != "0912345678" {
			t.Error("phone was not refreshed on re-registration")
		}
	})

	t.Run("incomplete form is a validation error", func(t *testing.T) {
		svc := NewRegistrationService(newMemRegistrantStore())
		_, err := svc.Register(RegistrantReq{Email: "a@example.com"})
		if !util.IsValidationError(err) {
			t.Fatalf("Register() error = %v, want validation error", err)
		}
		if err.Error() != "please fill all required fields" {
			t.Errorf("message = %q, want %q", err.Error(), "please fill all required fields")
		}
	})
}

func TestRecordResultAndFetchHistory(t *testing.T) {
	store := newMemRegistrantStore()
	svc := NewRegistrationService(store)

	if _, err := svc.Register(RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result := &model.TestResult{
		TestID:         "test-1",
		AttemptID:      "attempt-1",
		Score:          3,
		TotalQuestions: 5,
		Percentage:     60,
	}
	if err := svc.RecordResult("a@example.com", result); err != nil {
		t.Fatalf("RecordResult() error = %v", err)
	}

	t.Run("history lists the recorded result", func(t *testing.T) {
		history, err := svc.FetchHistory("a@example.com")
		if err != nil {
			t.Fatalf("FetchHistory() error = %v", err)
		}
		if history.Registrant == nil || history.Registrant.Email != "a@example.com" {
			t.Errorf("history registrant = %+v", history.Registrant)
		}
		if len(history.TestHistory) != 1 || history.TestHistory[0].AttemptID != "attempt-1" {
			t.Errorf("history = %+v, want the single recorded result", history.TestHistory)
		}
	})

	t.Run("recording the same attempt twice keeps one entry", func(t *testing.T) {
		retry := &model.TestResult{TestID: "test-1", AttemptID: "attempt-1", Score: 3, TotalQuestions: 5, Percentage: 60}
		if err := svc.RecordResult("a@example.com", retry); err != nil {
			t.Fatalf("retried RecordResult() error = %v", err)
		}
		history, err := svc.FetchHistory("a@example.com")
		if err != nil {
			t.Fatalf("FetchHistory() error = %v", err)
		}
		if len(history.TestHistory) != 1 {
			t.Errorf("history holds %d results, want 1", len(history.TestHistory))
		}
	})

	t.Run("recording against an unknown email fails", func(t *testing.T) {
		err := svc.RecordResult("nobody@example.com", result)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Fatalf("RecordResult() error = %v, want %v", err, gorm.ErrRecordNotFound)
		}
	})

	t.Run("unknown email yields empty history, not an error", func(t *testing.T) {
		history, err := svc.FetchHistory("nobody@example.com")
		if err != nil {
			t.Fatalf("FetchHistory() error = %v", err)
		}
		if history.Registrant != nil {
			t.Errorf("registrant = %+v, want nil", history.Registrant)
		}
		if history.TestHistory == nil || len(history.TestHistory) != 0 {
			t.Errorf("history = %#v, want empty non-nil slice", history.TestHistory)
		}
	})
}
