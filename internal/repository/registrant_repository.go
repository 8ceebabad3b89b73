package repository

import (
	"english_center_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

type RegistrantRepository struct {
	DB *gorm.DB
}

func NewRegistrantRepository(db *gorm.DB) *RegistrantRepository {
	return &RegistrantRepository{DB: db}
}

func (r *RegistrantRepository) FindByEmail(email string) (*model.Registrant, error) {
	var reg model.Registrant
	err := r.DB.Where("email = ?", email).First(&reg).Error
	return &reg, err
}

// Upsert finds the registrant by email or creates them, refreshing the
// contact details either way. History rows are never touched here.
func (r *RegistrantRepository) Upsert(reg *model.Registrant) error {
	var existing model.Registrant
	err := r.DB.Where("email = ?", reg.Email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if reg.RegisteredAt.IsZero() {
			reg.RegisteredAt = time.Now()
		}
		return r.DB.Create(reg).Error
	}
	if err != nil {
		return err
	}

	existing.FullName = reg.FullName
	existing.Phone = reg.Phone
	existing.Address = reg.Address
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*reg = existing
	return nil
}

// AppendResult records one immutable result against the registrant.
// The unique attempt_id index turns a retried submission into a no-op
// instead of a duplicate history row.
func (r *RegistrantRepository) AppendResult(registrantID uint, result *model.TestResult) error {
	result.RegistrantID = registrantID
	err := r.DB.Create(result).Error
	if err != nil && isDuplicateKey(err) {
		var existing model.TestResult
		if ferr := r.DB.Where("attempt_id = ?", result.AttemptID).First(&existing).Error; ferr == nil {
			*result = existing
			return nil
		}
	}
	return err
}

// FetchHistory returns the registrant's results ordered by submission
// time ascending. A registrant with no completed attempts gets an empty
// slice, not an error.
func (r *RegistrantRepository) FetchHistory(registrantID uint) ([]model.TestResult, error) {
	results := make([]model.TestResult, 0)
	err := r.DB.Where("registrant_id = ?", registrantID).
		Order("submitted_at asc").Find(&results).Error
	return results, err
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
