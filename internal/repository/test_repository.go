package repository

import (
	"english_center_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) CreateTest(t *model.Test) error {
	return r.DB.Create(t).Error
}

func (r *TestRepository) FindTestByID(id string) (*model.Test, error) {
	var t model.Test
	err := r.DB.Where("id = ?", id).First(&t).Error
	return &t, err
}

// FindTestWithQuestions loads a test and its questions in display order.
func (r *TestRepository) FindTestWithQuestions(id string) (*model.Test, error) {
	var t model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc, created_at asc")
	}).Where("id = ?", id).First(&t).Error
	return &t, err
}

func (r *TestRepository) ListTests(page, limit int) ([]model.Test, int64, error) {
	var ts []model.Test
	var total int64
	query := r.DB.Model(&model.Test{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&ts).Error
	return ts, total, err
}

func (r *TestRepository) UpdateTest(t *model.Test) error {
	return r.DB.Save(t).Error
}

func (r *TestRepository) DeleteTest(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Test{}).Error
	})
}

func (r *TestRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

// ListQuestions returns the test's questions in display order.
func (r *TestRepository) ListQuestions(testID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("test_id = ?", testID).
		Order("position asc, created_at asc").Find(&qs).Error
	return qs, err
}

func (r *TestRepository) FindQuestion(testID, questionID string) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("test_id = ? AND question_id = ?", testID, questionID).First(&q).Error
	return &q, err
}

func (r *TestRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *TestRepository) DeleteQuestion(testID, questionID string) (bool, error) {
	res := r.DB.Where("test_id = ? AND question_id = ?", testID, questionID).
		Delete(&model.Question{})
	return res.RowsAffected > 0, res.Error
}

func (r *TestRepository) MaxQuestionPosition(testID string) (int, error) {
	var max int
	err := r.DB.Model(&model.Question{}).Where("test_id = ?", testID).
		Select("COALESCE(MAX(position), 0)").Scan(&max).Error
	return max, err
}
