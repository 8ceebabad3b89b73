package service

import (
	"english_center_backend/internal/model"
	"english_center_backend/internal/repository"
	"english_center_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// AuthoringService mutates tests and their questions on behalf of the
// admin test manager. Every mutation validates before touching storage.
type AuthoringService struct {
	Repo *repository.TestRepository
}

func NewAuthoringService(repo *repository.TestRepository) *AuthoringService {
	return &AuthoringService{Repo: repo}
}

type QuestionReq struct {
	QuestionID    string             `json:"questionId" binding:"required"`
	Type          model.QuestionType `json:"type" binding:"required"`
	Text          string             `json:"questionText"`
	Options       model.OptionList   `json:"options"`
	CorrectAnswer string             `json:"correctAnswer"`
	AudioURL      string             `json:"audioUrl"`
}

func (req *QuestionReq) toModel(testID string) *model.Question {
	return &model.Question{
		TestID:        testID,
		QuestionID:    req.QuestionID,
		Type:          req.Type,
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		AudioURL:      req.AudioURL,
	}
}

// HasDuplicateQuestionID reports whether id collides with one of the
// already loaded questions. This pre-check is advisory: it is only as
// fresh as the loaded list, so two concurrent editors can both pass it.
// The unique (test_id, question_id) index is the final authority.
func HasDuplicateQuestionID(existing []model.Question, id string) bool {
	for _, q := range existing {
		if q.QuestionID == id {
			return true
		}
	}
	return false
}

func (s *AuthoringService) AddQuestion(testID string, req QuestionReq) (*model.Question, error) {
	if _, err := s.Repo.FindTestByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	q := req.toModel(testID)
	if err := q.Validate(); err != nil {
		return nil, util.NewValidationError(err.Error())
	}

	existing, err := s.Repo.ListQuestions(testID)
	if err != nil {
		return nil, err
	}
	if HasDuplicateQuestionID(existing, q.QuestionID) {
		return nil, util.ErrDuplicateQuestionID
	}

	maxPos, err := s.Repo.MaxQuestionPosition(testID)
	if err != nil {
		return nil, err
	}
	q.Position = maxPos + 1

	if err := s.Repo.CreateQuestion(q); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent editor; same outcome
			// as the pre-check.
			return nil, util.ErrDuplicateQuestionID
		}
		return nil, err
	}
	return q, nil
}

// UpdateQuestion replaces the question in place. Position is kept, so
// edits never reorder the test.
func (s *AuthoringService) UpdateQuestion(testID, questionID string, req QuestionReq) (*model.Question, error) {
	q, err := s.Repo.FindQuestion(testID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	updated := req.toModel(testID)
	updated.QuestionID = questionID
	if err := updated.Validate(); err != nil {
		return nil, util.NewValidationError(err.Error())
	}

	q.Type = updated.Type
	q.Text = updated.Text
	q.Options = updated.Options
	q.CorrectAnswer = updated.CorrectAnswer
	q.AudioURL = updated.AudioURL

	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AuthoringService) DeleteQuestion(testID, questionID string) (bool, error) {
	return s.Repo.DeleteQuestion(testID, questionID)
}

type TestBasicInfoReq struct {
	Title          *string `json:"title"`
	ReadingPassage *string `json:"readingPassage"`
	IsPublished    *bool   `json:"isPublished"`
}

// ApplyBasicInfo merges the partial update onto the test. Only basic
// info fields; questions are never touched here.
func ApplyBasicInfo(t *model.Test, req TestBasicInfoReq) {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.ReadingPassage != nil {
		t.ReadingPassage = *req.ReadingPassage
	}
	if req.IsPublished != nil {
		t.IsPublished = *req.IsPublished
	}
}

func (s *AuthoringService) UpdateTestBasicInfo(testID string, req TestBasicInfoReq) (*model.Test, error) {
	t, err := s.Repo.FindTestByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if req.Title != nil && *req.Title == "" {
		return nil, util.NewValidationError("Test title is required")
	}

	ApplyBasicInfo(t, req)

	if err := s.Repo.UpdateTest(t); err != nil {
		return nil, err
	}
	return t, nil
}

type TestReq struct {
	Title          string `json:"title" binding:"required"`
	ReadingPassage string `json:"readingPassage"`
}

func (s *AuthoringService) CreateTest(req TestReq) (*model.Test, error) {
	t := &model.Test{
		Title:          req.Title,
		ReadingPassage: req.ReadingPassage,
	}
	if err := s.Repo.CreateTest(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *AuthoringService) ListTests(page, limit int) ([]model.Test, int64, error) {
	return s.Repo.ListTests(page, limit)
}

func (s *AuthoringService) GetTest(testID string) (*model.Test, error) {
	t, err := s.Repo.FindTestWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *AuthoringService) DeleteTest(testID string) error {
	return s.Repo.DeleteTest(testID)
}
