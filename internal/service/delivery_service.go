package service

import (
	"context"
	"english_center_backend/internal/model"
	"english_center_backend/internal/repository"
	"english_center_backend/internal/util"
	"english_center_backend/pkg/logger"
	"english_center_backend/pkg/monitoring"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestLoader is the slice of the test repository the delivery engine
// needs. *repository.TestRepository satisfies it.
type TestLoader interface {
	FindTestWithQuestions(id string) (*model.Test, error)
	ListQuestions(testID string) ([]model.Question, error)
}

// RegistrationGate fronts the delivery engine: identity capture before
// an attempt, result recording after. *RegistrationService satisfies it.
type RegistrationGate interface {
	Register(req RegistrantReq) (*model.Registrant, error)
	RecordResult(email string, result *model.TestResult) error
}

// DeliveryService drives a candidate through a free test: it starts the
// attempt after registration, captures answers, and on submission scores
// the attempt and hands the result to the registration gate.
type DeliveryService struct {
	Tests        TestLoader
	Attempts     repository.AttemptStore
	Registration RegistrationGate
}

func NewDeliveryService(tests TestLoader, attempts repository.AttemptStore, registration RegistrationGate) *DeliveryService {
	return &DeliveryService{
		Tests:        tests,
		Attempts:     attempts,
		Registration: registration,
	}
}

// ScoreAnswers counts exact string matches between recorded answers and
// each question's correct answer. Unanswered questions count as wrong.
// Pure function of its inputs.
func ScoreAnswers(questions []model.Question, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		if ans, ok := answers[q.QuestionID]; ok && ans == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage rounds 100*score/total half-up (0.5 rounds to 1), so a
// 3-of-5 attempt is exactly 60 and boundary scores are deterministic.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// SplitTimeTaken breaks an elapsed duration into the minutes/seconds
// pair the result page shows, with the precomputed total.
func SplitTimeTaken(elapsed time.Duration) model.TimeTaken {
	if elapsed < 0 {
		elapsed = 0
	}
	total := int(elapsed.Seconds())
	return model.TimeTaken{
		Minutes:      total / 60,
		Seconds:      total % 60,
		TotalSeconds: total,
	}
}

// GetTest loads a published test with its questions for delivery. The
// payload includes correct answers; the client is trusted not to reveal
// them during the attempt.
func (s *DeliveryService) GetTest(testID string) (*model.Test, error) {
	t, err := s.Tests.FindTestWithQuestions(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	if !t.IsPublished {
		return nil, util.ErrTestNotPublished
	}
	return t, nil
}

// StartAttempt runs the registration gate and, only if it passes,
// creates the attempt. A test that fails to load or has no questions is
// a terminal load error: no attempt is created and submission is
// impossible.
func (s *DeliveryService) StartAttempt(ctx context.Context, testID string, req RegistrantReq) (*model.Attempt, *model.Test, error) {
	test, err := s.GetTest(testID)
	if err != nil {
		return nil, nil, err
	}
	if len(test.Questions) == 0 {
		return nil, nil, util.ErrTestHasNoQuestions
	}

	if _, err := s.Registration.Register(req); err != nil {
		return nil, nil, err
	}

	attempt := model.NewAttempt(testID, req.Email)
	if err := s.Attempts.Save(ctx, attempt); err != nil {
		return nil, nil, err
	}

	logger.Log.Info("free test attempt started",
		zap.String("attemptId", attempt.ID),
		zap.String("testId", testID))

	return attempt, test, nil
}

// RecordAnswer sets or replaces the candidate's answer for one question.
// Allowed any number of times while the attempt is in progress; once
// scored or submitted the attempt is immutable.
func (s *DeliveryService) RecordAnswer(ctx context.Context, attemptID, questionID, answer string) (*model.Attempt, error) {
	attempt, err := s.Attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrTestAlreadySubmitted
	}

	attempt.Answers[questionID] = answer
	if err := s.Attempts.Save(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Submit finalizes the attempt. Scoring happens exactly once: on the
// first submit the elapsed time is captured and the score computed; if
// persisting the result fails, the scored attempt is kept so the caller
// can re-submit without re-scoring until persistence is acknowledged.
// A second submit after a successful one fails with
// ErrTestAlreadySubmitted (the attempt is gone from the store).
func (s *DeliveryService) Submit(ctx context.Context, attemptID string) (*model.TestResult, error) {
	attempt, err := s.Attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Status == model.AttemptInProgress {
		questions, err := s.Tests.ListQuestions(attempt.TestID)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		score := ScoreAnswers(questions, attempt.Answers)
		total := len(questions)

		attempt.Result = &model.TestResult{
			TestID:         attempt.TestID,
			AttemptID:      attempt.ID,
			Score:          score,
			TotalQuestions: total,
			Percentage:     Percentage(score, total),
			TimeTaken:      SplitTimeTaken(now.Sub(attempt.StartedAt)),
			SubmittedAt:    now,
		}
		attempt.Status = model.AttemptScored

		if err := s.Attempts.Save(ctx, attempt); err != nil {
			return nil, err
		}
	}

	if err := s.Registration.RecordResult(attempt.Email, attempt.Result); err != nil {
		monitoring.AttemptSubmissions.WithLabelValues("persist_failed").Inc()
		logger.Log.Error("failed to persist test result, attempt kept for retry",
			zap.String("attemptId", attempt.ID),
			zap.Error(err))
		return nil, err
	}

	// The attempt is discarded once its result is recorded; a missed
	// delete only leaves it to expire with the TTL.
	if err := s.Attempts.Delete(ctx, attempt.ID); err != nil {
		logger.Log.Warn("failed to delete submitted attempt",
			zap.String("attemptId", attempt.ID),
			zap.Error(err))
	}

	monitoring.AttemptSubmissions.WithLabelValues("recorded").Inc()
	return attempt.Result, nil
}
