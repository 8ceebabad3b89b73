package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"english_center_backend/internal/model"
	"english_center_backend/internal/util"
	"english_center_backend/pkg/logger"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

func TestScoreAnswers(t *testing.T) {
	questions := []model.Question{
		{QuestionID: "q1", CorrectAnswer: "A"},
		{QuestionID: "q2", CorrectAnswer: "B"},
		{QuestionID: "q3", CorrectAnswer: "C"},
		{QuestionID: "q4", CorrectAnswer: "D"},
		{QuestionID: "q5", CorrectAnswer: "A"},
	}

	tests := []struct {
		name    string
		answers map[string]string
		want    int
	}{
		{
			name:    "three of five correct",
			answers: map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "A", "q5": "B"},
			want:    3,
		},
		{
			name:    "all correct",
			answers: map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "D", "q5": "A"},
			want:    5,
		},
		{
			name:    "unanswered questions count as wrong",
			answers: map[string]string{"q1": "A"},
			want:    1,
		},
		{
			name:    "no answers at all",
			answers: map[string]string{},
			want:    0,
		},
		{
			name:    "comparison is exact string equality",
			answers: map[string]string{"q1": "a", "q2": " B", "q3": "C"},
			want:    1,
		},
		{
			name:    "answers for unknown questions are ignored",
			answers: map[string]string{"q9": "A", "q1": "A"},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreAnswers(questions, tt.answers); got != tt.want {
				t.Errorf("ScoreAnswers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name         string
		score, total int
		want         int
	}{
		{"three of five is sixty", 3, 5, 60},
		{"zero score", 0, 5, 0},
		{"full score", 5, 5, 100},
		{"one of three rounds down", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"half rounds up", 1, 8, 13},
		{"zero total yields zero", 3, 0, 0},
		{"negative total yields zero", 3, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.score, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
			}
		})
	}
}

func TestSplitTimeTaken(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    model.TimeTaken
	}{
		{"zero", 0, model.TimeTaken{Minutes: 0, Seconds: 0, TotalSeconds: 0}},
		{"under a minute", 45 * time.Second, model.TimeTaken{Minutes: 0, Seconds: 45, TotalSeconds: 45}},
		{"exactly a minute", time.Minute, model.TimeTaken{Minutes: 1, Seconds: 0, TotalSeconds: 60}},
		{"minutes and seconds", 5*time.Minute + 30*time.Second, model.TimeTaken{Minutes: 5, Seconds: 30, TotalSeconds: 330}},
		{"sub-second truncated", 1500 * time.Millisecond, model.TimeTaken{Minutes: 0, Seconds: 1, TotalSeconds: 1}},
		{"negative clamped to zero", -3 * time.Second, model.TimeTaken{Minutes: 0, Seconds: 0, TotalSeconds: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitTimeTaken(tt.elapsed); got != tt.want {
				t.Errorf("SplitTimeTaken(%v) = %+v, want %+v", tt.elapsed, got, tt.want)
			}
		})
	}
}

// memAttemptStore is a map-backed stand-in for the Redis store.
type memAttemptStore struct {
	attempts map[string]*model.Attempt
	saveErr  error
}

func newMemAttemptStore() *memAttemptStore {
	return &memAttemptStore{attempts: make(map[string]*model.Attempt)}
}

func (s *memAttemptStore) Save(_ context.Context, attempt *model.Attempt) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *attempt
	s.attempts[attempt.ID] = &cp
	return nil
}

func (s *memAttemptStore) Get(_ context.Context, attemptID string) (*model.Attempt, error) {
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, util.ErrAttemptNotFound
	}
	cp := *attempt
	return &cp, nil
}

func (s *memAttemptStore) Delete(_ context.Context, attemptID string) error {
	delete(s.attempts, attemptID)
	return nil
}

type stubTestLoader struct {
	test *model.Test
	err  error
}

func (l *stubTestLoader) FindTestWithQuestions(id string) (*model.Test, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.test, nil
}

func (l *stubTestLoader) ListQuestions(testID string) ([]model.Question, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.test.Questions, nil
}

// stubGate records registrations and results, failing on demand.
type stubGate struct {
	registerErr error
	recordErr   error
	registered  []RegistrantReq
	recorded    []*model.TestResult
}

func (g *stubGate) Register(req RegistrantReq) (*model.Registrant, error) {
	if g.registerErr != nil {
		return nil, g.registerErr
	}
	g.registered = append(g.registered, req)
	return &model.Registrant{FullName: req.FullName, Email: req.Email, Phone: req.Phone}, nil
}

func (g *stubGate) RecordResult(email string, result *model.TestResult) error {
	if g.recordErr != nil {
		return g.recordErr
	}
	g.recorded = append(g.recorded, result)
	return nil
}

func deliveryFixture() (*DeliveryService, *memAttemptStore, *stubGate) {
	test := &model.Test{
		Title:       "English Proficiency Free Test",
		IsPublished: true,
		Questions: []model.Question{
			{QuestionID: "q1", CorrectAnswer: "A"},
			{QuestionID: "q2", CorrectAnswer: "B"},
			{QuestionID: "q3", CorrectAnswer: "C"},
			{QuestionID: "q4", CorrectAnswer: "D"},
			{QuestionID: "q5", CorrectAnswer: "A"},
		},
	}
	test.ID = "test-1"
	store := newMemAttemptStore()
	gate := &stubGate{}
	return NewDeliveryService(&stubTestLoader{test: test}, store, gate), store, gate
}

func validReq() RegistrantReq {
	return RegistrantReq{FullName: "Nguyen Van A", Email: "a@example.com", Phone: "0901234567"}
}

func TestStartAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an in-progress attempt after registration", func(t *testing.T) {
		svc, store, gate := deliveryFixture()

		attempt, test, err := svc.StartAttempt(ctx, "test-1", validReq())
		if err != nil {
			t.Fatalf("StartAttempt() error = %v", err)
		}
		if attempt.Status != model.AttemptInProgress {
			t.Errorf("attempt status = %q, want %q", attempt.Status, model.AttemptInProgress)
		}
		if test.Title != "English Proficiency Free Test" {
			t.Errorf("unexpected test returned: %q", test.Title)
		}
		if len(gate.registered) != 1 {
			t.Errorf("registered %d times, want 1", len(gate.registered))
		}
		if _, ok := store.attempts[attempt.ID]; !ok {
			t.Error("attempt was not saved to the store")
		}
	})

	t.Run("failed registration creates no attempt", func(t *testing.T) {
		svc, store, gate := deliveryFixture()
		gate.registerErr = util.NewValidationError(util.ErrMissingRequiredFields.Error())

		_, _, err := svc.StartAttempt(ctx, "test-1", RegistrantReq{Email: "a@example.com"})
		if !util.IsValidationError(err) {
			t.Fatalf("StartAttempt() error = %v, want validation error", err)
		}
		if len(store.attempts) != 0 {
			t.Errorf("store holds %d attempts, want 0", len(store.attempts))
		}
	})

	t.Run("test that fails to load is terminal", func(t *testing.T) {
		svc, store, gate := deliveryFixture()
		svc.Tests = &stubTestLoader{err: errors.New("connection refused")}

		_, _, err := svc.StartAttempt(ctx, "test-1", validReq())
		if err == nil {
			t.Fatal("StartAttempt() error = nil, want load error")
		}
		if len(gate.registered) != 0 {
			t.Error("registration ran despite load failure")
		}
		if len(store.attempts) != 0 {
			t.Error("attempt created despite load failure")
		}
	})

	t.Run("test with no questions is terminal", func(t *testing.T) {
		svc, store, _ := deliveryFixture()
		empty := &model.Test{Title: "Empty", IsPublished: true}
		empty.ID = "test-2"
		svc.Tests = &stubTestLoader{test: empty}

		_, _, err := svc.StartAttempt(ctx, "test-2", validReq())
		if !errors.Is(err, util.ErrTestHasNoQuestions) {
			t.Fatalf("StartAttempt() error = %v, want %v", err, util.ErrTestHasNoQuestions)
		}
		if len(store.attempts) != 0 {
			t.Error("attempt created for a test with no questions")
		}
	})

	t.Run("unpublished test is not deliverable", func(t *testing.T) {
		svc, _, _ := deliveryFixture()
		draft := &model.Test{Title: "Draft", IsPublished: false}
		draft.ID = "test-3"
		svc.Tests = &stubTestLoader{test: draft}

		_, _, err := svc.StartAttempt(ctx, "test-3", validReq())
		if !errors.Is(err, util.ErrTestNotPublished) {
			t.Fatalf("StartAttempt() error = %v, want %v", err, util.ErrTestNotPublished)
		}
	})
}

func TestRecordAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("answers can be set and replaced while in progress", func(t *testing.T) {
		svc, _, _ := deliveryFixture()
		attempt, _, err := svc.StartAttempt(ctx, "test-1", validReq())
		if err != nil {
			t.Fatalf("StartAttempt() error = %v", err)
		}

		if _, err := svc.RecordAnswer(ctx, attempt.ID, "q1", "A"); err != nil {
			t.Fatalf("RecordAnswer() error = %v", err)
		}
		updated, err := svc.RecordAnswer(ctx, attempt.ID, "q1", "B")
		if err != nil {
			t.Fatalf("RecordAnswer() error = %v", err)
		}
		if got := updated.Answers["q1"]; got != "B" {
			t.Errorf("answer q1 = %q, want %q (replacement must win)", got, "B")
		}
	})

	t.Run("unknown attempt", func(t *testing.T) {
		svc, _, _ := deliveryFixture()
		_, err := svc.RecordAnswer(ctx, "nope", "q1", "A")
		if !errors.Is(err, util.ErrAttemptNotFound) {
			t.Fatalf("RecordAnswer() error = %v, want %v", err, util.ErrAttemptNotFound)
		}
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	start := func(t *testing.T, svc *DeliveryService) *model.Attempt {
		t.Helper()
		attempt, _, err := svc.StartAttempt(ctx, "test-1", validReq())
		if err != nil {
			t.Fatalf("StartAttempt() error = %v", err)
		}
		return attempt
	}

	answer := func(t *testing.T, svc *DeliveryService, id string, answers map[string]string) {
		t.Helper()
		for q, a := range answers {
			if _, err := svc.RecordAnswer(ctx, id, q, a); err != nil {
				t.Fatalf("RecordAnswer(%s) error = %v", q, err)
			}
		}
	}

	t.Run("scores, records and deletes the attempt", func(t *testing.T) {
		svc, store, gate := deliveryFixture()
		attempt := start(t, svc)
		answer(t, svc, attempt.ID, map[string]string{"q1": "A", "q2": "B", "q3": "C", "q4": "A", "q5": "B"})

		result, err := svc.Submit(ctx, attempt.ID)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if result.Score != 3 || result.TotalQuestions != 5 || result.Percentage != 60 {
			t.Errorf("result = %d/%d (%d%%), want 3/5 (60%%)",
				result.Score, result.TotalQuestions, result.Percentage)
		}
		if result.AttemptID != attempt.ID {
			t.Errorf("result attemptId = %q, want %q", result.AttemptID, attempt.ID)
		}
		if len(gate.recorded) != 1 {
			t.Fatalf("recorded %d results, want 1", len(gate.recorded))
		}
		if _, ok := store.attempts[attempt.ID]; ok {
			t.Error("attempt still in store after successful submit")
		}
	})

	t.Run("second submit after success fails", func(t *testing.T) {
		svc, _, _ := deliveryFixture()
		attempt := start(t, svc)
		if _, err := svc.Submit(ctx, attempt.ID); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		_, err := svc.Submit(ctx, attempt.ID)
		if !errors.Is(err, util.ErrAttemptNotFound) {
			t.Fatalf("second Submit() error = %v, want %v", err, util.ErrAttemptNotFound)
		}
	})

	t.Run("failed persistence keeps the scored attempt for retry", func(t *testing.T) {
		svc, store, gate := deliveryFixture()
		attempt := start(t, svc)
		answer(t, svc, attempt.ID, map[string]string{"q1": "A", "q2": "B", "q3": "C"})

		gate.recordErr = errors.New("mysql has gone away")
		if _, err := svc.Submit(ctx, attempt.ID); err == nil {
			t.Fatal("Submit() error = nil, want persistence failure")
		}

		kept, ok := store.attempts[attempt.ID]
		if !ok {
			t.Fatal("attempt discarded after failed persistence")
		}
		if kept.Status != model.AttemptScored {
			t.Errorf("attempt status = %q, want %q", kept.Status, model.AttemptScored)
		}
		firstScored := kept.Result.SubmittedAt

		// Retry succeeds and must reuse the cached result, not re-score.
		gate.recordErr = nil
		result, err := svc.Submit(ctx, attempt.ID)
		if err != nil {
			t.Fatalf("retry Submit() error = %v", err)
		}
		if result.Score != 3 || result.Percentage != 60 {
			t.Errorf("retry result = %d (%d%%), want 3 (60%%)", result.Score, result.Percentage)
		}
		if !result.SubmittedAt.Equal(firstScored) {
			t.Error("retry re-scored the attempt instead of reusing the cached result")
		}
		if _, ok := store.attempts[attempt.ID]; ok {
			t.Error("attempt still in store after acknowledged persistence")
		}
	})

	t.Run("answers after scoring are rejected", func(t *testing.T) {
		svc, _, gate := deliveryFixture()
		attempt := start(t, svc)

		gate.recordErr = errors.New("mysql has gone away")
		if _, err := svc.Submit(ctx, attempt.ID); err == nil {
			t.Fatal("Submit() error = nil, want persistence failure")
		}

		_, err := svc.RecordAnswer(ctx, attempt.ID, "q1", "A")
		if !errors.Is(err, util.ErrTestAlreadySubmitted) {
			t.Fatalf("RecordAnswer() error = %v, want %v", err, util.ErrTestAlreadySubmitted)
		}
	})
}
