package model

import "time"

type AttemptStatus string

const (
	// AttemptInProgress: answers may still be selected and changed.
	AttemptInProgress AttemptStatus = "in_progress"
	// AttemptScored: score is final but persistence has not been
	// acknowledged yet; re-submission retries without re-scoring.
	AttemptScored AttemptStatus = "scored"
)

// Attempt is one candidate's pass through a test. It lives only in the
// attempt store (Redis, with a TTL) while the candidate works; once the
// derived TestResult is persisted the attempt is deleted. It is never
// written to MySQL.
type Attempt struct {
	ID        string            `json:"id"`
	TestID    string            `json:"testId"`
	Email     string            `json:"email"`
	Answers   map[string]string `json:"answers"`
	StartedAt time.Time         `json:"startedAt"`
	Status    AttemptStatus     `json:"status"`
	// Result caches the scored outcome between a failed persistence
	// and the retry.
	Result *TestResult `json:"result,omitempty"`
}

func NewAttempt(testID, email string) *Attempt {
	return &Attempt{
		ID:        GenerateUUID(),
		TestID:    testID,
		Email:     email,
		Answers:   make(map[string]string),
		StartedAt: time.Now(),
		Status:    AttemptInProgress,
	}
}
