package model

import "time"

// TimeTaken breaks elapsed wall-clock time into the pieces the result
// page renders. TotalSeconds is precomputed so history queries never
// re-derive it.
type TimeTaken struct {
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	TotalSeconds int `json:"totalSeconds"`
}

// TestResult is the immutable, persisted outcome of one submitted
// attempt. History is append-only; the unique AttemptID index makes
// recording idempotent when a submission is retried.
// swagger:model TestResult
type TestResult struct {
	BaseModel
	RegistrantID   uint      `gorm:"index" json:"-"`
	TestID         string    `gorm:"type:varchar(36);index" json:"testId"`
	AttemptID      string    `gorm:"type:varchar(36);uniqueIndex" json:"attemptId"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	Percentage     int       `gorm:"not null" json:"percentage"`
	TimeTaken      TimeTaken `gorm:"embedded;embeddedPrefix:time_" json:"timeTaken"`
	SubmittedAt    time.Time `gorm:"index" json:"submittedAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}
