package model

import (
	"errors"
	"strings"
)

// Validation messages, surfaced verbatim to the authoring UI.
var (
	ErrQuestionIDRequired    = errors.New("Question ID is required")
	ErrQuestionTextRequired  = errors.New("Question text is required")
	ErrCorrectAnswerRequired = errors.New("Correct answer is required")
	ErrOptionsNotUnique      = errors.New("Options must be unique")
	ErrOptionsRequired       = errors.New("At least one option is required")
	ErrCorrectAnswerNoMatch  = errors.New("Correct answer must match one of the options")
	ErrUnderlineOutOfRange   = errors.New("Underline range is out of bounds")
	ErrQuestionTypeUnknown   = errors.New("Unknown question type")
)

// Validate checks the question's structural and semantic invariants.
// Checks run in a fixed order and the first failure wins, so an invalid
// question always reports the same message. Pure: no side effects, and
// validating the same question twice yields the same result.
func (q *Question) Validate() error {
	if q.QuestionID == "" {
		return ErrQuestionIDRequired
	}
	if q.Text == "" {
		return ErrQuestionTextRequired
	}
	if q.CorrectAnswer == "" {
		return ErrCorrectAnswerRequired
	}

	// Among options with non-empty trimmed text, no duplicates.
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		text := strings.TrimSpace(opt.Text)
		if text == "" {
			continue
		}
		if seen[text] {
			return ErrOptionsNotUnique
		}
		seen[text] = true
	}

	if len(q.Options) == 0 {
		return ErrOptionsRequired
	}

	// Exact, case-sensitive, untrimmed match against option texts.
	matched := false
	for _, opt := range q.Options {
		if opt.Text == q.CorrectAnswer {
			matched = true
			break
		}
	}
	if !matched {
		return ErrCorrectAnswerNoMatch
	}

	switch q.Type {
	case QuestionPronunciation, QuestionStress,
		QuestionFillInBlank, QuestionErrorIdentification, QuestionReadingComprehension:
	default:
		return ErrQuestionTypeUnknown
	}

	if q.Type.HasUnderlines() {
		// Underline spans are inclusive rune ranges into the option text.
		for _, opt := range q.Options {
			if opt.Underline == nil {
				continue
			}
			u := opt.Underline
			if u.Start < 0 || u.Start > u.End || u.End >= len([]rune(opt.Text)) {
				return ErrUnderlineOutOfRange
			}
		}
	}

	return nil
}
