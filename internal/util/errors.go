package util

import "errors"

// ValidationError marks a user-correctable input error. It blocks the
// mutation and maps to 400, never to 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	ErrEmailRegistered        = errors.New("this email is already registered")
	ErrTestNotFound           = errors.New("test not found")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrAttemptNotFound        = errors.New("attempt not found or expired")
	ErrTestNotPublished       = errors.New("test not published or not accessible")
	ErrTestAlreadySubmitted   = errors.New("test already submitted")
	ErrTestHasNoQuestions     = errors.New("test has no questions to deliver")
	ErrDuplicateQuestionID    = errors.New("a question with this ID already exists in the test")
	ErrMissingRequiredFields  = errors.New("please fill all required fields")
	ErrUnsupportedAudioFormat = errors.New("unsupported audio format")
)
