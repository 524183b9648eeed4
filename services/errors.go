package services

import "errors"

var (
	// ErrQuizNotFound covers both unknown quiz ids and access codes that
	// do not resolve to an active quiz.
	ErrQuizNotFound = errors.New("quiz not found")

	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrAttemptSubmitted is returned when an already-graded attempt is
	// touched again. Students re-enter with the access code to retry.
	ErrAttemptSubmitted = errors.New("attempt already submitted")

	ErrInvalidCredentials = errors.New("invalid passphrase")
)

// ValidationError rejects malformed input before anything is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

// GenerationError reports a failed question-generation call. Nothing is
// persisted when it occurs; the teacher simply retries.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return "question generation failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "question generation failed: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }
