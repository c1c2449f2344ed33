package projects

import "errors"

var (
	ErrNotFound = errors.New("project not found")
	// ErrExtraction wraps attachment text extraction failures.
	ErrExtraction = errors.New("attachment extraction failed")
	// ErrPersist wraps project persistence failures.
	ErrPersist = errors.New("project persistence failed")
	// ErrEstimation wraps estimation pipeline failures after the project is saved.
	ErrEstimation = errors.New("estimation failed")
)

// ValidationError carries a client-facing message for a rejected submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
