package service

import (
	"errors"
	"fmt"

	"ubuntu-connect/internal/models"
)

var (
	// ErrNotFound means the referenced submission does not exist
	ErrNotFound = errors.New("submission not found")
	// ErrInvalidStatus means the requested status is outside the six-state set
	ErrInvalidStatus = errors.New("invalid submission status")
	// ErrInvalidInput covers malformed or missing request fields
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means the submission moved since the caller last read it
	ErrConflict = errors.New("submission was modified by another reviewer")
	// ErrNotAwardable means the submission is not in an approval-class state
	ErrNotAwardable = errors.New("submission is not approved or published")
)

// ForbiddenError carries the capability set the caller was missing so the
// response can say what would have been required.
type ForbiddenError struct {
	SubmissionType models.SubmissionType
	Required       []models.Capability
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not authorized for submission type %q", e.SubmissionType)
}
