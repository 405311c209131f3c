package task

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError through errors.Is
	ErrValidation = errors.New("validation failed")

	// ErrNotFound matches any *NotFoundError through errors.Is
	ErrNotFound = errors.New("task not found")
)

// ValidationError reports a required field left empty
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports an id with no matching task
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
