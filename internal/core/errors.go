package core

import "fmt"

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LockError represents a file locking error.
type LockError struct {
	Operation string
	Message   string
	Err       error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("lock %s: %s", e.Operation, e.Message)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// IncompleteInputError blocks save, print and export until the named item
// is filled in.
type IncompleteInputError struct {
	Section string
	Item    string
	Err     error
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("incomplete inspection: %q in section %q", e.Item, e.Section)
}

func (e *IncompleteInputError) Unwrap() error {
	return e.Err
}

// PersistenceError represents a storage failure. The in-memory form is left
// untouched.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
