package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidCode is returned when a value is not a classifier code of a known level
	ErrInvalidCode = errors.New("invalid classifier code")

	// ErrInvalidPostalCode is returned when a postal code is not exactly 6 digits
	ErrInvalidPostalCode = errors.New("invalid postal code")

	// ErrDuplicateReduction is returned when reference data repeats a (level, abbreviation) pair
	ErrDuplicateReduction = errors.New("duplicate reduction")

	// ErrStoreNotFound is returned when no committed store exists in a directory
	ErrStoreNotFound = errors.New("address store not found")

	// ErrRebuildInProgress is returned when a rebuild is requested while another one runs
	ErrRebuildInProgress = errors.New("rebuild already in progress")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrLeadingWildcard is returned for wildcard patterns starting with '?' when not allowed
	ErrLeadingWildcard = errors.New("leading wildcard not allowed")
)

// InvalidCodeError represents a code that matches no classifier level
type InvalidCodeError struct {
	Code string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("value '%s' is not a classifier code", e.Code)
}

func (e *InvalidCodeError) Is(target error) bool {
	return target == ErrInvalidCode
}

// NewInvalidCodeError creates a new InvalidCodeError
func NewInvalidCodeError(code string) *InvalidCodeError {
	return &InvalidCodeError{Code: code}
}

// InvalidPostalCodeError represents a malformed postal code
type InvalidPostalCodeError struct {
	PostalCode string
}

func (e *InvalidPostalCodeError) Error() string {
	return fmt.Sprintf("value '%s' is not a postal code", e.PostalCode)
}

func (e *InvalidPostalCodeError) Is(target error) bool {
	return target == ErrInvalidPostalCode
}

// NewInvalidPostalCodeError creates a new InvalidPostalCodeError
func NewInvalidPostalCodeError(postalCode string) *InvalidPostalCodeError {
	return &InvalidPostalCodeError{PostalCode: postalCode}
}

// DuplicateReductionError represents reference data corruption: the same
// abbreviation listed twice for one level
type DuplicateReductionError struct {
	Level int
	Short string
}

func (e *DuplicateReductionError) Error() string {
	return fmt.Sprintf("reduction '%s' is defined more than once for level %d", e.Short, e.Level)
}

func (e *DuplicateReductionError) Is(target error) bool {
	return target == ErrDuplicateReduction
}

// NewDuplicateReductionError creates a new DuplicateReductionError
func NewDuplicateReductionError(level int, short string) *DuplicateReductionError {
	return &DuplicateReductionError{Level: level, Short: short}
}

// StoreNotFoundError represents a missing or uncommitted store directory
type StoreNotFoundError struct {
	Dir string
}

func (e *StoreNotFoundError) Error() string {
	return fmt.Sprintf("no committed address store in '%s'", e.Dir)
}

func (e *StoreNotFoundError) Is(target error) bool {
	return target == ErrStoreNotFound
}

// NewStoreNotFoundError creates a new StoreNotFoundError
func NewStoreNotFoundError(dir string) *StoreNotFoundError {
	return &StoreNotFoundError{Dir: dir}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
