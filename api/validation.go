// Package api provides validation utilities for API request handling.
package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iEmiya/ruaddress/internal/kladr"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateCode checks that code is a 13, 15 or 17 digit classifier code.
// Whether the code exists is not checked.
func ValidateCode(code string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if code == "" {
		result.AddError("code", "Code is required")
		return result
	}
	if strings.TrimSpace(code) != code {
		result.AddError("code", "Code cannot have leading or trailing whitespace")
		return result
	}
	if !isDigits(code) {
		result.AddError("code", "Code must contain digits only")
		return result
	}
	switch len(code) {
	case 13, kladr.CodeLength, 17:
	default:
		result.AddError("code", fmt.Sprintf("Code must have 13, 15 or 17 digits, got %d", len(code)))
	}
	return result
}

// ValidatePostalCode checks that index is a six digit postal code.
func ValidatePostalCode(index string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if !kladr.ValidPostalCode(index) {
		result.AddError("index", "Postal code must have exactly 6 digits")
	}
	return result
}

// ValidateLevel parses a hierarchy level between 1 and 5.
func ValidateLevel(raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	level, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("level", "Level must be a number")
		return 0, result
	}
	if level < kladr.MinLevel || level > kladr.MaxLevel {
		result.AddError("level", fmt.Sprintf("Level must be between %d and %d", kladr.MinLevel, kladr.MaxLevel))
		return 0, result
	}
	return level, result
}

// ValidateLimit parses an optional result limit. An empty value yields def.
func ValidateLimit(raw string, def, maxLimit int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		return def, result
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("limit", "Limit must be a number")
		return 0, result
	}
	if n < 1 || n > maxLimit {
		result.AddError("limit", fmt.Sprintf("Limit must be between 1 and %d", maxLimit))
		return 0, result
	}
	return n, result
}
