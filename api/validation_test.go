package api

import (
	"testing"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(result.Errors))
	}

	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantValid bool
	}{
		{name: "15 digits", code: "500000010000000", wantValid: true},
		{name: "13 digits", code: "5000000100000", wantValid: true},
		{name: "17 digits", code: "50000001000012300", wantValid: true},
		{name: "empty", code: "", wantValid: false},
		{name: "letters", code: "50000001000000a", wantValid: false},
		{name: "whitespace", code: " 500000010000000", wantValid: false},
		{name: "wrong length", code: "5000000100", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCode(tt.code)
			if result.HasErrors() == tt.wantValid {
				t.Errorf("ValidateCode(%q) valid = %v, want %v (%v)", tt.code, !result.HasErrors(), tt.wantValid, result.Errors)
			}
		})
	}
}

func TestValidatePostalCode(t *testing.T) {
	if ValidatePostalCode("143900").HasErrors() {
		t.Error("Expected 143900 to be valid")
	}
	for _, bad := range []string{"", "14390", "1439000", "14390a"} {
		if !ValidatePostalCode(bad).HasErrors() {
			t.Errorf("Expected %q to be invalid", bad)
		}
	}
}

func TestValidateLevel(t *testing.T) {
	level, result := ValidateLevel("3")
	if result.HasErrors() || level != 3 {
		t.Errorf("Expected level 3, got %d (%v)", level, result.Errors)
	}
	for _, bad := range []string{"0", "6", "x", ""} {
		if _, result := ValidateLevel(bad); !result.HasErrors() {
			t.Errorf("Expected level %q to be invalid", bad)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	n, result := ValidateLimit("", 20, 100)
	if result.HasErrors() || n != 20 {
		t.Errorf("Expected default 20, got %d", n)
	}
	n, result = ValidateLimit("5", 20, 100)
	if result.HasErrors() || n != 5 {
		t.Errorf("Expected 5, got %d", n)
	}
	for _, bad := range []string{"0", "101", "-1", "ten"} {
		if _, result := ValidateLimit(bad, 20, 100); !result.HasErrors() {
			t.Errorf("Expected limit %q to be invalid", bad)
		}
	}
}
