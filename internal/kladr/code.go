// Package kladr implements the arithmetic of the five-level classifier code:
// level detection, parent derivation, normalization of raw codes and the
// fixed-width wildcard patterns used to walk the hierarchy.
package kladr

import (
	"regexp"
	"strings"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
)

// CodeLength is the length of a normalized code.
const CodeLength = 15

// MinLevel and MaxLevel bound the hierarchy: region to street.
const (
	MinLevel = 1
	MaxLevel = 5
)

// levelTable is evaluated in order; the first matching pattern wins.
var levelTable = []struct {
	level   int
	pattern *regexp.Regexp
}{
	{1, regexp.MustCompile(`^\d{2}0{13}$`)},
	{2, regexp.MustCompile(`^\d{5}0{10}$`)},
	{3, regexp.MustCompile(`^\d{8}0{7}$`)},
	{4, regexp.MustCompile(`^\d{11}0{4}$`)},
	{5, regexp.MustCompile(`^\d{15}$`)},
}

var postalCodeRegex = regexp.MustCompile(`^\d{6}$`)

// Level returns the hierarchy level of a normalized code.
func Level(code string) (int, bool) {
	for _, row := range levelTable {
		if row.pattern.MatchString(code) {
			return row.level, true
		}
	}
	return 0, false
}

// ParentCode truncates code to the significant digits of the level above
// level and pads it back with zeros. Level 1 and unknown levels return code.
func ParentCode(level int, code string) string {
	if len(code) != CodeLength {
		return code
	}
	switch level {
	case 5:
		return code[:11] + "0000"
	case 4:
		return code[:8] + "0000000"
	case 3:
		return code[:5] + "0000000000"
	case 2:
		return code[:2] + "0000000000000"
	default:
		return code
	}
}

// Ancestors returns the distinct codes of code and every ancestor, deepest first.
func Ancestors(code string) []string {
	level, ok := Level(code)
	if !ok {
		return nil
	}
	codes := []string{code}
	current := code
	for l := level; l > MinLevel; l-- {
		parent := ParentCode(l, current)
		if parent == current {
			continue
		}
		codes = append(codes, parent)
		current = parent
	}
	return codes
}

// Normalize converts a raw classifier code to its 15-digit form.
// 13-digit codes carry 11 significant digits and 17-digit codes carry 15;
// the last two digits of both are an actuality marker, and anything other
// than "00" marks a historical record.
func Normalize(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", apperrors.NewInvalidCodeError(raw)
		}
	}
	switch len(code) {
	case 13:
		if code[11:] != "00" {
			return "", apperrors.NewInvalidCodeError(raw)
		}
		code = code[:11] + "0000"
	case 17:
		if code[15:] != "00" {
			return "", apperrors.NewInvalidCodeError(raw)
		}
		code = code[:15]
	case CodeLength:
	default:
		return "", apperrors.NewInvalidCodeError(raw)
	}
	if _, ok := Level(code); !ok {
		return "", apperrors.NewInvalidCodeError(raw)
	}
	return code, nil
}

// ValidPostalCode reports whether s is exactly six digits.
func ValidPostalCode(s string) bool {
	return postalCodeRegex.MatchString(s)
}
