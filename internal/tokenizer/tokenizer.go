package tokenizer

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nonWordRegex matches sequences of characters that are neither letters nor digits
// in any script, so Cyrillic names tokenize the same way Latin ones do.
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Lower lowercases text using Russian casing rules.
// A Caser is stateful, so a fresh one is built per call.
func Lower(text string) string {
	return cases.Lower(language.Russian).String(text)
}

// Fold returns the case-folded form of text, used for case-insensitive keys.
func Fold(text string) string {
	return cases.Fold().String(text)
}

// Tokenize lowercases the text and splits it by non-alphanumeric characters.
// "Русавкино-Романово, 12" -> ["русавкино", "романово", "12"]
func Tokenize(text string) []string {
	lowerText := Lower(text)
	split := nonWordRegex.Split(lowerText, -1)

	tokens := make([]string, 0, len(split)) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// UniqueTokens is Tokenize with duplicates removed, preserving first occurrence order.
func UniqueTokens(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
	}
	return result
}
