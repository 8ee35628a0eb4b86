package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "балашиха фадеева", []string{"балашиха", "фадеева"}},
		{"mixed case", "Балашиха Фадеева", []string{"балашиха", "фадеева"}},
		{"with punctuation", "Адыгея, Майкоп, Краснодарская", []string{"адыгея", "майкоп", "краснодарская"}},
		{"hyphenated name", "Русавкино-Романово", []string{"русавкино", "романово"}},
		{"abbreviation with dot", "им.Ленина", []string{"им", "ленина"}},
		{"postal code prefix", "658390 алтайский край", []string{"658390", "алтайский", "край"}},
		{"latin", "Hello World", []string{"hello", "world"}},
		{"yo letter", "ЁЛКИ", []string{"ёлки"}},
		{"leading/trailing spaces", "  москва  ", []string{"москва"}},
		{"only symbols", "!@#$%^", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestUniqueTokens(t *testing.T) {
	got := UniqueTokens("москва Москва мытищи")
	want := []string{"москва", "мытищи"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueTokens() = %v, want %v", got, want)
	}
}

func TestLowerAndFold(t *testing.T) {
	if got := Lower("Автономный Округ"); got != "автономный округ" {
		t.Errorf("Lower() = %q", got)
	}
	if Fold("Респ") != Fold("РЕСП") {
		t.Errorf("Fold() should make %q and %q equal", "Респ", "РЕСП")
	}
}
