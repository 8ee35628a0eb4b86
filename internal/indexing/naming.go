package indexing

import (
	"github.com/iEmiya/ruaddress/internal/tokenizer"
)

// Regions whose official name puts the type after the name.
var nameFirstRegions = map[string]bool{
	"070000000000000": true, // Кабардино-Балкарская
	"090000000000000": true, // Карачаево-Черкесская
	"180000000000000": true, // Удмуртская
	"200000000000000": true, // Чеченская
	"210000000000000": true, // Чувашская
}

// Regions rendered by a fixed literal.
var literalRegions = map[string]string{
	"860000000000000": "Ханты-Мансийский автономный округ - Югра",
}

// Region types written after the name in lower case.
var suffixReductions = map[string]bool{
	"Край":               true,
	"Область":            true,
	"Автономная область": true,
	"Автономный округ":   true,
}

// Federal cities render as the bare name.
var federalCities = map[string]bool{
	"Москва":          true,
	"Санкт-Петербург": true,
	"Севастополь":     true,
	"Байконур":        true,
}

// displayName renders a name together with its type.
func displayName(level int, code, reduction, name string) string {
	if level != 1 {
		if reduction == "" {
			return name
		}
		return name + " " + tokenizer.Lower(reduction)
	}

	if nameFirstRegions[code] {
		return name + " " + reduction
	}
	if literal, ok := literalRegions[code]; ok {
		return literal
	}
	if suffixReductions[reduction] {
		return name + " " + tokenizer.Lower(reduction)
	}
	if federalCities[name] || reduction == "" {
		return name
	}
	return reduction + " " + name
}
