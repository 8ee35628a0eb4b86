package indexing

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		code      string
		reduction string
		input     string
		want      string
	}{
		{"street", 5, "770000000001234", "Улица", "Тверская", "Тверская улица"},
		{"street without reduction", 5, "770000000001234", "", "Тверская", "Тверская"},
		{"republic default", 1, "010000000000000", "Республика", "Адыгея", "Республика Адыгея"},
		{"name first republic", 1, "070000000000000", "Республика", "Кабардино-Балкарская", "Кабардино-Балкарская Республика"},
		{"chuvash", 1, "210000000000000", "Чувашия", "Чувашская Республика -", "Чувашская Республика - Чувашия"},
		{"literal okrug", 1, "860000000000000", "Автономный округ", "Ханты-Мансийский", "Ханты-Мансийский автономный округ - Югра"},
		{"krai", 1, "220000000000000", "Край", "Алтайский", "Алтайский край"},
		{"oblast", 1, "500000000000000", "Область", "Московская", "Московская область"},
		{"autonomous oblast", 1, "790000000000000", "Автономная область", "Еврейская", "Еврейская автономная область"},
		{"autonomous okrug", 1, "870000000000000", "Автономный округ", "Чукотский", "Чукотский автономный округ"},
		{"federal city", 1, "780000000000000", "Город", "Санкт-Петербург", "Санкт-Петербург"},
		{"short oblast keeps default order", 1, "500000000000000", "обл", "Московская", "обл Московская"},
		{"region without reduction", 1, "500000000000000", "", "Московская", "Московская"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.level, tt.code, tt.reduction, tt.input); got != tt.want {
				t.Errorf("displayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
