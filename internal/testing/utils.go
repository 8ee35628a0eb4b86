// Package testing provides fixtures shared by the package tests.
package testing

import (
	"io"
	"log/slog"
	"testing"

	"github.com/iEmiya/ruaddress/model"
)

// Logger returns a logger that writes through t.Log when -v is set and
// discards output otherwise.
func Logger(t *testing.T) *slog.Logger {
	t.Helper()
	if !testing.Verbose() {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Reductions is a small abbreviation table covering the fixture records.
func Reductions() []model.ReductionEntry {
	return []model.ReductionEntry{
		{Level: 1, Short: "Респ", Name: "Республика"},
		{Level: 1, Short: "обл", Name: "Область"},
		{Level: 1, Short: "край", Name: "Край"},
		{Level: 1, Short: "г", Name: "Город"},
		{Level: 1, Short: "АО", Name: "Автономный округ"},
		{Level: 2, Short: "р-н", Name: "Район"},
		{Level: 3, Short: "г", Name: "Город"},
		{Level: 4, Short: "п", Name: "Поселок"},
		{Level: 5, Short: "ул", Name: "Улица"},
	}
}

// Well-known fixture codes.
const (
	AdygeaCode       = "010000000000000"
	MaikopDistrict   = "010000010000000"
	MaikopSettlement = "010000010080000"
	MoscowOblastCode = "500000000000000"
	BalashikhaCode   = "500000010000000"
	KhimkiCode       = "500000020000000"
	FadeevaCode      = "500000010000123"
	LeninaCode       = "500000010000124"
	BadPostalCode    = "500000020000001"
	AltaiCode        = "220000000000000"
	KulundaDistrict  = "220250000000000"
	MirnoeSettlement = "220250000010000"
	CentralnayaCode  = "220250000010001"
	MoscowCode       = "770000000000000"
	TverskayaCode    = "770000000001234"
	OrphanCode       = "630000010000000"
)

// Records is a sparse multi-region sample: Altai has no city level, Moscow
// streets hang directly off the region, one record is an orphan and one
// carries a malformed postal code.
func Records() []model.AddressRecord {
	return []model.AddressRecord{
		{ID: AdygeaCode, Level: 1, Name: "Адыгея", Reduction: "Респ"},
		{ID: MaikopDistrict, Level: 2, Name: "Майкопский", Reduction: "р-н"},
		{ID: MaikopSettlement, Level: 3, Name: "Тульский", Reduction: "г", PostalCode: "385730"},

		{ID: MoscowOblastCode, Level: 1, Name: "Московская", Reduction: "обл"},
		{ID: BalashikhaCode, Level: 3, Name: "Балашиха", Reduction: "г", PostalCode: "143900"},
		{ID: KhimkiCode, Level: 3, Name: "Химки", Reduction: "г", PostalCode: "141400"},
		{ID: FadeevaCode, Level: 5, Name: "Фадеева", Reduction: "ул"},
		{ID: LeninaCode, Level: 5, Name: "Ленина", Reduction: "ул", PostalCode: "143901"},
		{ID: BadPostalCode, Level: 5, Name: "Строителей", Reduction: "ул", PostalCode: "12345"},

		{ID: AltaiCode, Level: 1, Name: "Алтайский", Reduction: "край"},
		{ID: KulundaDistrict, Level: 2, Name: "Кулундинский", Reduction: "р-н"},
		{ID: MirnoeSettlement, Level: 4, Name: "Мирное", Reduction: "п"},
		{ID: CentralnayaCode, Level: 5, Name: "Центральная", Reduction: "ул", PostalCode: "658390"},

		{ID: MoscowCode, Level: 1, Name: "Москва", Reduction: "г"},
		{ID: TverskayaCode, Level: 5, Name: "Тверская", Reduction: "ул", PostalCode: "125009"},

		{ID: OrphanCode, Level: 3, Name: "Самара", Reduction: "г"},
	}
}
