package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/model"
)

// File names read by CSV.
const (
	KladrFile    = "KLADR.csv"
	StreetFile   = "STREET.csv"
	SocrbaseFile = "SOCRBASE.csv"
)

// CSV reads semicolon-separated exports of the classifier tables from a
// directory. Column order is free; columns are found by header name.
type CSV struct {
	converter
	dir string
}

// NewCSV creates a source over dir.
func NewCSV(dir string, logger *slog.Logger) *CSV {
	return &CSV{converter: newConverter(logger), dir: dir}
}

// Records reads KLADR.csv followed by STREET.csv.
func (c *CSV) Records(ctx context.Context) ([]model.AddressRecord, error) {
	c.reset()
	var out []model.AddressRecord
	for _, name := range []string{KladrFile, StreetFile} {
		err := c.each(ctx, name, []string{"NAME", "SOCR", "CODE", "INDEX"}, func(f func(string) string) error {
			r := row{Name: f("NAME"), Socr: f("SOCR"), Code: f("CODE"), Index: f("INDEX")}
			if rec, ok := c.record(name, r); ok {
				out = append(out, rec)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Reductions reads SOCRBASE.csv.
func (c *CSV) Reductions(ctx context.Context) ([]model.ReductionEntry, error) {
	var out []model.ReductionEntry
	err := c.each(ctx, SocrbaseFile, []string{"LEVEL", "SCNAME", "SOCRNAME"}, func(f func(string) string) error {
		e, err := reductionEntry(f("LEVEL"), f("SCNAME"), f("SOCRNAME"))
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// Close is a no-op.
func (c *CSV) Close() error { return nil }

// each calls fn for every data row of the named file. fn receives a field
// accessor by upper-case column name.
func (c *CSV) each(ctx context.Context, name string, required []string, fn func(func(string) string) error) error {
	path := filepath.Join(c.dir, name)
	f, err := os.Open(path) // #nosec G304 -- directory comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("source file %s: %w", path, err)
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", name, err)
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		cols[strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(h), "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return apperrors.NewValidationError(col, "column missing from "+name)
		}
	}

	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s line %d: %w", name, line, err)
		}
		field := func(col string) string {
			if i := cols[col]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		if err := fn(field); err != nil {
			return err
		}
	}
}
