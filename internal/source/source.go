// Package source reads classifier tables (KLADR, STREET and SOCRBASE) from
// an SQL database or from semicolon-separated files and turns them into
// normalized address records and reduction entries.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/iEmiya/ruaddress/config"
	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/internal/kladr"
	"github.com/iEmiya/ruaddress/model"
)

// Reasons a source row is dropped.
const (
	SkipInvalidPostalCode = "invalid_postal_code"
	SkipInvalidCode       = "invalid_code"
	SkipHistorical        = "historical"
)

// Source yields the raw material of one rebuild.
type Source interface {
	Records(ctx context.Context) ([]model.AddressRecord, error)
	Reductions(ctx context.Context) ([]model.ReductionEntry, error)
	// Skipped returns the rows dropped by the last Records call, by reason.
	Skipped() map[string]int
	Close() error
}

// Open creates the source selected by cfg.
func Open(cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.DSN, logger)
	case config.DriverPostgres:
		return OpenPostgres(cfg.DSN, logger)
	case config.DriverCSV:
		return NewCSV(cfg.Dir, logger), nil
	default:
		return nil, apperrors.NewValidationError("driver", fmt.Sprintf("unsupported source driver '%s'", cfg.Driver))
	}
}

// row is one KLADR or STREET row before validation.
type row struct {
	Name, Socr, Code, Index string
}

// converter validates rows and counts the ones it drops.
type converter struct {
	logger  *slog.Logger
	skipped map[string]int
}

func newConverter(logger *slog.Logger) converter {
	return converter{logger: logger, skipped: make(map[string]int)}
}

func (c *converter) reset() {
	c.skipped = make(map[string]int)
}

// Skipped returns a copy of the drop counters.
func (c *converter) Skipped() map[string]int {
	out := make(map[string]int, len(c.skipped))
	for k, v := range c.skipped {
		out[k] = v
	}
	return out
}

func (c *converter) record(table string, r row) (model.AddressRecord, bool) {
	name := strings.TrimSpace(r.Name)
	socr := strings.TrimSpace(r.Socr)
	raw := strings.TrimSpace(r.Code)
	postal := strings.TrimSpace(r.Index)

	if postal != "" && !kladr.ValidPostalCode(postal) {
		c.skipped[SkipInvalidPostalCode]++
		c.logger.Warn("row skipped", "table", table, "reason", SkipInvalidPostalCode, "code", raw, "value", postal)
		return model.AddressRecord{}, false
	}
	code, err := kladr.Normalize(raw)
	if err != nil {
		if historical(raw) {
			c.skipped[SkipHistorical]++
			c.logger.Debug("row skipped", "table", table, "reason", SkipHistorical, "code", raw)
			return model.AddressRecord{}, false
		}
		c.skipped[SkipInvalidCode]++
		c.logger.Warn("row skipped", "table", table, "reason", SkipInvalidCode, "value", raw)
		return model.AddressRecord{}, false
	}
	level, _ := kladr.Level(code)
	return model.AddressRecord{
		ID:         code,
		Level:      level,
		Name:       name,
		Reduction:  socr,
		PostalCode: postal,
	}, true
}

// historical reports whether raw is a well-formed code whose actuality
// marker is not "00".
func historical(raw string) bool {
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	switch len(raw) {
	case 13:
		return raw[11:] != "00"
	case 17:
		return raw[15:] != "00"
	}
	return false
}

func reductionEntry(level, short, name string) (model.ReductionEntry, error) {
	l, err := strconv.Atoi(strings.TrimSpace(level))
	if err != nil {
		return model.ReductionEntry{}, apperrors.NewValidationError("LEVEL", fmt.Sprintf("'%s' is not a level", level))
	}
	return model.ReductionEntry{
		Level: l,
		Short: strings.TrimSpace(short),
		Name:  strings.TrimSpace(name),
	}, nil
}
