package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/iEmiya/ruaddress/model"
)

// SQL reads the classifier from tables kladr, street and socrbase.
type SQL struct {
	converter
	db *sql.DB
}

// OpenSQLite opens a SQLite database file in WAL mode.
func OpenSQLite(path string, logger *slog.Logger) (*SQL, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return NewSQL(db, logger), nil
}

// OpenPostgres opens a PostgreSQL connection pool.
func OpenPostgres(dsn string, logger *slog.Logger) (*SQL, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return NewSQL(db, logger), nil
}

// NewSQL wraps an open database.
func NewSQL(db *sql.DB, logger *slog.Logger) *SQL {
	return &SQL{converter: newConverter(logger), db: db}
}

// Records reads kladr followed by street.
func (s *SQL) Records(ctx context.Context) ([]model.AddressRecord, error) {
	s.reset()
	var out []model.AddressRecord
	for _, table := range []string{"kladr", "street"} {
		records, err := s.table(ctx, table)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (s *SQL) table(ctx context.Context, table string) ([]model.AddressRecord, error) {
	// #nosec G201 -- table names are constants
	q := fmt.Sprintf(`SELECT COALESCE(name, ''), COALESCE(socr, ''), COALESCE(code, ''), COALESCE("index", '') FROM %s`, table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out []model.AddressRecord
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.Name, &r.Socr, &r.Code, &r.Index); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		if rec, ok := s.record(table, r); ok {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return out, nil
}

// Reductions reads socrbase.
func (s *SQL) Reductions(ctx context.Context) ([]model.ReductionEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT COALESCE(CAST(level AS TEXT), ''), COALESCE(scname, ''), COALESCE(socrname, '') FROM socrbase`)
	if err != nil {
		return nil, fmt.Errorf("failed to query socrbase: %w", err)
	}
	defer rows.Close()

	var out []model.ReductionEntry
	for rows.Next() {
		var level, short, name string
		if err := rows.Scan(&level, &short, &name); err != nil {
			return nil, fmt.Errorf("failed to scan socrbase: %w", err)
		}
		e, err := reductionEntry(level, short, name)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read socrbase: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.db.Close()
}
