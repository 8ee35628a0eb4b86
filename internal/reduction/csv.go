package reduction

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/iEmiya/ruaddress/internal/errors"
	"github.com/iEmiya/ruaddress/model"
)

// FileName is the reduction table persisted next to the address store.
const FileName = "SOCRBASE.csv"

var header = []string{"Level", "Short", "Name"}

// Path returns the location of the reduction table inside a store directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Write renders entries as ';'-separated UTF-8 with every field quoted.
func Write(w io.Writer, entries []model.ReductionEntry) error {
	var b strings.Builder
	writeRow(&b, header)
	for _, e := range entries {
		writeRow(&b, []string{strconv.Itoa(e.Level), e.Short, e.Name})
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

// Read parses a table produced by Write. Columns are located by header name.
func Read(r io.Reader) ([]model.ReductionEntry, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reduction header: %w", err)
	}
	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range header {
		if _, ok := cols[name]; !ok {
			return nil, apperrors.NewValidationError(name, "column missing from reduction table")
		}
	}

	var out []model.ReductionEntry
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read reduction row %d: %w", line, err)
		}
		field := func(name string) string {
			if i := cols[name]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		level, err := strconv.Atoi(field("Level"))
		if err != nil {
			return nil, apperrors.NewValidationError("Level", fmt.Sprintf("row %d: %v", line, err))
		}
		out = append(out, model.ReductionEntry{Level: level, Short: field("Short"), Name: field("Name")})
	}
	return out, nil
}

// Save atomically writes the lookup to the reduction table in dir.
func Save(dir string, l *Lookup) error {
	p, err := Stage(dir, l)
	if err != nil {
		return err
	}
	defer p.Discard()
	return p.Publish()
}

// Pending is a reduction table written next to its destination but not yet
// visible under FileName.
type Pending struct {
	tmp string
	dir string
}

// Stage writes the lookup to a temporary file in dir. Publish makes it the
// reduction table; Discard removes it.
func Stage(dir string, l *Lookup) (_ *Pending, err error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, l.Entries()); err != nil {
		return nil, fmt.Errorf("failed to write reduction table: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reduction table: %w", err)
	}
	return &Pending{tmp: tmp.Name(), dir: dir}, nil
}

// Publish renames the staged file over the reduction table.
func (p *Pending) Publish() error {
	if p.tmp == "" {
		return nil
	}
	if err := os.Rename(p.tmp, Path(p.dir)); err != nil {
		return fmt.Errorf("failed to publish reduction table: %w", err)
	}
	p.tmp = ""
	return nil
}

// Discard removes the staged file unless it was published.
func (p *Pending) Discard() {
	if p.tmp != "" {
		_ = os.Remove(p.tmp)
		p.tmp = ""
	}
}

// Load reads the reduction table in dir. A missing file yields os.ErrNotExist.
func Load(dir string) (*Lookup, error) {
	f, err := os.Open(Path(dir)) // #nosec G304 -- path is derived from the configured data directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to open reduction table: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := Read(f)
	if err != nil {
		return nil, err
	}
	return New(entries)
}
