package reduction

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/iEmiya/ruaddress/model"
)

// Loader reads the persisted reduction table on first use and keeps it for
// its whole lifetime.
type Loader struct {
	dir    string
	logger *slog.Logger

	once   sync.Once
	lookup *Lookup
}

// NewLoader creates a lazy loader for the table in dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Preloaded returns a loader that serves lookup without reading dir.
func Preloaded(dir string, lookup *Lookup, logger *slog.Logger) *Loader {
	l := NewLoader(dir, logger)
	l.once.Do(func() { l.lookup = lookup })
	return l
}

// Lookup returns the loaded table. A missing or unreadable table yields an
// empty Lookup.
func (l *Loader) Lookup() *Lookup {
	l.once.Do(func() {
		lookup, err := Load(l.dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			l.logger.Info("reduction table not found", "path", Path(l.dir))
			lookup, _ = New(nil)
		case err != nil:
			l.logger.Error("failed to load reduction table", "path", Path(l.dir), "error", err)
			lookup, _ = New(nil)
		default:
			l.logger.Debug("reduction table loaded", "entries", lookup.Len())
		}
		l.lookup = lookup
	})
	return l.lookup
}

// Get looks up an abbreviation in the lazily loaded table.
func (l *Loader) Get(level int, short string) (model.ReductionEntry, bool) {
	return l.Lookup().Get(level, short)
}
