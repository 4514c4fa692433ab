package report

import (
	"fmt"
	"os"
	"sync"

	"payroll/internal/core"
)

// ErrorSink persists the per-record errors collected during ingestion.
// The ledger only collects; a sink decides where the pairs end up.
type ErrorSink interface {
	Record(entries []core.RecordError) error
}

// FileSink appends error pairs to a flat log file, one source line and one
// message line per entry, matching the historical errors.txt layout.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink returns a sink appending to the given path. The file is
// created on first use.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Record(entries []core.RecordError) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log %s: %w", s.path, err)
	}
	defer f.Close()

	for _, e := range entries {
		if _, err := fmt.Fprintf(f, "%s\n%s\n", e.Source, e.Message); err != nil {
			return fmt.Errorf("append error log %s: %w", s.path, err)
		}
	}
	return nil
}

// MemorySink collects error pairs in memory. Used in tests and as the
// default sink when no log path is configured.
type MemorySink struct {
	mu      sync.Mutex
	entries []core.RecordError
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(entries []core.RecordError) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *MemorySink) Entries() []core.RecordError {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecordError, len(s.entries))
	copy(out, s.entries)
	return out
}
