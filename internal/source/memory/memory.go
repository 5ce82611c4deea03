package memory

import (
	"context"
	"fmt"
	"sync"

	"bdactivity/internal/source"
)

// Store is an in-process table, used for tests and seeding.
type Store struct {
	mu      sync.Mutex
	name    string
	table   source.Table
	version int
}

var (
	_ source.Source = (*Store)(nil)
	_ source.Writer = (*Store)(nil)
)

func New(name string, header []string, rows [][]string) *Store {
	s := &Store{name: name}
	s.set(source.Table{Header: header, Rows: rows})
	return s
}

func (s *Store) Name() string { return "memory" }

// Identity changes every time the table is replaced.
func (s *Store) Identity(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("memory:%s:%d", s.name, s.version), nil
}

// Fetch returns a copy of the stored table.
func (s *Store) Fetch(context.Context) (source.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.table.Header) == 0 {
		return source.Table{}, source.ErrNoData
	}
	return copyTable(s.table), nil
}

// ReplaceAll swaps the stored table and returns the number of data rows.
func (s *Store) ReplaceAll(_ context.Context, t source.Table) (int, error) {
	s.set(t)
	return len(t.Rows), nil
}

func (s *Store) set(t source.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = copyTable(t)
	s.version++
}

func copyTable(t source.Table) source.Table {
	out := source.Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}
