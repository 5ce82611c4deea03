package source

import (
	"context"
	"errors"
)

// ErrNoData is returned when a source holds no header row at all.
var ErrNoData = errors.New("source has no data")

// Ports for inbound tabular adapters.
type (
	// Table is a raw grid of cells. Header is the first row of the source;
	// Rows may be ragged.
	Table struct {
		Header []string
		Rows   [][]string
	}

	// Source provides the raw activity log.
	Source interface {
		// Name is a short label for logs and metrics (file, remote, sheets, ...).
		Name() string
		// Identity names the current content of the source. Two calls that
		// return the same identity must yield the same table.
		Identity(ctx context.Context) (string, error)
		// Fetch reads the whole table.
		Fetch(ctx context.Context) (Table, error)
	}

	// Writer replaces the content of a writable source.
	Writer interface {
		ReplaceAll(ctx context.Context, t Table) (int, error)
	}
)
