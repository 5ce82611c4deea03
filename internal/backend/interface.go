package backend

import (
	"context"
	"time"

	"bdactivity/internal/source"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the activity source and an optional cleanup function.
// Writer is set only for backends that accept imports.
type Result struct {
	Source  source.Source
	Writer  source.Writer
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates activity sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for source creation
type Config struct {
	Type Type

	// file
	DataFile  string
	DataSheet string

	// remote
	DataURL       string
	RemoteTimeout time.Duration

	// sqlite
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// Type represents the kind of activity source
type Type string

const (
	FileBackend   Type = "file"
	RemoteBackend Type = "remote"
	SheetsBackend Type = "sheets"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the source type is known
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, RemoteBackend, SheetsBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
