package backend

import (
	"context"
	"fmt"

	"bdactivity/internal/log"
	"bdactivity/internal/source/file"
	"bdactivity/internal/source/google"
	"bdactivity/internal/source/remote"
	"bdactivity/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileSource(config)
	case RemoteBackend:
		return f.createRemoteSource(config)
	case SheetsBackend:
		return f.createSheetsSource(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteSource(config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileSource(config Config) (*Result, error) {
	src, err := file.New(config.DataFile, config.DataSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file source: %w", err)
	}
	f.logger.Info("Initialized file source", "path", config.DataFile, "sheet", config.DataSheet)
	return &Result{Source: src}, nil
}

func (f *DefaultFactory) createRemoteSource(config Config) (*Result, error) {
	src := remote.New(config.DataURL, remote.Options{
		Timeout: config.RemoteTimeout,
		Logger:  f.logger,
	})
	f.logger.Info("Initialized remote source", "url", config.DataURL)
	return &Result{Source: src}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*Result, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		Range:              config.GoogleSheetRange,
		ServiceAccountFile: config.GoogleServiceAccountFile,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets source", "spreadsheet_id", config.GoogleSpreadsheetID)
	return &Result{Source: cli}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite source", "db_path", config.SQLiteDBPath)
	return &Result{Source: repo, Writer: repo, Cleanup: repo.Close}, nil
}
