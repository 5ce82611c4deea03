package backend

import (
	"fmt"
	"strings"

	"bdactivity/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.DataSource)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid data source %q (valid: %s)", appConfig.DataSource, strings.Join(GetTypeStrings(), ", "))
	}

	return Config{
		Type: t,

		DataFile:  appConfig.DataFile,
		DataSheet: appConfig.DataSheet,

		DataURL:       appConfig.DataURL,
		RemoteTimeout: appConfig.RemoteTimeout,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:         appConfig.GoogleSheetRange,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
	}, nil
}

// Validate checks the fields the selected type needs.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid source type: %s", c.Type)
	}

	switch c.Type {
	case FileBackend:
		if c.DataFile == "" {
			return fmt.Errorf("data file is required for file source")
		}
	case RemoteBackend:
		if c.DataURL == "" {
			return fmt.Errorf("data URL is required for remote source")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite source")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets source")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			return fmt.Errorf("either GoogleServiceAccountFile or GoogleServiceAccountJSON must be provided for sheets source")
		}
	}

	return nil
}

// GetTypes returns all valid source types
func GetTypes() []Type {
	return []Type{FileBackend, RemoteBackend, SheetsBackend, SQLiteBackend}
}

// GetTypeStrings returns all valid source type strings
func GetTypeStrings() []string {
	types := GetTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
