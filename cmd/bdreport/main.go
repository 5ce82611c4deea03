package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bdactivity/internal/backend"
	"bdactivity/internal/cli"
	"bdactivity/internal/config"
	"bdactivity/internal/dashboard"
	"bdactivity/internal/loader"
	"bdactivity/internal/log"
)

// app carries the flags shared by every subcommand.
type app struct {
	source string
	file   string
	sheet  string
	url    string
	dbPath string
	format string

	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bdreport",
		Short: "Business development activity reports",
		Long: `Summarize, filter and compare business development activity logs
from a CSV or Excel file, a CSV URL, a Google Sheet or the local SQLite store.

Examples:
  bdreport summary --file activities.xlsx
  bdreport compare --mode month --month 1 --cmp-month 2
  bdreport import --from activities.csv`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = cli.SetupLogger(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.source, "source", "", "Data source: file, remote, sheets or sqlite (default: DATA_SOURCE)")
	pf.StringVar(&a.file, "file", "", "CSV or Excel file (default: DATA_FILE)")
	pf.StringVar(&a.sheet, "sheet", "", "Excel sheet name (default: first sheet)")
	pf.StringVar(&a.url, "url", "", "CSV URL for the remote source (default: DATA_URL)")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database path (default: SQLITE_DB_PATH)")
	pf.StringVar(&a.format, "format", "table", "Output format: table or json; filter also accepts csv")

	root.AddCommand(
		newSummaryCmd(a),
		newBestCmd(a),
		newFilterCmd(a),
		newCompareCmd(a),
		newColumnsCmd(a),
		newImportCmd(a),
		newInvalidateCmd(a),
	)
	return root
}

// config reads the environment and applies the flag overrides.
func (a *app) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.source != "" {
		cfg.DataSource = a.source
	}
	if a.file != "" {
		cfg.DataFile = a.file
		if a.source == "" {
			cfg.DataSource = config.SourceFile
		}
	}
	if a.sheet != "" {
		cfg.DataSheet = a.sheet
	}
	if a.url != "" {
		cfg.DataURL = a.url
	}
	if a.dbPath != "" {
		cfg.SQLiteDBPath = a.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// service opens the configured source behind a dashboard service.
func (a *app) service(ctx context.Context) (*dashboard.Service, *backend.Result, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	src, err := cli.OpenSource(ctx, a.logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	return dashboard.NewService(loader.New(src.Source, 1, a.logger), a.logger), src, nil
}

// tableFunc may write leading lines to w and returns the table to render
// after them.
type tableFunc func(w io.Writer) (header []string, rows [][]string)

// print renders v as JSON, or as the table built by table.
func (a *app) print(w io.Writer, v any, table tableFunc) error {
	if a.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	header, rows := table(w)
	return renderTable(w, header, rows)
}

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
