package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"bdactivity/internal/config"
	"bdactivity/internal/loader"
	"bdactivity/internal/log"
	"bdactivity/internal/source/file"
	"bdactivity/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	var from, sheet string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the SQLite activity store with a CSV or Excel file",
		Long: `Parse a CSV or Excel activity log and, when every row has a valid date,
replace the contents of the SQLite store with it. The store is then served
with DATA_SOURCE=sqlite.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.source == "" {
				a.source = config.SourceSQLite
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}

			src, err := file.New(from, sheet)
			if err != nil {
				return err
			}
			table, err := src.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("read %s: %w", from, err)
			}
			ds, err := loader.Parse(table)
			if err != nil {
				return fmt.Errorf("validate %s: %w", from, err)
			}

			repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, a.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			identity, err := src.Identity(ctx)
			if err != nil {
				return err
			}
			n, err := repo.ReplaceAllFrom(ctx, identity, table)
			if err != nil {
				return err
			}
			imp, err := repo.LastImport(ctx)
			if err != nil {
				return err
			}

			a.logger.Info("Activity log imported",
				log.FieldOperation, log.OpImport,
				"path", from,
				log.FieldRecords, n,
				"import_id", imp.ID)

			return a.print(cmd.OutOrStdout(), imp, func(io.Writer) ([]string, [][]string) {
				return []string{"Import", "Rows", "Columns", "Imported at", "Database"}, [][]string{{
					fmt.Sprintf("#%d", imp.ID),
					strconv.Itoa(n),
					strconv.Itoa(len(ds.Columns())),
					imp.ImportedAt.Format("2006-01-02 15:04:05"),
					cfg.SQLiteDBPath,
				}}
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "CSV or Excel file to import")
	cmd.Flags().StringVar(&sheet, "from-sheet", "", "Excel sheet to import (default: first sheet)")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
