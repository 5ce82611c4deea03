package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"bdactivity/internal/core"
	"bdactivity/internal/dashboard"
	"bdactivity/internal/source"
)

func newSummaryCmd(a *app) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Activity counts for the current and two previous days, weeks and months",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.summary(cmd, ref)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), report, func(w io.Writer) ([]string, [][]string) {
				fmt.Fprintf(w, "Reference: %s\n", report.Reference)
				fmt.Fprintf(w, "Total activities: %d\n\n", report.Total)
				rows := make([][]string, 0, 3)
				for _, row := range []struct {
					name string
					c    core.PeriodCounts
				}{{"Day", report.Day}, {"Week", report.Week}, {"Month", report.Month}} {
					rows = append(rows, []string{row.name, strconv.Itoa(row.c.Current), strconv.Itoa(row.c.Previous), strconv.Itoa(row.c.TwoBack)})
				}
				return []string{"Period", "Current", "Previous", "Two back"}, rows
			})
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Reference date YYYY-MM-DD (default: today)")
	return cmd
}

func newBestCmd(a *app) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Best month, week, day and officer by activity count",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.summary(cmd, ref)
			if err != nil {
				return err
			}
			best := map[string]any{
				"month":   report.BestMonth,
				"week":    report.BestWeek,
				"day":     report.BestDay,
				"officer": report.BestOfficer,
			}
			return a.print(cmd.OutOrStdout(), best, func(io.Writer) ([]string, [][]string) {
				return []string{"Best", "Value", "Activities"}, [][]string{
					{"Month", report.BestMonth.Label, strconv.Itoa(report.BestMonth.Count)},
					{"Week", fmt.Sprintf("%s (from %s)", report.BestWeek.Label, report.BestWeek.Key.Start()), strconv.Itoa(report.BestWeek.Count)},
					{"Day", report.BestDay.Label, strconv.Itoa(report.BestDay.Count)},
					{"Officer", report.BestOfficer.Value, strconv.Itoa(report.BestOfficer.Count)},
				}
			})
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Reference date YYYY-MM-DD (default: today)")
	return cmd
}

func (a *app) summary(cmd *cobra.Command, ref string) (core.SummaryReport, error) {
	var d core.Date
	if ref != "" {
		var err error
		if d, err = core.ParseISODate(ref); err != nil {
			return core.SummaryReport{}, fmt.Errorf("--ref: %w", err)
		}
	}
	svc, src, err := a.service(cmd.Context())
	if err != nil {
		return core.SummaryReport{}, err
	}
	defer src.Close()
	return svc.Summary(cmd.Context(), d)
}

// selectionFlags binds a temporal selection to flags named prefix+name.
func selectionFlags(cmd *cobra.Command, s *dashboard.Selection, prefix, defaultMode string) {
	cmd.Flags().StringVar(&s.Mode, prefix+"mode", defaultMode, "Selection mode: date, range, month or all")
	cmd.Flags().StringVar(&s.Date, prefix+"date", "", "Exact date YYYY-MM-DD")
	cmd.Flags().StringVar(&s.Start, prefix+"start", "", "Range start YYYY-MM-DD")
	cmd.Flags().StringVar(&s.End, prefix+"end", "", "Range end YYYY-MM-DD")
	cmd.Flags().IntVar(&s.Month, prefix+"month", 0, "Month of year 1-12, any year")
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		sel  dashboard.Selection
		rows bool
	)
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Activities matching a date, range or month selection",
		Long: `Print the activities matching a temporal selection.
With --format csv the matching rows are written as CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, src, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer src.Close()

			res, err := svc.Filter(cmd.Context(), dashboard.FilterRequest{Primary: sel, Comparison: dashboard.Selection{Mode: dashboard.ModeAll}})
			if err != nil {
				return err
			}
			view := res.Primary
			if a.format == "csv" {
				header := make([]string, len(view.Columns))
				for i, c := range view.Columns {
					header[i] = c.Name
				}
				return source.WriteCSV(cmd.OutOrStdout(), source.Table{Header: header, Rows: view.Rows})
			}
			return a.print(cmd.OutOrStdout(), view, func(w io.Writer) ([]string, [][]string) {
				fmt.Fprintf(w, "Filter: %s\n", view.Filter)
				fmt.Fprintf(w, "Activities: %d\n", view.Count)
				if !rows || view.Count == 0 {
					return nil, nil
				}
				fmt.Fprintln(w)
				names := make([]string, len(view.Columns))
				for i, c := range view.Columns {
					names[i] = c.Name
				}
				return names, view.Rows
			})
		},
	}
	selectionFlags(cmd, &sel, "", dashboard.ModeAll)
	cmd.Flags().BoolVar(&rows, "rows", false, "Print the matching rows")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var req dashboard.FilterRequest
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare activity counts of two selections",
		Long: `Compare two temporal selections. The comparison uses --mode unless
--cmp-mode is given.

Examples:
  bdreport compare --mode month --month 1 --cmp-month 2
  bdreport compare --mode date --date 2024-01-05 --cmp-mode range --cmp-start 2024-01-01 --cmp-end 2024-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cmp-mode") {
				req.Comparison.Mode = req.Primary.Mode
			}
			svc, src, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer src.Close()

			res, err := svc.Filter(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := map[string]any{
				"primary":    map[string]any{"filter": res.Primary.Filter, "count": res.Primary.Count},
				"comparison": map[string]any{"filter": res.Comparison.Filter, "count": res.Comparison.Count},
				"stats":      res.Stats,
			}
			return a.print(cmd.OutOrStdout(), out, func(w io.Writer) ([]string, [][]string) {
				if res.Stats.NoData {
					fmt.Fprintln(w, "No activities in either selection.")
				}
				return []string{"Selection", "Filter", "Activities", "Share"}, [][]string{
					{"Primary", res.Primary.Filter, strconv.Itoa(res.Stats.CountA), fmt.Sprintf("%.1f%%", res.Stats.ShareA*100)},
					{"Comparison", res.Comparison.Filter, strconv.Itoa(res.Stats.CountB), fmt.Sprintf("%.1f%%", res.Stats.ShareB*100)},
				}
			})
		},
	}
	selectionFlags(cmd, &req.Primary, "", dashboard.ModeMonth)
	selectionFlags(cmd, &req.Comparison, "cmp-", dashboard.ModeMonth)
	return cmd
}

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the dataset columns and their inferred kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, src, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer src.Close()

			cols, err := svc.Columns(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), cols, func(io.Writer) ([]string, [][]string) {
				rows := make([][]string, 0, len(cols))
				for _, c := range cols {
					rows = append(rows, []string{c.Name, string(c.Kind), string(core.ChartFor(c.Kind))})
				}
				return []string{"Column", "Kind", "Chart"}, rows
			})
		},
	}
}
