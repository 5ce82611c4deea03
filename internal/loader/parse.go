package loader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"bdactivity/internal/core"
	"bdactivity/internal/source"
)

var (
	errMissingColumn = errors.New("required column is missing")
	errEmptyDate     = errors.New("date is empty")
	errBadDate       = errors.New("unrecognized date")
)

// fallbackLayouts cover month-name forms the date parser may not recognize.
var fallbackLayouts = []string{
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
}

// ParseDate reads an activity date, dropping the time of day. Ambiguous
// numeric dates are read month first, so 01/02/2024 is January 2nd.
func ParseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, errEmptyDate
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return core.DateOf(t), nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, errBadDate
}

// Parse turns a raw table into a dataset. Any row whose date cannot be read
// fails the whole table.
func Parse(t source.Table) (*core.Dataset, error) {
	if len(t.Header) == 0 {
		return nil, &core.ParseError{Err: source.ErrNoData}
	}

	header := make([]string, len(t.Header))
	dateCol := -1
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = h
		if h == core.FieldDate && dateCol < 0 {
			dateCol = i
		}
	}
	if dateCol < 0 {
		return nil, &core.ParseError{Column: core.FieldDate, Err: errMissingColumn}
	}

	type parsedRow struct {
		date   core.Date
		values []string
	}
	rows := make([]parsedRow, 0, len(t.Rows))
	for n, raw := range t.Rows {
		if blank(raw) {
			continue
		}
		values := make([]string, len(header))
		for i := range values {
			if i < len(raw) {
				values[i] = strings.TrimSpace(raw[i])
			}
		}
		d, err := ParseDate(values[dateCol])
		if err != nil {
			return nil, &core.ParseError{Row: n + 1, Column: core.FieldDate, Value: values[dateCol], Err: err}
		}
		values[dateCol] = d.String()
		rows = append(rows, parsedRow{date: d, values: values})
	}

	columns := make([]core.Column, len(header))
	cells := make([]string, len(rows))
	for i, name := range header {
		if i == dateCol {
			columns[i] = core.Column{Name: name, Kind: core.Temporal}
			continue
		}
		for j, r := range rows {
			cells[j] = r.values[i]
		}
		columns[i] = core.Column{Name: name, Kind: core.InferKind(cells)}
	}

	schema := core.NewSchema(columns)
	records := make([]core.ActivityRecord, len(rows))
	for i, r := range rows {
		records[i] = core.NewRecord(schema, r.date, r.values)
	}
	return core.NewDataset(schema, records), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
