package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FromRows splits a grid into header and data rows.
func FromRows(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrNoData
	}
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// ReadCSV reads a comma separated table. Rows may have differing lengths.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return FromRows(rows)
}

// WriteCSV writes t as comma separated values, header first.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ToStrings converts a row of loosely typed cells to trimmed strings.
func ToStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
