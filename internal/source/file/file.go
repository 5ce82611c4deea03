// Package file reads the activity log from a local CSV or XLSX workbook.
package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"bdactivity/internal/source"
)

// ErrUnsupportedFormat is returned for extensions other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

type Source struct {
	path  string
	sheet string
}

var _ source.Source = (*Source)(nil)

// New returns a file source. sheet selects the worksheet of a workbook and
// defaults to the first one; it is ignored for CSV.
func New(path, sheet string) (*Source, error) {
	switch format(path) {
	case "csv", "xlsx", "xlsm":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return &Source{path: path, sheet: strings.TrimSpace(sheet)}, nil
}

func (s *Source) Name() string { return "file" }

// Identity is the SHA-256 of the file content, so an edited file is a new
// dataset while a touched one is not. A selected sheet is part of the
// identity.
func (s *Source) Identity(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	if s.sheet != "" {
		return identityOf(b) + "#" + s.sheet, nil
	}
	return identityOf(b), nil
}

func (s *Source) Fetch(ctx context.Context) (source.Table, error) {
	if err := ctx.Err(); err != nil {
		return source.Table{}, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return source.Table{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	if format(s.path) == "csv" {
		return source.ReadCSV(bytes.NewReader(b))
	}
	return readWorkbook(b, s.sheet)
}

func readWorkbook(b []byte, sheet string) (source.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return source.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return source.Table{}, source.ErrNoData
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return source.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return source.FromRows(rows)
}

func identityOf(b []byte) string {
	sum := sha256.Sum256(b)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
