package core

import (
	"strconv"
	"strings"
)

// ColumnKind drives the histogram-vs-count decision at the rendering boundary.
type ColumnKind string

const (
	Numeric     ColumnKind = "numeric"
	Categorical ColumnKind = "categorical"
	Temporal    ColumnKind = "temporal"
)

// Column describes one column of the activity log.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Schema is the ordered column set shared by a dataset and all views derived
// from it.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema indexes columns by name. Duplicate names resolve to the first
// occurrence.
func NewSchema(columns []Column) *Schema {
	s := &Schema{
		columns: append([]Column(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range s.columns {
		if _, dup := s.index[c.Name]; !dup {
			s.index[c.Name] = i
		}
	}
	return s
}

// Columns returns a copy of the column descriptors.
func (s *Schema) Columns() []Column {
	return append([]Column(nil), s.columns...)
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Lookup returns the descriptor of the named column.
func (s *Schema) Lookup(name string) (Column, error) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, &UnknownFieldError{Field: name}
	}
	return s.columns[i], nil
}

// InferKind classifies raw column values: Numeric when every non-empty value
// parses as a number and at least one is present, Categorical otherwise.
func InferKind(values []string) ColumnKind {
	seen := false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return Categorical
		}
		seen = true
	}
	if !seen {
		return Categorical
	}
	return Numeric
}

// Dataset is an immutable collection of activity records. Filters and
// aggregations derive new datasets and never modify the receiver.
type Dataset struct {
	schema  *Schema
	records []ActivityRecord
}

// NewDataset wraps records produced for schema.
func NewDataset(schema *Schema, records []ActivityRecord) *Dataset {
	return &Dataset{schema: schema, records: records}
}

func (ds *Dataset) Len() int { return len(ds.records) }

func (ds *Dataset) IsEmpty() bool { return len(ds.records) == 0 }

func (ds *Dataset) Schema() *Schema { return ds.schema }

// Columns returns the column descriptors of the dataset.
func (ds *Dataset) Columns() []Column { return ds.schema.Columns() }

// At returns the i-th record in dataset order.
func (ds *Dataset) At(i int) ActivityRecord { return ds.records[i] }

// Records returns a copy of the record slice.
func (ds *Dataset) Records() []ActivityRecord {
	return append([]ActivityRecord(nil), ds.records...)
}

// HasField reports whether the dataset carries the named column.
func (ds *Dataset) HasField(name string) bool {
	_, ok := ds.schema.index[name]
	return ok
}

func (ds *Dataset) fieldIndex(name string) (int, error) {
	i, ok := ds.schema.index[name]
	if !ok {
		return 0, &UnknownFieldError{Field: name}
	}
	return i, nil
}

// where derives a view holding the records that satisfy keep, in order.
func (ds *Dataset) where(keep func(ActivityRecord) bool) *Dataset {
	out := make([]ActivityRecord, 0)
	for _, r := range ds.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &Dataset{schema: ds.schema, records: out}
}
