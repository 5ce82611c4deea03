package core

import (
	"errors"
	"strings"
	"time"
)

// Column names of the activity log. Any other column is carried through.
const (
	FieldDate    = "Activity Date"
	FieldOfficer = "BDE Name"
	FieldPartner = "FPO NAME"
	FieldTitle   = "Title of Activity"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar day. The time part is always midnight UTC.
	Date struct {
		time.Time
	}

	// ActivityRecord is one logged activity. Values are aligned with the
	// schema of the dataset that produced the record.
	ActivityRecord struct {
		Date   Date
		schema *Schema
		values []string
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's wall clock date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseISODate parses a YYYY-MM-DD string.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MarshalJSON shadows time.Time's RFC 3339 encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	return d.UnmarshalText([]byte(s))
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseISODate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewRecord builds a record for schema. values must be aligned with the
// schema columns; missing trailing values read as empty.
func NewRecord(schema *Schema, date Date, values []string) ActivityRecord {
	return ActivityRecord{Date: date, schema: schema, values: values}
}

// Get returns the raw value of the named column.
func (r ActivityRecord) Get(field string) (string, bool) {
	if r.schema == nil {
		return "", false
	}
	i, ok := r.schema.index[field]
	if !ok {
		return "", false
	}
	return r.value(i), true
}

func (r ActivityRecord) value(i int) string {
	if i < 0 || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// Officer returns the "BDE Name" value.
func (r ActivityRecord) Officer() string {
	v, _ := r.Get(FieldOfficer)
	return v
}

// Partner returns the "FPO NAME" value.
func (r ActivityRecord) Partner() string {
	v, _ := r.Get(FieldPartner)
	return v
}

// Title returns the "Title of Activity" value.
func (r ActivityRecord) Title() string {
	v, _ := r.Get(FieldTitle)
	return v
}

// Values returns a copy of the raw row, aligned with the schema columns.
func (r ActivityRecord) Values() []string {
	if r.schema == nil {
		return append([]string(nil), r.values...)
	}
	out := make([]string, len(r.schema.columns))
	for i := range out {
		out[i] = r.value(i)
	}
	return out
}
