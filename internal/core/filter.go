package core

import (
	"fmt"
	"sort"
)

// All is the entity value that disables an entity filter.
const All = "All"

// FilterByDate keeps records logged on d.
func FilterByDate(ds *Dataset, d Date) *Dataset {
	day := DateOf(d.Time)
	return ds.where(func(r ActivityRecord) bool { return r.Date.Equal(day) })
}

// FilterByRange keeps records with start <= date <= end. An inverted range
// matches nothing.
func FilterByRange(ds *Dataset, start, end Date) *Dataset {
	lo, hi := DateOf(start.Time), DateOf(end.Time)
	return ds.where(func(r ActivityRecord) bool {
		return !r.Date.Before(lo) && !r.Date.After(hi)
	})
}

// FilterByMonth keeps records whose month of year is m, whatever the year.
func FilterByMonth(ds *Dataset, m int) (*Dataset, error) {
	if m < 1 || m > 12 {
		return nil, fmt.Errorf("month %d: %w", m, ErrInvalidMonth)
	}
	return ds.where(func(r ActivityRecord) bool { return r.Date.Month() == m }), nil
}

// FilterByEntity keeps records whose field equals value exactly. The All
// sentinel returns ds itself.
func FilterByEntity(ds *Dataset, field, value string) (*Dataset, error) {
	i, err := ds.fieldIndex(field)
	if err != nil {
		return nil, err
	}
	if value == All {
		return ds, nil
	}
	return ds.where(func(r ActivityRecord) bool { return r.value(i) == value }), nil
}

// Filter is one predicate of a drill-down view.
type Filter interface {
	Apply(ds *Dataset) (*Dataset, error)
	String() string
}

type (
	ExactDate struct {
		Date Date
	}

	DateRange struct {
		Start Date
		End   Date
	}

	MonthOfYear struct {
		Month int
	}

	EntityEquals struct {
		Field string
		Value string
	}

	AllRecords struct{}
)

func (f ExactDate) Apply(ds *Dataset) (*Dataset, error) { return FilterByDate(ds, f.Date), nil }
func (f ExactDate) String() string                      { return "date=" + f.Date.String() }

func (f DateRange) Apply(ds *Dataset) (*Dataset, error) {
	return FilterByRange(ds, f.Start, f.End), nil
}
func (f DateRange) String() string { return "range=" + f.Start.String() + ".." + f.End.String() }

func (f MonthOfYear) Apply(ds *Dataset) (*Dataset, error) { return FilterByMonth(ds, f.Month) }
func (f MonthOfYear) String() string                      { return fmt.Sprintf("month=%d", f.Month) }

func (f EntityEquals) Apply(ds *Dataset) (*Dataset, error) {
	return FilterByEntity(ds, f.Field, f.Value)
}
func (f EntityEquals) String() string { return f.Field + "=" + f.Value }

func (AllRecords) Apply(ds *Dataset) (*Dataset, error) { return ds, nil }
func (AllRecords) String() string                      { return "all" }

// DrillDown narrows ds by entity first, then by temporal. Nil filters are
// skipped.
func DrillDown(ds *Dataset, entity, temporal Filter) (*Dataset, error) {
	out := ds
	for _, f := range []Filter{entity, temporal} {
		if f == nil {
			continue
		}
		next, err := f.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", f, err)
		}
		out = next
	}
	return out, nil
}

// Distinct returns the sorted non-empty values of field.
func Distinct(ds *Dataset, field string) ([]string, error) {
	i, err := ds.fieldIndex(field)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range ds.records {
		v := r.value(i)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// MonthsPresent returns the sorted months of year that occur in ds.
func MonthsPresent(ds *Dataset) []int {
	var present [13]bool
	for _, r := range ds.records {
		present[r.Date.Month()] = true
	}
	out := make([]int, 0, 12)
	for m := 1; m <= 12; m++ {
		if present[m] {
			out = append(out, m)
		}
	}
	return out
}
