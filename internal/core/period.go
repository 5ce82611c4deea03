package core

import (
	"fmt"
	"sort"
	"time"
)

// Granularity selects the calendar unit of a bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts "day", "week" or "month".
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Day, Week, Month:
		return g, nil
	default:
		return "", fmt.Errorf("invalid granularity %q", s)
	}
}

// PeriodBucketKey identifies a calendar bucket. Day buckets use Year, Month
// and Day; month buckets use Year and Month; week buckets use the ISO-8601
// year and week number (weeks run Monday to Sunday).
type PeriodBucketKey struct {
	Granularity Granularity `json:"granularity"`
	Year        int         `json:"year"`
	Month       int         `json:"month,omitempty"`
	Week        int         `json:"week,omitempty"`
	Day         int         `json:"day,omitempty"`
}

// BucketOf maps d to its bucket at granularity g.
func BucketOf(d Date, g Granularity) PeriodBucketKey {
	switch g {
	case Week:
		y, w := d.ISOWeek()
		return PeriodBucketKey{Granularity: Week, Year: y, Week: w}
	case Month:
		return PeriodBucketKey{Granularity: Month, Year: d.Year(), Month: d.Month()}
	default:
		return PeriodBucketKey{Granularity: Day, Year: d.Year(), Month: d.Month(), Day: d.Day()}
	}
}

// ShiftedBucket returns the bucket n units of g before ref. Months are
// shifted on the (year, month) pair so a reference on the 31st never skips a
// shorter month.
func ShiftedBucket(ref Date, g Granularity, n int) PeriodBucketKey {
	switch g {
	case Week:
		return BucketOf(ref.AddDays(-7*n), Week)
	case Month:
		idx := ref.Year()*12 + (ref.Month() - 1) - n
		return PeriodBucketKey{Granularity: Month, Year: idx / 12, Month: idx%12 + 1}
	default:
		return BucketOf(ref.AddDays(-n), Day)
	}
}

// Start returns the first calendar day of the bucket.
func (k PeriodBucketKey) Start() Date {
	switch k.Granularity {
	case Week:
		// ISO week 1 contains January 4th.
		jan4 := NewDate(k.Year, 1, 4)
		offset := (int(jan4.Weekday()) + 6) % 7
		return jan4.AddDays(-offset + 7*(k.Week-1))
	case Month:
		return NewDate(k.Year, k.Month, 1)
	default:
		return NewDate(k.Year, k.Month, k.Day)
	}
}

// Less orders keys of the same granularity chronologically.
func (k PeriodBucketKey) Less(o PeriodBucketKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Week != o.Week {
		return k.Week < o.Week
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

func (k PeriodBucketKey) String() string {
	switch k.Granularity {
	case Week:
		return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
	case Month:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
	}
}

// Label is the human form shown on the summary page.
func (k PeriodBucketKey) Label() string {
	switch k.Granularity {
	case Week:
		return fmt.Sprintf("Week %d", k.Week)
	case Month:
		return fmt.Sprintf("%s %d", time.Month(k.Month), k.Year)
	default:
		return k.String()
	}
}

// PeriodCount is the size of one bucket.
type PeriodCount struct {
	Key   PeriodBucketKey `json:"key"`
	Label string          `json:"label"`
	Count int             `json:"count"`
}

// CountByPeriod buckets ds at granularity g. The result is sorted
// chronologically and contains only non-empty buckets.
func CountByPeriod(ds *Dataset, g Granularity) []PeriodCount {
	counts := make(map[PeriodBucketKey]int)
	for _, r := range ds.records {
		counts[BucketOf(r.Date, g)]++
	}
	out := make([]PeriodCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, PeriodCount{Key: k, Label: k.Label(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// CountInBucket counts the records of ds that fall into key.
func CountInBucket(ds *Dataset, key PeriodBucketKey) int {
	n := 0
	for _, r := range ds.records {
		if BucketOf(r.Date, key.Granularity) == key {
			n++
		}
	}
	return n
}

// BestPeriod returns the bucket with the most records. Ties go to the
// chronologically earliest bucket, so the answer does not depend on row order.
func BestPeriod(ds *Dataset, g Granularity) (PeriodCount, error) {
	if ds.IsEmpty() {
		return PeriodCount{}, &EmptyDatasetError{Op: "best " + string(g)}
	}
	var best PeriodCount
	for i, pc := range CountByPeriod(ds, g) {
		if i == 0 || pc.Count > best.Count {
			best = pc
		}
	}
	return best, nil
}
