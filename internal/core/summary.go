package core

import "fmt"

// PeriodCounts holds the sizes of the reference bucket and the two before it.
type PeriodCounts struct {
	Current  int `json:"current"`
	Previous int `json:"previous"`
	TwoBack  int `json:"two_back"`
}

// SummaryReport is the content of the summary view.
type SummaryReport struct {
	Reference   Date         `json:"reference"`
	Total       int          `json:"total"`
	Day         PeriodCounts `json:"day"`
	Week        PeriodCounts `json:"week"`
	Month       PeriodCounts `json:"month"`
	BestMonth   PeriodCount  `json:"best_month"`
	BestWeek    PeriodCount  `json:"best_week"`
	BestDay     PeriodCount  `json:"best_day"`
	BestOfficer EntityCount  `json:"best_officer"`
}

// Summarize counts the reference day, week and month of ds together with the
// two preceding units of each, and finds the best periods and officer.
func Summarize(ds *Dataset, ref Date) (SummaryReport, error) {
	if ds.IsEmpty() {
		return SummaryReport{}, &EmptyDatasetError{Op: "summarize"}
	}
	ref = DateOf(ref.Time)
	report := SummaryReport{
		Reference: ref,
		Total:     ds.Len(),
		Day:       periodCounts(ds, ref, Day),
		Week:      periodCounts(ds, ref, Week),
		Month:     periodCounts(ds, ref, Month),
	}

	var err error
	if report.BestMonth, err = BestPeriod(ds, Month); err != nil {
		return SummaryReport{}, err
	}
	if report.BestWeek, err = BestPeriod(ds, Week); err != nil {
		return SummaryReport{}, err
	}
	if report.BestDay, err = BestPeriod(ds, Day); err != nil {
		return SummaryReport{}, err
	}
	if report.BestOfficer, err = BestEntity(ds, FieldOfficer); err != nil {
		return SummaryReport{}, fmt.Errorf("best officer: %w", err)
	}
	return report, nil
}

func periodCounts(ds *Dataset, ref Date, g Granularity) PeriodCounts {
	current, previous, twoBack := ShiftedBucket(ref, g, 0), ShiftedBucket(ref, g, 1), ShiftedBucket(ref, g, 2)
	var pc PeriodCounts
	for _, r := range ds.records {
		switch BucketOf(r.Date, g) {
		case current:
			pc.Current++
		case previous:
			pc.Previous++
		case twoBack:
			pc.TwoBack++
		}
	}
	return pc
}
