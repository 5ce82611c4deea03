package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	// Reference is Wednesday 2024-03-13.
	ds := buildDataset(t,
		row{NewDate(2024, 3, 13), "A", "P1", "Meeting", ""},
		row{NewDate(2024, 3, 13), "B", "P1", "Meeting", ""},
		row{NewDate(2024, 3, 12), "A", "P1", "Meeting", ""},
		row{NewDate(2024, 3, 11), "A", "P2", "Meeting", ""},
		row{NewDate(2024, 3, 5), "C", "P2", "Meeting", ""},
		row{NewDate(2024, 2, 28), "C", "P2", "Meeting", ""},
		row{NewDate(2024, 1, 2), "B", "P2", "Meeting", ""},
		row{NewDate(2023, 3, 13), "B", "P2", "Meeting", ""},
	)

	got, err := Summarize(ds, NewDate(2024, 3, 13))
	require.NoError(t, err)

	assert.Equal(t, 8, got.Total)
	assert.Equal(t, PeriodCounts{Current: 2, Previous: 1, TwoBack: 1}, got.Day)
	// Week of 11..17 March, 4..10 March, 26 Feb..3 March.
	assert.Equal(t, PeriodCounts{Current: 4, Previous: 1, TwoBack: 1}, got.Week)
	assert.Equal(t, PeriodCounts{Current: 5, Previous: 1, TwoBack: 1}, got.Month)

	assert.Equal(t, "March 2024", got.BestMonth.Label)
	assert.Equal(t, 5, got.BestMonth.Count)
	assert.Equal(t, "Week 11", got.BestWeek.Label)
	assert.Equal(t, "2024-03-13", got.BestDay.Key.String())
	assert.Equal(t, EntityCount{Value: "A", Count: 3}, got.BestOfficer)
}

func TestSummarizeDayCountsBounded(t *testing.T) {
	ds := sampleDataset(t)
	for _, ref := range []Date{NewDate(2024, 1, 5), NewDate(2024, 1, 6), NewDate(2024, 1, 7), NewDate(2025, 1, 1)} {
		got, err := Summarize(ds, ref)
		require.NoError(t, err)
		assert.LessOrEqual(t, got.Day.Current+got.Day.Previous+got.Day.TwoBack, ds.Len())
	}
}

func TestSummarizeErrors(t *testing.T) {
	_, err := Summarize(buildDataset(t), NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, ErrEmptyDataset)

	schema := NewSchema([]Column{{Name: FieldDate, Kind: Temporal}})
	ds := NewDataset(schema, []ActivityRecord{NewRecord(schema, NewDate(2024, 1, 1), []string{"2024-01-01"})})
	_, err = Summarize(ds, NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestCompare(t *testing.T) {
	ds := sampleDataset(t)
	jan, err := FilterByMonth(ds, 1)
	require.NoError(t, err)
	feb, err := FilterByMonth(ds, 2)
	require.NoError(t, err)

	stats := Compare(jan, feb)
	assert.Equal(t, 4, stats.CountA)
	assert.Equal(t, 1, stats.CountB)
	assert.InDelta(t, 0.8, stats.ShareA, 1e-9)
	assert.InDelta(t, 1.0, stats.ShareA+stats.ShareB, 1e-9)
	assert.False(t, stats.NoData)

	empty := FilterByDate(ds, NewDate(1999, 1, 1))
	stats = Compare(empty, empty)
	assert.True(t, stats.NoData)
	assert.Zero(t, stats.ShareA)
	assert.Zero(t, stats.ShareB)

	stats = Compare(empty, feb)
	assert.Equal(t, 1.0, stats.ShareB)
}

func TestCompareSharesSumToOne(t *testing.T) {
	for a := 0; a <= 7; a++ {
		for b := 0; b <= 7; b++ {
			stats := CompareCounts(a, b)
			if a+b == 0 {
				assert.True(t, stats.NoData)
				continue
			}
			assert.InDelta(t, 1.0, stats.ShareA+stats.ShareB, 1e-12)
		}
	}
}

func TestPlanVisualizations(t *testing.T) {
	ds := sampleDataset(t)

	plans, err := PlanVisualizations(ds, []string{"Attendees", FieldOfficer, FieldDate})
	require.NoError(t, err)
	require.Len(t, plans, 3)

	assert.Equal(t, Histogram, plans[0].Chart)
	assert.Equal(t, []float64{3, 10, 7, 2}, plans[0].Values)

	assert.Equal(t, CountPlot, plans[1].Chart)
	assert.Equal(t, []EntityCount{{Value: "A", Count: 3}, {Value: "B", Count: 1}, {Value: "C", Count: 1}}, plans[1].Categories)

	assert.Equal(t, Histogram, plans[2].Chart)
	assert.Len(t, plans[2].Dates, 5)

	_, err = PlanVisualizations(ds, []string{"Budget"})
	assert.ErrorIs(t, err, ErrUnknownField)
}
