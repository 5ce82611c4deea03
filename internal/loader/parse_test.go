package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bdactivity/internal/core"
	"bdactivity/internal/source"
)

var header = []string{" Activity Date ", "BDE Name", "FPO NAME", "Title of Activity", "Attendees"}

func TestParseDateLayouts(t *testing.T) {
	cases := []string{
		"2024-01-05",
		"2024-01-05 14:30:00",
		"2024-01-05T14:30:00",
		"2024-01-05T23:30:00+05:30",
		"2024/01/05",
		"1/5/2024",
		"01/05/2024 09:15",
		"1/5/24",
		"5-Jan-2024",
		"5 Jan 2024",
		"Jan 5, 2024",
		"January 5, 2024",
		"5 January 2024",
		"Jan 5 2024",
		"2024.01.05",
		"2024/1/5",
		"01-05-2024",
		"20240105",
		"  2024-01-05  ",
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, "2024-01-05", d.String())
		})
	}

	for _, bad := range []string{"", "   ", "yesterday", "2024-13-01", "not a date"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDateIsMonthFirst(t *testing.T) {
	d, err := ParseDate("05-01-2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", d.String())

	d, err = ParseDate("2/3/2024 18:45")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-03", d.String(), "time of day is dropped")
}

func TestParseBuildsSchema(t *testing.T) {
	ds, err := Parse(source.Table{
		Header: header,
		Rows: [][]string{
			{"2024-01-05", "Asha", "FPO-1", "Meeting", "12"},
			{"", "", "", "", ""},
			{"1/6/2024", "Ravi", "FPO-2", "Training"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len(), "blank rows are skipped")
	assert.Equal(t, []core.Column{
		{Name: core.FieldDate, Kind: core.Temporal},
		{Name: core.FieldOfficer, Kind: core.Categorical},
		{Name: core.FieldPartner, Kind: core.Categorical},
		{Name: core.FieldTitle, Kind: core.Categorical},
		{Name: "Attendees", Kind: core.Numeric},
	}, ds.Columns())

	second := ds.At(1)
	assert.Equal(t, "2024-01-06", second.Date.String())
	assert.Equal(t, "Ravi", second.Officer())
	v, ok := second.Get("Attendees")
	assert.True(t, ok)
	assert.Equal(t, "", v, "short rows are padded")
}

func TestParseNamesBlankHeaders(t *testing.T) {
	ds, err := Parse(source.Table{
		Header: []string{"Activity Date", ""},
		Rows:   [][]string{{"2024-01-05", "x"}},
	})
	require.NoError(t, err)
	assert.True(t, ds.HasField("Unnamed: 1"))
}

func TestParseErrors(t *testing.T) {
	t.Run("missing date column", func(t *testing.T) {
		_, err := Parse(source.Table{Header: []string{"BDE Name"}, Rows: [][]string{{"Asha"}}})
		require.ErrorIs(t, err, core.ErrParse)
		var pe *core.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, core.FieldDate, pe.Column)
		assert.Zero(t, pe.Row)
	})

	t.Run("single bad date fails the load", func(t *testing.T) {
		_, err := Parse(source.Table{
			Header: header,
			Rows: [][]string{
				{"2024-01-05", "Asha"},
				{"not a date", "Ravi"},
				{"2024-01-07", "Asha"},
			},
		})
		var pe *core.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Row)
		assert.Equal(t, "not a date", pe.Value)
	})

	t.Run("empty date cell", func(t *testing.T) {
		_, err := Parse(source.Table{Header: header, Rows: [][]string{{"", "Asha"}}})
		assert.ErrorIs(t, err, core.ErrParse)
	})

	t.Run("no header", func(t *testing.T) {
		_, err := Parse(source.Table{})
		assert.ErrorIs(t, err, core.ErrParse)
	})
}

func TestParseHeaderOnlyIsEmptyDataset(t *testing.T) {
	ds, err := Parse(source.Table{Header: header})
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())

	_, err = core.Summarize(ds, core.NewDate(2024, 1, 1))
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}
