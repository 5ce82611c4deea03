package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = []Column{
	{Name: FieldDate, Kind: Temporal},
	{Name: FieldOfficer, Kind: Categorical},
	{Name: FieldPartner, Kind: Categorical},
	{Name: FieldTitle, Kind: Categorical},
	{Name: "Attendees", Kind: Numeric},
}

type row struct {
	date      Date
	officer   string
	partner   string
	title     string
	attendees string
}

func buildDataset(t *testing.T, rows ...row) *Dataset {
	t.Helper()
	schema := NewSchema(testColumns)
	records := make([]ActivityRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, NewRecord(schema, r.date, []string{r.date.String(), r.officer, r.partner, r.title, r.attendees}))
	}
	return NewDataset(schema, records)
}

func TestSchemaLookup(t *testing.T) {
	schema := NewSchema(testColumns)

	col, err := schema.Lookup(FieldOfficer)
	require.NoError(t, err)
	assert.Equal(t, Categorical, col.Kind)

	_, err = schema.Lookup("Region")
	require.ErrorIs(t, err, ErrUnknownField)
	var ufe *UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "Region", ufe.Field)

	assert.Equal(t, []string{FieldDate, FieldOfficer, FieldPartner, FieldTitle, "Attendees"}, schema.Names())
}

func TestInferKind(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   ColumnKind
	}{
		{"integers", []string{"1", "2", " 3 "}, Numeric},
		{"floats with blanks", []string{"1.5", "", "-2"}, Numeric},
		{"mixed", []string{"1", "two"}, Categorical},
		{"all blank", []string{"", " "}, Categorical},
		{"none", nil, Categorical},
		{"names", []string{"Asha", "Ravi"}, Categorical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferKind(tc.values))
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	ds := buildDataset(t, row{NewDate(2024, 1, 5), "A", "FPO-1", "Meeting", "4"})
	r := ds.At(0)

	assert.Equal(t, "A", r.Officer())
	assert.Equal(t, "FPO-1", r.Partner())
	assert.Equal(t, "Meeting", r.Title())

	v, ok := r.Get("Attendees")
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	_, ok = r.Get("Missing")
	assert.False(t, ok)
	assert.Len(t, r.Values(), 5)
}

func TestShortRowsReadEmpty(t *testing.T) {
	schema := NewSchema(testColumns)
	r := NewRecord(schema, NewDate(2024, 1, 1), []string{"2024-01-01", "A"})

	assert.Equal(t, "", r.Partner())
	assert.Equal(t, []string{"2024-01-01", "A", "", "", ""}, r.Values())
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 2, 29)
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var back Date
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, back.Equal(d))
}
