package dashboard

import (
	"fmt"
	"strings"

	"bdactivity/internal/core"
)

// Dimension is a categorical column a user can drill into.
type Dimension string

const (
	DimensionOfficer  Dimension = "officer"
	DimensionPartner  Dimension = "partner"
	DimensionActivity Dimension = "activity"
)

// ParseDimension accepts the dimension name or its column name.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(DimensionOfficer), strings.ToLower(core.FieldOfficer), "bde":
		return DimensionOfficer, nil
	case string(DimensionPartner), strings.ToLower(core.FieldPartner), "fpo":
		return DimensionPartner, nil
	case string(DimensionActivity), strings.ToLower(core.FieldTitle), "title":
		return DimensionActivity, nil
	}
	return "", &core.UnknownFieldError{Field: s}
}

// Field returns the column backing the dimension.
func (d Dimension) Field() string {
	switch d {
	case DimensionPartner:
		return core.FieldPartner
	case DimensionActivity:
		return core.FieldTitle
	default:
		return core.FieldOfficer
	}
}

// Temporal selection modes.
const (
	ModeDate  = "date"
	ModeRange = "range"
	ModeMonth = "month"
	ModeAll   = "all"
)

// Selection is a temporal filter as chosen by the user.
type Selection struct {
	Mode  string `json:"mode" validate:"required,oneof=date range month all"`
	Date  string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Start string `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Month int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
}

// Filter converts a validated selection into a core filter.
func (s Selection) Filter() (core.Filter, error) {
	switch s.Mode {
	case ModeDate:
		d, err := core.ParseISODate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		return core.ExactDate{Date: d}, nil
	case ModeRange:
		start, err := core.ParseISODate(s.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		end, err := core.ParseISODate(s.End)
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		return core.DateRange{Start: start, End: end}, nil
	case ModeMonth:
		return core.MonthOfYear{Month: s.Month}, nil
	default:
		return core.AllRecords{}, nil
	}
}

type (
	// FilterRequest selects a primary view and a view to compare it with.
	FilterRequest struct {
		Primary    Selection `json:"primary"`
		Comparison Selection `json:"comparison"`
	}

	// DrillDownRequest narrows the dataset to one entity, then to a period.
	DrillDownRequest struct {
		Dimension string    `json:"dimension" validate:"required,oneof=officer partner activity"`
		Value     string    `json:"value" validate:"required"`
		Selection Selection `json:"selection"`
	}

	// VisualizeRequest asks for chart data of columns within a drill-down view.
	VisualizeRequest struct {
		DrillDown DrillDownRequest `json:"drill_down"`
		Columns   []string         `json:"columns" validate:"required,min=1,dive,required"`
	}
)

// View is a filtered dataset as handed to the rendering layer.
type View struct {
	Filter  string        `json:"filter"`
	Count   int           `json:"count"`
	Columns []core.Column `json:"columns"`
	Rows    [][]string    `json:"rows"`
}

func newView(filter string, ds *core.Dataset) View {
	v := View{
		Filter:  filter,
		Count:   ds.Len(),
		Columns: ds.Columns(),
		Rows:    make([][]string, 0, ds.Len()),
	}
	for _, r := range ds.Records() {
		v.Rows = append(v.Rows, r.Values())
	}
	return v
}

type (
	FilterResult struct {
		Primary    View                 `json:"primary"`
		Comparison View                 `json:"comparison"`
		Stats      core.ComparisonStats `json:"stats"`
	}

	DrillDownResult struct {
		Dimension Dimension `json:"dimension"`
		Value     string    `json:"value"`
		View      View      `json:"view"`
	}
)
