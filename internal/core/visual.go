package core

import (
	"strconv"
	"strings"
)

// ChartKind tells the rendering collaborator which plot to draw.
type ChartKind string

const (
	Histogram ChartKind = "histogram"
	CountPlot ChartKind = "count"
)

// ChartFor maps a column kind to its chart.
func ChartFor(kind ColumnKind) ChartKind {
	if kind == Categorical {
		return CountPlot
	}
	return Histogram
}

// Visualization is the data for one column chart. Exactly one of Values,
// Dates and Categories is populated, depending on Kind.
type Visualization struct {
	Column     string        `json:"column"`
	Kind       ColumnKind    `json:"kind"`
	Chart      ChartKind     `json:"chart"`
	Values     []float64     `json:"values,omitempty"`
	Dates      []Date        `json:"dates,omitempty"`
	Categories []EntityCount `json:"categories,omitempty"`
}

// PlanVisualizations prepares one chart per requested column of ds.
func PlanVisualizations(ds *Dataset, columns []string) ([]Visualization, error) {
	out := make([]Visualization, 0, len(columns))
	for _, name := range columns {
		col, err := ds.schema.Lookup(name)
		if err != nil {
			return nil, err
		}
		i := ds.schema.index[name]
		v := Visualization{Column: col.Name, Kind: col.Kind, Chart: ChartFor(col.Kind)}
		switch col.Kind {
		case Temporal:
			v.Dates = make([]Date, 0, ds.Len())
			for _, r := range ds.records {
				v.Dates = append(v.Dates, r.Date)
			}
		case Numeric:
			v.Values = make([]float64, 0, ds.Len())
			for _, r := range ds.records {
				f, err := strconv.ParseFloat(strings.TrimSpace(r.value(i)), 64)
				if err != nil {
					continue
				}
				v.Values = append(v.Values, f)
			}
		default:
			v.Categories = categoryCounts(ds, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// categoryCounts counts values of column i in first-seen order.
func categoryCounts(ds *Dataset, i int) []EntityCount {
	pos := make(map[string]int)
	out := make([]EntityCount, 0)
	for _, r := range ds.records {
		v := r.value(i)
		if v == "" {
			continue
		}
		if p, ok := pos[v]; ok {
			out[p].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, EntityCount{Value: v, Count: 1})
	}
	return out
}
