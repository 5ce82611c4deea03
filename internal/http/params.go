package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bdactivity/internal/core"
	"bdactivity/internal/dashboard"
)

// selectionFromQuery reads a temporal selection. prefix selects the
// comparison parameters (cmp_date, cmp_start, ...).
func selectionFromQuery(q url.Values, prefix, mode string) (dashboard.Selection, error) {
	s := dashboard.Selection{
		Mode:  strings.ToLower(strings.TrimSpace(mode)),
		Date:  strings.TrimSpace(q.Get(prefix + "date")),
		Start: strings.TrimSpace(q.Get(prefix + "start")),
		End:   strings.TrimSpace(q.Get(prefix + "end")),
	}
	if v := strings.TrimSpace(q.Get(prefix + "month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return dashboard.Selection{}, &dashboard.ValidationError{
				Errors: map[string]string{prefix + "month": "must be an integer"},
			}
		}
		s.Month = m
	}
	return s, nil
}

// filterRequestFromQuery builds a comparison request. The comparison uses the
// primary mode unless cmp_mode is given.
func filterRequestFromQuery(q url.Values) (dashboard.FilterRequest, error) {
	mode := q.Get("mode")
	primary, err := selectionFromQuery(q, "", mode)
	if err != nil {
		return dashboard.FilterRequest{}, err
	}
	if m := q.Get("cmp_mode"); m != "" {
		mode = m
	}
	comparison, err := selectionFromQuery(q, "cmp_", mode)
	if err != nil {
		return dashboard.FilterRequest{}, err
	}
	return dashboard.FilterRequest{Primary: primary, Comparison: comparison}, nil
}

// drillDownFromRequest reads the dimension and value path parameters and
// the temporal selection, defaulting to all dates.
func drillDownFromRequest(r *http.Request) (dashboard.DrillDownRequest, error) {
	q := r.URL.Query()
	mode := q.Get("mode")
	if strings.TrimSpace(mode) == "" {
		mode = dashboard.ModeAll
	}
	sel, err := selectionFromQuery(q, "", mode)
	if err != nil {
		return dashboard.DrillDownRequest{}, err
	}
	dim, err := dashboard.ParseDimension(pathParam(r, "dimension"))
	if err != nil {
		return dashboard.DrillDownRequest{}, err
	}
	return dashboard.DrillDownRequest{
		Dimension: string(dim),
		Value:     pathParam(r, "value"),
		Selection: sel,
	}, nil
}

// refFromQuery parses ?ref=YYYY-MM-DD; absent means today.
func refFromQuery(q url.Values) (core.Date, error) {
	v := strings.TrimSpace(q.Get("ref"))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseISODate(v)
	if err != nil {
		return core.Date{}, &dashboard.ValidationError{
			Errors: map[string]string{"ref": "must be a date formatted YYYY-MM-DD"},
		}
	}
	return d, nil
}

// splitList splits a comma separated parameter, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
