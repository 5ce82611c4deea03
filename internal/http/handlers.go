package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"bdactivity/internal/core"
	"bdactivity/internal/dashboard"
	"bdactivity/internal/log"
)

type (
	columnsResponse struct {
		Columns []core.Column `json:"columns"`
	}

	optionsResponse struct {
		Dimension dashboard.Dimension `json:"dimension"`
		Values    []string            `json:"values"`
	}

	monthsResponse struct {
		Months []int `json:"months"`
	}

	drillDownResponse struct {
		dashboard.DrillDownResult
		Charts []core.Visualization `json:"charts,omitempty"`
	}

	cacheClearResponse struct {
		Dropped int `json:"dropped"`
	}
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleReady reports ready once the dataset can be loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	cols, err := s.svc.Columns(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"status": "ready", "columns": len(cols)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ref, err := refFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := s.svc.Summary(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	req, err := filterRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Filter(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	dim, err := dashboard.ParseDimension(pathParam(r, "dimension"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := s.svc.Options(r.Context(), string(dim))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, optionsResponse{Dimension: dim, Values: values})
}

// handleDrillDown returns the entity view and, when ?columns= is given, the
// chart data for those columns.
func (s *Server) handleDrillDown(w http.ResponseWriter, r *http.Request) {
	req, err := drillDownFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.DrillDown(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := drillDownResponse{DrillDownResult: res}

	if columns := splitList(r.URL.Query().Get("columns")); len(columns) > 0 {
		out.Charts, err = s.svc.Visualize(r.Context(), dashboard.VisualizeRequest{DrillDown: req, Columns: columns})
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	render.JSON(w, r, out)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.svc.Columns(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, columnsResponse{Columns: cols})
}

// handleMonths lists months with activity, optionally for one entity
// (?dimension=officer&value=Asha).
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	months, err := s.svc.Months(r.Context(), q.Get("dimension"), q.Get("value"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, monthsResponse{Months: months})
}

// handleCacheClear drops the memoized dataset; ?all=true drops every entry.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	n, err := s.svc.Invalidate(r.Context(), all, "http")
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Dataset cache cleared",
		log.FieldOperation, log.OpInvalidate,
		"dropped", n,
		"all", all)
	render.JSON(w, r, cacheClearResponse{Dropped: n})
}
