package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"bdactivity/internal/core"
	"bdactivity/internal/log"
	"bdactivity/internal/metrics"
)

// DatasetLoader provides the current dataset and drops it on request.
type DatasetLoader interface {
	Load(ctx context.Context) (*core.Dataset, error)
	Invalidate(ctx context.Context) (bool, error)
	Clear(ctx context.Context) int
}

// Service answers dashboard questions. Every call loads the (memoized)
// dataset and derives its own view from it.
type Service struct {
	loader    DatasetLoader
	validator *validator.Validate
	logger    *log.Logger
	now       func() time.Time
}

func NewService(loader DatasetLoader, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		loader:    loader,
		validator: newValidate(),
		logger:    logger.WithComponent(log.ComponentDashboard),
		now:       time.Now,
	}
}

// Today is the default summary reference in local time.
func (s *Service) Today() core.Date {
	return core.DateOf(s.now())
}

// Summary computes the period report relative to ref. A zero ref means today.
func (s *Service) Summary(ctx context.Context, ref core.Date) (core.SummaryReport, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return core.SummaryReport{}, err
	}
	if ref.IsZero() {
		ref = s.Today()
	}
	report, err := core.Summarize(ds, ref)
	if err != nil {
		return core.SummaryReport{}, err
	}
	s.logger.DebugContext(ctx, "Summary computed",
		log.FieldOperation, log.OpSummary,
		log.FieldReference, ref.String(),
		log.FieldRecords, report.Total)
	return report, nil
}

// Filter derives the primary and comparison views and compares their sizes.
func (s *Service) Filter(ctx context.Context, req FilterRequest) (FilterResult, error) {
	if err := s.validate(&req); err != nil {
		return FilterResult{}, err
	}
	primary, err := req.Primary.Filter()
	if err != nil {
		return FilterResult{}, err
	}
	comparison, err := req.Comparison.Filter()
	if err != nil {
		return FilterResult{}, err
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return FilterResult{}, err
	}
	a, err := primary.Apply(ds)
	if err != nil {
		return FilterResult{}, fmt.Errorf("apply %s: %w", primary, err)
	}
	b, err := comparison.Apply(ds)
	if err != nil {
		return FilterResult{}, fmt.Errorf("apply %s: %w", comparison, err)
	}

	s.logger.DebugContext(ctx, "Filter applied",
		log.FieldOperation, log.OpFilter,
		log.FieldFilter, primary.String()+" vs "+comparison.String())

	return FilterResult{
		Primary:    newView(primary.String(), a),
		Comparison: newView(comparison.String(), b),
		Stats:      core.Compare(a, b),
	}, nil
}

// DrillDown narrows to one entity of a dimension, then applies the selection.
func (s *Service) DrillDown(ctx context.Context, req DrillDownRequest) (DrillDownResult, error) {
	dd, err := s.drillDown(ctx, req)
	if err != nil {
		return DrillDownResult{}, err
	}
	return DrillDownResult{
		Dimension: dd.dim,
		Value:     req.Value,
		View:      newView(dd.filter, dd.view),
	}, nil
}

type drillDownView struct {
	view   *core.Dataset
	dim    Dimension
	filter string
}

func (s *Service) drillDown(ctx context.Context, req DrillDownRequest) (drillDownView, error) {
	if err := s.validate(&req); err != nil {
		return drillDownView{}, err
	}
	dim, err := ParseDimension(req.Dimension)
	if err != nil {
		return drillDownView{}, err
	}
	temporal, err := req.Selection.Filter()
	if err != nil {
		return drillDownView{}, err
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		return drillDownView{}, err
	}
	entity := core.EntityEquals{Field: dim.Field(), Value: req.Value}
	view, err := core.DrillDown(ds, entity, temporal)
	if err != nil {
		return drillDownView{}, err
	}

	s.logger.DebugContext(ctx, "Drill-down applied",
		append(log.NewFields().
			WithOperation(log.OpDrillDown).
			WithDrillDown(string(dim), req.Value, temporal.String()).
			ToSlice(), log.FieldRecords, view.Len())...)
	return drillDownView{view: view, dim: dim, filter: entity.String() + " & " + temporal.String()}, nil
}

// Options lists the distinct values of a dimension for selection lists.
func (s *Service) Options(ctx context.Context, dimension string) ([]string, error) {
	dim, err := ParseDimension(dimension)
	if err != nil {
		return nil, err
	}
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return core.Distinct(ds, dim.Field())
}

// Months lists the months of year that have activity. When dimension and
// value are set, only that entity's records are considered.
func (s *Service) Months(ctx context.Context, dimension, value string) ([]int, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if dimension != "" {
		dim, err := ParseDimension(dimension)
		if err != nil {
			return nil, err
		}
		ds, err = core.FilterByEntity(ds, dim.Field(), value)
		if err != nil {
			return nil, err
		}
	}
	return core.MonthsPresent(ds), nil
}

// Visualize prepares chart data for columns of a drill-down view.
func (s *Service) Visualize(ctx context.Context, req VisualizeRequest) ([]core.Visualization, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	dd, err := s.drillDown(ctx, req.DrillDown)
	if err != nil {
		return nil, err
	}
	out, err := core.PlanVisualizations(dd.view, req.Columns)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Visualizations planned",
		log.FieldOperation, log.OpVisualize,
		log.FieldColumns, len(out))
	return out, nil
}

// Columns returns the schema of the loaded dataset.
func (s *Service) Columns(ctx context.Context) ([]core.Column, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Columns(), nil
}

// Invalidate drops memoized datasets; all=false drops only the current one.
// trigger labels the caller in metrics.
func (s *Service) Invalidate(ctx context.Context, all bool, trigger string) (int, error) {
	metrics.RecordInvalidation(trigger)
	if all {
		return s.loader.Clear(ctx), nil
	}
	dropped, err := s.loader.Invalidate(ctx)
	if err != nil {
		return 0, err
	}
	if dropped {
		return 1, nil
	}
	return 0, nil
}
