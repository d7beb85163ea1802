package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/loader"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// Loader returns the memoized catalog for a path.
type Loader interface {
	Load(ctx context.Context, path string) (*loader.Result, error)
	Loaded(path string) bool
}

// Pipeline runs the load, filter and present stages for one dashboard pass.
type Pipeline struct {
	loader  Loader
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// New creates a Pipeline reading the catalog at path through l.
func New(l Loader, path string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:  l,
		path:    path,
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer(observability.TracerName),
	}
}

// Path returns the catalog path the pipeline reads.
func (p *Pipeline) Path() string {
	return p.path
}

// CheckReadiness returns nil once the catalog has been loaded with at least
// one row, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.loader.Loaded(p.path) {
		return errors.New("earthquake catalog has not been loaded")
	}
	return nil
}

// Render runs one full pass for r. A missing catalog is not an error: the
// returned View carries the message and no data. Parse failures and invalid
// ranges are returned as errors.
func (p *Pipeline) Render(ctx context.Context, r domain.Range) (*View, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.render", trace.WithAttributes(
		attribute.Float64("range.min", r.Min),
		attribute.Float64("range.max", r.Max),
	))
	defer span.End()

	start := time.Now()
	view, err := p.render(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.metrics.Renders.WithLabelValues("error").Inc()
		return nil, err
	}

	outcome := "ok"
	if !view.HasData {
		outcome = "no_data"
	}
	p.metrics.Renders.WithLabelValues(outcome).Inc()
	p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("rows.filtered", view.FilteredCount))

	p.logger.Debug("render complete",
		"range", r.String(),
		"outcome", outcome,
		"filtered_rows", view.FilteredCount,
		"duration", time.Since(start),
	)
	return view, nil
}

func (p *Pipeline) render(ctx context.Context, r domain.Range) (*View, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	res, err := p.loader.Load(ctx, p.path)
	if err != nil {
		return nil, err
	}

	view := &View{
		Error:    res.Message,
		HasData:  res.HasData(),
		Range:    r,
		LoadedAt: res.LoadedAt,
		Source:   SourceCaption,
	}
	if !view.HasData {
		return view, nil
	}

	filtered := res.Table.Filter(r)
	p.metrics.FilteredRows.Observe(float64(filtered.Len()))
	present(view, res.Table, filtered)
	return view, nil
}

// Filtered returns the rows of the catalog whose magnitude lies in r. A
// missing catalog yields an empty table.
func (p *Pipeline) Filtered(ctx context.Context, r domain.Range) (*domain.Table, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	res, err := p.loader.Load(ctx, p.path)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return res.Table.Filter(r), nil
}
