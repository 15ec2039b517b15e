// Package check combines the metric pipelines and the VKF rules into the
// results shown to users: building height with its category, and floor
// areas with the small-building and compartment comments.
package check

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vkfcheck/internal/config"
	"vkfcheck/internal/hierarchy"
	"vkfcheck/internal/metrics"
	"vkfcheck/internal/model"
	"vkfcheck/internal/output"
	"vkfcheck/internal/placement"
	"vkfcheck/internal/quantity"
	"vkfcheck/internal/slogutil"
	"vkfcheck/internal/vkf"
)

// Engine evaluates loaded models. It keeps no per-model state and may be
// shared between goroutines.
type Engine struct {
	rules  vkf.Rules
	height *metrics.HeightCalculator
	area   *metrics.AreaAggregator
	logger *slog.Logger
}

type engineOptions struct {
	rules      vkf.Rules
	maxHops    int
	areaNames  []string
	strategies []hierarchy.Strategy
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithRules replaces the default classification thresholds.
func WithRules(r vkf.Rules) Option {
	return func(o *engineOptions) { o.rules = r }
}

// WithMaxHops bounds placement chain walks.
func WithMaxHops(n int) Option {
	return func(o *engineOptions) { o.maxHops = n }
}

// WithAreaNames sets the quantity names read as floor area.
func WithAreaNames(names ...string) Option {
	return func(o *engineOptions) { o.areaNames = names }
}

// WithStrategies sets the storey resolution order.
func WithStrategies(s ...hierarchy.Strategy) Option {
	return func(o *engineOptions) { o.strategies = s }
}

// WithLogger sets the logger shared by all pipeline stages.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// NewEngine creates an engine with default rules, hop limit and quantity names.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		rules:   vkf.DefaultRules(),
		maxHops: placement.DefaultMaxHops,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slogutil.NewDiscardLogger()
	}

	resolver := placement.NewResolver(placement.WithMaxHops(o.maxHops), placement.WithLogger(o.logger))
	h := hierarchy.NewResolver(o.logger, o.strategies...)
	q := quantity.NewExtractor(o.areaNames...)

	return &Engine{
		rules:  o.rules,
		height: metrics.NewHeightCalculator(resolver, o.logger),
		area:   metrics.NewAreaAggregator(h, q, o.logger),
		logger: o.logger,
	}
}

// FromConfig creates an engine from the placement, quantity and rule sections.
func FromConfig(cfg *config.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewEngine(
		WithRules(cfg.Rules),
		WithMaxHops(cfg.Placement.MaxHops),
		WithAreaNames(cfg.Quantities.AreaNames...),
		WithLogger(logger),
	)
}

// Rules returns the thresholds the engine classifies with.
func (e *Engine) Rules() vkf.Rules {
	return e.rules
}

// ComputeHeight derives the building height and its category.
func (e *Engine) ComputeHeight(m model.Model) HeightResult {
	h := e.height.Compute(m)
	return HeightResult{
		ValueMeters: h.Value,
		Category:    e.rules.HeightCategory(h.Value),
		Reason:      h.Reason,
		Levels:      h.Levels,
	}
}

// ComputeArea derives per-storey and total floor area with their comments.
// Storeys are ordered by elevation, storeys without one last.
func (e *Engine) ComputeArea(m model.Model) AreaResult {
	a := e.area.Compute(m)

	rows := make([]StoreyArea, 0, len(a.Storeys))
	for _, s := range a.Storeys {
		rows = append(rows, StoreyArea{
			Name:      s.Name,
			Elevation: s.Elevation,
			AreaM2:    s.AreaM2,
			Comment:   e.rules.StoreyAreaComment(s.AreaM2),
		})
	}
	output.SortByElevation(rows, func(r StoreyArea) *float64 { return r.Elevation })

	return AreaResult{
		TotalM2:       a.Total,
		SmallBuilding: e.rules.SmallBuildingComment(a.Total),
		Storeys:       rows,
		Spaces:        a.Spaces,
		Unassigned:    a.Unassigned,
		Reason:        a.Reason,
	}
}

// Check runs the height and area pipelines concurrently. The model is only
// read. An absent metric in one pipeline never affects the other; the only
// error is a cancelled context.
func (e *Engine) Check(ctx context.Context, m model.Model) (*Report, error) {
	start := time.Now()
	report := &Report{Schema: m.Schema()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Height = e.ComputeHeight(m)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Area = e.ComputeArea(m)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("check complete",
		"height_category", report.Height.Category,
		"storeys", len(report.Area.Storeys),
		"duration", time.Since(start))
	return report, nil
}
