package check

import (
	"context"

	"vkfcheck/internal/loader"
	"vkfcheck/internal/model"
)

// ModelLoader opens a model file. *loader.Loader implements it.
type ModelLoader interface {
	Load(ctx context.Context, path string) (model.Model, error)
}

var _ ModelLoader = (*loader.Loader)(nil)

// HeightService loads a model from a path and computes its height.
type HeightService struct {
	loader ModelLoader
	engine *Engine
}

// NewHeightService creates a height service. A nil engine uses the defaults.
func NewHeightService(l ModelLoader, e *Engine) *HeightService {
	if e == nil {
		e = NewEngine()
	}
	return &HeightService{loader: l, engine: e}
}

// ComputeFromPath loads path and returns its height result. Load failures
// are returned as *errors.CheckError values from the loader.
func (s *HeightService) ComputeFromPath(ctx context.Context, path string) (*HeightResult, error) {
	m, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	res := s.engine.ComputeHeight(m)
	res.ModelPath = path
	return &res, nil
}

// AreaService loads a model from a path and aggregates its floor areas.
type AreaService struct {
	loader ModelLoader
	engine *Engine
}

// NewAreaService creates an area service. A nil engine uses the defaults.
func NewAreaService(l ModelLoader, e *Engine) *AreaService {
	if e == nil {
		e = NewEngine()
	}
	return &AreaService{loader: l, engine: e}
}

// ComputeFromPath loads path and returns its area result.
func (s *AreaService) ComputeFromPath(ctx context.Context, path string) (*AreaResult, error) {
	m, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	res := s.engine.ComputeArea(m)
	res.ModelPath = path
	return &res, nil
}

// CheckPath loads path once and runs both pipelines on it.
func (e *Engine) CheckPath(ctx context.Context, l ModelLoader, path string) (*Report, error) {
	m, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	report, err := e.Check(ctx, m)
	if err != nil {
		return nil, err
	}
	report.SetModelPath(path)
	return report, nil
}
