// Package hierarchy assigns spaces to their owning storeys.
//
// A space's storey is found by trying an ordered list of strategies. The
// default order checks aggregation relations before spatial containment, so
// aggregation wins when both point at different storeys.
package hierarchy

import (
	"log/slog"

	"vkfcheck/internal/model"
	"vkfcheck/internal/slogutil"
)

// Strategy finds the owning storey of a space through one relation kind.
type Strategy interface {
	Name() string
	// Storey returns the first storey reachable through this strategy's relations.
	Storey(space model.Entity) (model.Entity, bool)
}

// AggregationStrategy follows aggregation relations (space decomposes storey).
type AggregationStrategy struct{}

func (AggregationStrategy) Name() string { return "aggregation" }

func (AggregationStrategy) Storey(space model.Entity) (model.Entity, bool) {
	return firstStoreyParent(space.Decomposes())
}

// ContainmentStrategy follows spatial-containment relations.
type ContainmentStrategy struct{}

func (ContainmentStrategy) Name() string { return "containment" }

func (ContainmentStrategy) Storey(space model.Entity) (model.Entity, bool) {
	return firstStoreyParent(space.ContainedIn())
}

func firstStoreyParent(rels []model.Relation) (model.Entity, bool) {
	for _, rel := range rels {
		if model.IsA(rel.Parent, model.TypeBuildingStorey) {
			return rel.Parent, true
		}
	}
	return nil, false
}

// DefaultStrategies returns aggregation first, then containment.
func DefaultStrategies() []Strategy {
	return []Strategy{AggregationStrategy{}, ContainmentStrategy{}}
}

// Assignment is one storey with the spaces it owns.
type Assignment struct {
	Storey model.Entity
	Spaces []model.Entity
	// Via maps each owned space to the strategy that assigned it.
	Via map[model.EntityID]string
}

// Result partitions spaces by storey. Storeys keep input order; storeys first
// met through a relation are appended after the pre-seeded ones.
type Result struct {
	Storeys    []*Assignment
	Unassigned []model.Entity
	index      map[model.EntityID]*Assignment
}

// SpaceCount returns the number of assigned spaces.
func (r *Result) SpaceCount() int {
	n := 0
	for _, a := range r.Storeys {
		n += len(a.Spaces)
	}
	return n
}

// Resolver applies strategies in order.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver creates a resolver. An empty strategy list uses DefaultStrategies.
func NewResolver(logger *slog.Logger, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// Owner returns the storey owning space and the name of the strategy that found it.
func (r *Resolver) Owner(space model.Entity) (model.Entity, string, bool) {
	if space == nil {
		return nil, "", false
	}
	for _, s := range r.strategies {
		if storey, ok := s.Storey(space); ok {
			return storey, s.Name(), true
		}
	}
	return nil, "", false
}

// Resolve maps every storey to its owned spaces. Every given storey appears in
// the result, possibly with no spaces. Spaces without a storey are listed as
// unassigned and otherwise ignored.
func (r *Resolver) Resolve(storeys, spaces []model.Entity) *Result {
	res := &Result{index: make(map[model.EntityID]*Assignment, len(storeys))}
	for _, s := range storeys {
		if s != nil {
			res.ensure(s)
		}
	}

	for _, space := range spaces {
		if space == nil {
			continue
		}
		storey, via, ok := r.Owner(space)
		if !ok {
			r.logger.Debug("space has no storey", "space", space.ID(), "name", model.DisplayName(space))
			res.Unassigned = append(res.Unassigned, space)
			continue
		}
		a := res.ensure(storey)
		a.Spaces = append(a.Spaces, space)
		a.Via[space.ID()] = via
	}

	r.logger.Debug("spaces resolved",
		"storeys", len(res.Storeys),
		"assigned", res.SpaceCount(),
		"unassigned", len(res.Unassigned))
	return res
}

func (r *Result) ensure(storey model.Entity) *Assignment {
	if a, ok := r.index[storey.ID()]; ok {
		return a
	}
	a := &Assignment{Storey: storey, Via: make(map[model.EntityID]string)}
	r.index[storey.ID()] = a
	r.Storeys = append(r.Storeys, a)
	return a
}
