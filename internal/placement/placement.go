// Package placement resolves the absolute vertical coordinate of a spatial
// entity by summing local offsets along its relative placement chain.
//
// Resolution never fails. A walk stops at the chain root, at the hop limit, or
// when it would revisit a node, and returns the offset accumulated so far.
package placement

import (
	"log/slog"

	"vkfcheck/internal/model"
	"vkfcheck/internal/slogutil"
)

// DefaultMaxHops is the maximum number of placement nodes summed in one walk.
const DefaultMaxHops = 64

// StopReason tells why a placement walk ended.
type StopReason string

const (
	// StopRoot: the last node had no parent.
	StopRoot StopReason = "root"
	// StopHopLimit: the hop limit was reached with nodes left in the chain.
	StopHopLimit StopReason = "hop_limit"
	// StopCycle: the next node was already visited in this walk.
	StopCycle StopReason = "cycle"
	// StopNoPlacement: there was no placement to walk.
	StopNoPlacement StopReason = "no_placement"
)

// Walk is the outcome of one placement chain resolution.
type Walk struct {
	Z    float64    `json:"z"`
	Hops int        `json:"hops"`
	Stop StopReason `json:"stop"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxHops overrides the hop limit. Values below 1 are ignored.
func WithMaxHops(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxHops = n
		}
	}
}

// WithLogger sets the logger used for walk diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver computes absolute vertical coordinates. It holds no per-walk state
// and is safe for concurrent use.
type Resolver struct {
	maxHops int
	logger  *slog.Logger
}

// NewResolver creates a resolver with DefaultMaxHops and a discard logger.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		maxHops: DefaultMaxHops,
		logger:  slogutil.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AbsoluteZ returns the entity's explicit elevation if it has one, otherwise
// the sum of offsets along its placement chain. Missing data yields 0.0.
func (r *Resolver) AbsoluteZ(e model.Entity) float64 {
	if e == nil {
		return 0
	}
	if z, ok := e.Elevation(); ok {
		return z
	}
	p, ok := e.Placement()
	if !ok {
		return 0
	}
	return r.Walk(p).Z
}

// Walk sums local z offsets from start towards the chain root.
func (r *Resolver) Walk(start model.Placement) Walk {
	if start == nil {
		return Walk{Stop: StopNoPlacement}
	}

	w := Walk{Stop: StopRoot}
	seen := make(map[model.EntityID]struct{}, 8)
	cur := start
	for {
		if w.Hops >= r.maxHops {
			w.Stop = StopHopLimit
			r.logger.Debug("placement chain hit hop limit",
				"start", start.ID(),
				"max_hops", r.maxHops,
				"z", w.Z,
			)
			return w
		}

		id := cur.ID()
		if _, dup := seen[id]; dup {
			w.Stop = StopCycle
			r.logger.Debug("placement cycle detected",
				"start", start.ID(),
				"placement", id,
				"hops", w.Hops,
			)
			return w
		}
		seen[id] = struct{}{}

		w.Z += LocalZ(cur)
		w.Hops++

		parent, ok := cur.RelativeTo()
		if !ok || parent == nil {
			return w
		}
		cur = parent
	}
}

// LocalZ reads the local vertical offset of a node: the third coordinate of
// its structured location, else the third raw offset value, else 0.0.
func LocalZ(p model.Placement) float64 {
	if p == nil {
		return 0
	}
	if c, ok := p.Coordinates(); ok && len(c) > 2 {
		return c[2]
	}
	if o, ok := p.Offset(); ok && len(o) > 2 {
		return o[2]
	}
	return 0
}
