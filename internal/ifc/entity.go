package ifc

import "vkfcheck/internal/model"

type entity struct {
	id          model.EntityID
	typ         model.EntityType
	name        string
	hasName     bool
	longName    string
	hasLongName bool
	elevation   float64
	hasElev     bool
	placement   *placementNode
	decomposes  []model.Relation
	containedIn []model.Relation
	qsets       []model.QuantitySet
}

var _ model.Entity = (*entity)(nil)

func (e *entity) ID() model.EntityID     { return e.id }
func (e *entity) Type() model.EntityType { return e.typ }

func (e *entity) Name() (string, bool)     { return e.name, e.hasName }
func (e *entity) LongName() (string, bool) { return e.longName, e.hasLongName }

func (e *entity) Elevation() (float64, bool) { return e.elevation, e.hasElev }

func (e *entity) Placement() (model.Placement, bool) {
	if e.placement == nil {
		return nil, false
	}
	return e.placement, true
}

func (e *entity) Decomposes() []model.Relation      { return e.decomposes }
func (e *entity) ContainedIn() []model.Relation     { return e.containedIn }
func (e *entity) QuantitySets() []model.QuantitySet { return e.qsets }

// placementNode is an IfcLocalPlacement with its location already resolved.
type placementNode struct {
	id     model.EntityID
	coords []float64
	parent *placementNode
}

var _ model.Placement = (*placementNode)(nil)

func (p *placementNode) ID() model.EntityID { return p.id }

func (p *placementNode) Coordinates() ([]float64, bool) {
	return p.coords, p.coords != nil
}

// Offset is never set: IFC local placements always store their origin as a
// cartesian point.
func (p *placementNode) Offset() ([]float64, bool) { return nil, false }

func (p *placementNode) RelativeTo() (model.Placement, bool) {
	if p.parent == nil {
		return nil, false
	}
	return p.parent, true
}
