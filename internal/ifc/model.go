// Package ifc exposes a parsed IFC exchange file through the model access
// interfaces. Only the entity subset the metric engine reads is mapped:
// spatial structure elements, local placements, the aggregation, containment
// and property-definition relations, and element quantities.
//
// All lookups are resolved once in New. A Model is immutable afterwards and
// safe for concurrent reads.
package ifc

import (
	"log/slog"
	"strings"

	"vkfcheck/internal/model"
	"vkfcheck/internal/slogutil"
	"vkfcheck/internal/step"
)

// Attribute positions shared by IFC2X3 and IFC4.
const (
	argName            = 2
	argObjectPlacement = 5
	argLongName        = 7
	argElevation       = 9

	argPlacementRelTo    = 0
	argRelativePlacement = 1

	argRelAggregatesParent   = 4
	argRelAggregatesChildren = 5

	argRelContainedElements  = 4
	argRelContainedStructure = 5

	argRelDefinesObjects    = 4
	argRelDefinesDefinition = 5

	argQuantitySetName  = 2
	argQuantitySetItems = 5

	argQuantityName  = 0
	argQuantityValue = 3
)

// canonicalTypes maps upper-case entity names to schema spelling.
var canonicalTypes = map[string]model.EntityType{
	"IFCBUILDINGSTOREY": model.TypeBuildingStorey,
	"IFCSPACE":          model.TypeSpace,
	"IFCBUILDING":       "IfcBuilding",
	"IFCSITE":           "IfcSite",
	"IFCPROJECT":        "IfcProject",
}

// spatialTypes carry LongName at argLongName.
var spatialTypes = map[string]bool{
	"IFCBUILDINGSTOREY": true,
	"IFCSPACE":          true,
	"IFCBUILDING":       true,
	"IFCSITE":           true,
}

var quantityKinds = map[string]model.QuantityKind{
	"IFCQUANTITYAREA":   model.QuantityArea,
	"IFCQUANTITYLENGTH": model.QuantityLength,
	"IFCQUANTITYVOLUME": model.QuantityVolume,
	"IFCQUANTITYCOUNT":  model.QuantityCount,
	"IFCQUANTITYWEIGHT": model.QuantityWeight,
	"IFCQUANTITYTIME":   model.QuantityTime,
}

// EntityTypeOf returns the entity type for an upper-case STEP entity name.
func EntityTypeOf(stepType string) model.EntityType {
	if t, ok := canonicalTypes[strings.ToUpper(stepType)]; ok {
		return t
	}
	return model.EntityType(strings.ToUpper(stepType))
}

// Model is a model.Model over a parsed exchange file.
type Model struct {
	schema     string
	units      Units
	entities   map[int64]*entity
	placements map[int64]*placementNode
	byType     map[model.EntityType][]model.Entity
	products   []model.Entity
}

var _ model.Model = (*Model)(nil)

// New indexes f. A nil logger discards diagnostics.
func New(f *step.File, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	m := &Model{
		schema:     f.Schema(),
		units:      resolveUnits(f),
		entities:   make(map[int64]*entity),
		placements: make(map[int64]*placementNode),
		byType:     make(map[model.EntityType][]model.Entity),
	}

	m.indexPlacements(f)
	m.indexEntities(f)
	stats := m.indexRelations(f)

	logger.Debug("ifc model indexed",
		"schema", m.schema,
		"instances", f.Len(),
		"entities", len(m.entities),
		"placements", len(m.placements),
		"products", len(m.products),
		"aggregations", stats.aggregations,
		"containments", stats.containments,
		"quantity_sets", stats.quantitySets,
		"length_factor", m.units.Length,
	)
	return m
}

// Schema returns the declared schema identifier.
func (m *Model) Schema() string {
	return m.schema
}

// Units returns the unit factors applied to lengths, areas and volumes.
func (m *Model) Units() Units {
	return m.units
}

// ByType returns entities of type t in file order. model.TypeProduct returns
// every placed product.
func (m *Model) ByType(t model.EntityType) []model.Entity {
	if t == model.TypeProduct {
		return m.products
	}
	return m.byType[t]
}

func (m *Model) indexPlacements(f *step.File) {
	local := f.ByType("IFCLOCALPLACEMENT")
	for _, in := range local {
		m.placements[in.ID] = &placementNode{
			id:     model.EntityID(in.ID),
			coords: m.location(f, in.Arg(argRelativePlacement)),
		}
	}
	for _, in := range local {
		if parentID, ok := in.Arg(argPlacementRelTo).AsRef(); ok {
			if parent, ok := m.placements[parentID]; ok {
				m.placements[in.ID].parent = parent
			}
		}
	}
}

// location reads Axis2Placement.Location -> CartesianPoint.Coordinates, scaled
// to metres.
func (m *Model) location(f *step.File, axis step.Value) []float64 {
	axisID, ok := axis.AsRef()
	if !ok {
		return nil
	}
	ax, ok := f.Get(axisID)
	if !ok {
		return nil
	}
	pointID, ok := ax.Arg(0).AsRef()
	if !ok {
		return nil
	}
	point, ok := f.Get(pointID)
	if !ok || point.Type != "IFCCARTESIANPOINT" {
		return nil
	}
	items, ok := point.Arg(0).AsList()
	if !ok {
		return nil
	}
	coords := make([]float64, 0, len(items))
	for _, item := range items {
		v, ok := item.AsFloat()
		if !ok {
			return nil
		}
		coords = append(coords, v*m.units.Length)
	}
	return coords
}

// indexEntities wraps spatial structure elements and placed products.
func (m *Model) indexEntities(f *step.File) {
	for _, in := range f.Instances() {
		var placement *placementNode
		if id, ok := in.Arg(argObjectPlacement).AsRef(); ok && !strings.HasPrefix(in.Type, "IFCREL") {
			placement = m.placements[id]
		}
		if !spatialTypes[in.Type] && placement == nil {
			continue
		}

		e := m.wrap(in)
		e.placement = placement
		if placement != nil {
			m.products = append(m.products, e)
		}
	}
}

func (m *Model) wrap(in *step.Instance) *entity {
	if e, ok := m.entities[in.ID]; ok {
		return e
	}

	e := &entity{id: model.EntityID(in.ID), typ: EntityTypeOf(in.Type)}
	if name, ok := in.Arg(argName).AsString(); ok {
		e.name, e.hasName = name, true
	}
	if spatialTypes[in.Type] {
		if ln, ok := in.Arg(argLongName).AsString(); ok {
			e.longName, e.hasLongName = ln, true
		}
	}
	if in.Type == "IFCBUILDINGSTOREY" {
		if z, ok := in.Arg(argElevation).AsFloat(); ok {
			e.elevation, e.hasElev = z*m.units.Length, true
		}
	}

	m.entities[in.ID] = e
	m.byType[e.typ] = append(m.byType[e.typ], e)
	return e
}

// lookup returns the wrapped entity for id, wrapping relation endpoints that
// are neither spatial nor placed (e.g. the project). Unknown ids yield nil.
func (m *Model) lookup(f *step.File, id int64) *entity {
	if e, ok := m.entities[id]; ok {
		return e
	}
	in, ok := f.Get(id)
	if !ok {
		return nil
	}
	return m.wrap(in)
}

type relationStats struct {
	aggregations int
	containments int
	quantitySets int
}

func (m *Model) indexRelations(f *step.File) relationStats {
	var stats relationStats

	for _, rel := range f.ByType("IFCRELAGGREGATES") {
		parentID, _ := rel.Arg(argRelAggregatesParent).AsRef()
		parent := m.relationParent(f, parentID)
		for _, childID := range rel.Arg(argRelAggregatesChildren).Refs() {
			if child := m.lookup(f, childID); child != nil {
				child.decomposes = append(child.decomposes, model.Relation{Kind: model.Aggregation, Parent: parent})
				stats.aggregations++
			}
		}
	}

	for _, rel := range f.ByType("IFCRELCONTAINEDINSPATIALSTRUCTURE") {
		parentID, _ := rel.Arg(argRelContainedStructure).AsRef()
		parent := m.relationParent(f, parentID)
		for _, childID := range rel.Arg(argRelContainedElements).Refs() {
			if child := m.lookup(f, childID); child != nil {
				child.containedIn = append(child.containedIn, model.Relation{Kind: model.Containment, Parent: parent})
				stats.containments++
			}
		}
	}

	qsets := make(map[int64]model.QuantitySet)
	for _, rel := range f.ByType("IFCRELDEFINESBYPROPERTIES") {
		defID, ok := rel.Arg(argRelDefinesDefinition).AsRef()
		if !ok {
			continue
		}
		qs, ok := qsets[defID]
		if !ok {
			def, found := f.Get(defID)
			if !found || def.Type != "IFCELEMENTQUANTITY" {
				continue
			}
			qs = m.quantitySet(f, def)
			qsets[defID] = qs
		}
		for _, objID := range rel.Arg(argRelDefinesObjects).Refs() {
			if obj := m.lookup(f, objID); obj != nil {
				obj.qsets = append(obj.qsets, qs)
				stats.quantitySets++
			}
		}
	}

	return stats
}

// relationParent returns the parent as an interface value, keeping it nil
// when the reference does not resolve.
func (m *Model) relationParent(f *step.File, id int64) model.Entity {
	if e := m.lookup(f, id); e != nil {
		return e
	}
	return nil
}

func (m *Model) quantitySet(f *step.File, def *step.Instance) model.QuantitySet {
	qs := model.QuantitySet{}
	qs.Name, _ = def.Arg(argQuantitySetName).AsString()

	for _, id := range def.Arg(argQuantitySetItems).Refs() {
		in, ok := f.Get(id)
		if !ok {
			continue
		}
		kind, ok := quantityKinds[in.Type]
		if !ok {
			continue
		}
		q := model.Quantity{Kind: kind}
		q.Name, _ = in.Arg(argQuantityName).AsString()
		if v, ok := in.Arg(argQuantityValue).AsFloat(); ok {
			v = m.scale(kind, v)
			q.Value = &v
		}
		qs.Quantities = append(qs.Quantities, q)
	}
	return qs
}

func (m *Model) scale(kind model.QuantityKind, v float64) float64 {
	switch kind {
	case model.QuantityLength:
		return v * m.units.Length
	case model.QuantityArea:
		return v * m.units.Area
	case model.QuantityVolume:
		return v * m.units.Volume
	default:
		return v
	}
}
