// Package model defines the narrow read-only access interface the metric engine
// consumes. Implementations wrap an already-parsed building model; every read
// reports absence through a boolean or nil instead of failing.
package model

// EntityID is a stable identity of an entity within one loaded model.
type EntityID int64

// EntityType names an entity class of the building model schema.
type EntityType string

const (
	// TypeBuildingStorey is a horizontal building level.
	TypeBuildingStorey EntityType = "IfcBuildingStorey"
	// TypeSpace is a room or area assigned to a storey.
	TypeSpace EntityType = "IfcSpace"
	// TypeProduct selects every placed product (used for summaries).
	TypeProduct EntityType = "IfcProduct"
)

// Model is an opaque handle to a loaded building model graph.
type Model interface {
	// Schema returns the schema identifier (e.g. "IFC4"), or "" if unknown.
	Schema() string
	// ByType returns all entities of the given type, in model order.
	ByType(t EntityType) []Entity
}

// Entity is a read-only view of a spatial entity (storey, space or product).
type Entity interface {
	ID() EntityID
	Type() EntityType
	Name() (string, bool)
	LongName() (string, bool)
	// Elevation returns the explicit elevation attribute. Only storeys carry one.
	Elevation() (float64, bool)
	Placement() (Placement, bool)
	// Decomposes returns aggregation relations in which the entity is the child.
	Decomposes() []Relation
	// ContainedIn returns spatial-containment relations in which the entity is the child.
	ContainedIn() []Relation
	// QuantitySets returns the quantity sets attached through property definitions.
	QuantitySets() []QuantitySet
}

// Placement is a node in a relative placement chain.
type Placement interface {
	ID() EntityID
	// Coordinates returns the structured coordinate triple of the local origin.
	Coordinates() ([]float64, bool)
	// Offset returns the local origin when it is stored as a raw value sequence.
	Offset() ([]float64, bool)
	// RelativeTo returns the parent placement node.
	RelativeTo() (Placement, bool)
}

// RelationKind distinguishes the two containment relation kinds.
type RelationKind int

const (
	// Aggregation: the child decomposes a parent spatial entity.
	Aggregation RelationKind = iota
	// Containment: the child is contained in a parent spatial structure.
	Containment
)

// String returns the relation kind name.
func (k RelationKind) String() string {
	switch k {
	case Aggregation:
		return "aggregation"
	case Containment:
		return "containment"
	default:
		return "unknown"
	}
}

// Relation links one child to one parent. Parent is nil when unreadable.
type Relation struct {
	Kind   RelationKind
	Parent Entity
}

// QuantityKind tags the measurement kind of a quantity.
type QuantityKind string

const (
	QuantityArea   QuantityKind = "area"
	QuantityLength QuantityKind = "length"
	QuantityVolume QuantityKind = "volume"
	QuantityCount  QuantityKind = "count"
	QuantityWeight QuantityKind = "weight"
	QuantityTime   QuantityKind = "time"
)

// Quantity is one named measured value. Value is nil when unreadable.
type Quantity struct {
	Name  string
	Kind  QuantityKind
	Value *float64
}

// QuantitySet is a named bundle of quantities attached to an entity.
type QuantitySet struct {
	Name       string
	Quantities []Quantity
}

// IsA reports whether e is non-nil and of type t.
func IsA(e Entity, t EntityType) bool {
	return e != nil && e.Type() == t
}

// DisplayName returns the long name if set, else the name, else "".
func DisplayName(e Entity) string {
	if e == nil {
		return ""
	}
	if ln, ok := e.LongName(); ok && ln != "" {
		return ln
	}
	if n, ok := e.Name(); ok {
		return n
	}
	return ""
}
