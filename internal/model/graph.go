package model

// Graph is an in-memory Model. It backs YAML model documents and tests.
// A Graph is built once and then only read; it is safe for concurrent reads.
type Graph struct {
	schema string
	nextID EntityID
	nodes  []*Node
}

// NewGraph creates an empty graph with the given schema identifier.
func NewGraph(schema string) *Graph {
	return &Graph{schema: schema}
}

// Schema returns the schema identifier.
func (g *Graph) Schema() string {
	return g.schema
}

// ByType returns all nodes of type t in insertion order.
// TypeProduct returns every node.
func (g *Graph) ByType(t EntityType) []Entity {
	var out []Entity
	for _, n := range g.nodes {
		if t == TypeProduct || n.typ == t {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) allocID(id EntityID) EntityID {
	if id <= 0 {
		g.nextID++
		return g.nextID
	}
	if id > g.nextID {
		g.nextID = id
	}
	return id
}

// AddEntity adds a node of type t with an automatically assigned ID.
func (g *Graph) AddEntity(t EntityType, name string) *Node {
	return g.AddEntityWithID(0, t, name)
}

// AddEntityWithID adds a node with an explicit ID; id <= 0 assigns one.
func (g *Graph) AddEntityWithID(id EntityID, t EntityType, name string) *Node {
	n := &Node{id: g.allocID(id), typ: t, name: name, hasName: name != ""}
	g.nodes = append(g.nodes, n)
	return n
}

// AddStorey adds a building storey.
func (g *Graph) AddStorey(name string) *Node {
	return g.AddEntity(TypeBuildingStorey, name)
}

// AddSpace adds a space.
func (g *Graph) AddSpace(name string) *Node {
	return g.AddEntity(TypeSpace, name)
}

// AddPlacement adds a placement node whose local origin is the structured
// coordinate triple (0, 0, z).
func (g *Graph) AddPlacement(z float64) *PlacementNode {
	return &PlacementNode{id: g.allocID(0), coords: []float64{0, 0, z}}
}

// AddRawPlacement adds a placement node whose local origin is stored as a raw
// value sequence instead of a coordinate triple.
func (g *Graph) AddRawPlacement(offset ...float64) *PlacementNode {
	return &PlacementNode{id: g.allocID(0), offset: offset}
}

// AddEmptyPlacement adds a placement node without a readable local origin.
func (g *Graph) AddEmptyPlacement() *PlacementNode {
	return &PlacementNode{id: g.allocID(0)}
}

// AddPlacementWithID adds a placement node with an explicit ID and optional
// coordinates; nil coords leaves the origin unreadable.
func (g *Graph) AddPlacementWithID(id EntityID, coords []float64) *PlacementNode {
	return &PlacementNode{id: g.allocID(id), coords: coords}
}

// Aggregate records that child decomposes parent.
func (g *Graph) Aggregate(parent, child *Node) {
	child.decomposes = append(child.decomposes, Relation{Kind: Aggregation, Parent: parent})
}

// Contain records that child is contained in parent.
func (g *Graph) Contain(parent, child *Node) {
	child.containedIn = append(child.containedIn, Relation{Kind: Containment, Parent: parent})
}

// Node is a Graph entity.
type Node struct {
	id          EntityID
	typ         EntityType
	name        string
	hasName     bool
	longName    string
	hasLongName bool
	elevation   float64
	hasElev     bool
	placement   *PlacementNode
	decomposes  []Relation
	containedIn []Relation
	qsets       []QuantitySet
}

func (n *Node) ID() EntityID     { return n.id }
func (n *Node) Type() EntityType { return n.typ }

func (n *Node) Name() (string, bool)     { return n.name, n.hasName }
func (n *Node) LongName() (string, bool) { return n.longName, n.hasLongName }

func (n *Node) Elevation() (float64, bool) { return n.elevation, n.hasElev }

func (n *Node) Placement() (Placement, bool) {
	if n.placement == nil {
		return nil, false
	}
	return n.placement, true
}

func (n *Node) Decomposes() []Relation      { return n.decomposes }
func (n *Node) ContainedIn() []Relation     { return n.containedIn }
func (n *Node) QuantitySets() []QuantitySet { return n.qsets }

// SetLongName sets the long name.
func (n *Node) SetLongName(s string) *Node {
	n.longName, n.hasLongName = s, true
	return n
}

// SetElevation sets the explicit elevation.
func (n *Node) SetElevation(z float64) *Node {
	n.elevation, n.hasElev = z, true
	return n
}

// SetPlacement attaches a placement node.
func (n *Node) SetPlacement(p *PlacementNode) *Node {
	n.placement = p
	return n
}

// AddRelation appends a raw relation, including ones with a nil parent.
func (n *Node) AddRelation(r Relation) *Node {
	switch r.Kind {
	case Aggregation:
		n.decomposes = append(n.decomposes, r)
	case Containment:
		n.containedIn = append(n.containedIn, r)
	}
	return n
}

// AddQuantitySet attaches a quantity set.
func (n *Node) AddQuantitySet(name string, qs ...Quantity) *Node {
	n.qsets = append(n.qsets, QuantitySet{Name: name, Quantities: qs})
	return n
}

// PlacementNode is a Graph placement.
type PlacementNode struct {
	id     EntityID
	coords []float64
	offset []float64
	parent *PlacementNode
}

func (p *PlacementNode) ID() EntityID { return p.id }

func (p *PlacementNode) Coordinates() ([]float64, bool) {
	return p.coords, p.coords != nil
}

func (p *PlacementNode) Offset() ([]float64, bool) {
	return p.offset, p.offset != nil
}

func (p *PlacementNode) RelativeTo() (Placement, bool) {
	if p.parent == nil {
		return nil, false
	}
	return p.parent, true
}

// SetOffset sets the raw offset sequence.
func (p *PlacementNode) SetOffset(offset ...float64) *PlacementNode {
	p.offset = offset
	return p
}

// SetRelativeTo sets the parent placement. Cycles are allowed.
func (p *PlacementNode) SetRelativeTo(parent *PlacementNode) *PlacementNode {
	p.parent = parent
	return p
}

// AreaQuantity builds an area quantity with a value.
func AreaQuantity(name string, v float64) Quantity {
	return Quantity{Name: name, Kind: QuantityArea, Value: &v}
}

// LengthQuantity builds a length quantity with a value.
func LengthQuantity(name string, v float64) Quantity {
	return Quantity{Name: name, Kind: QuantityLength, Value: &v}
}
