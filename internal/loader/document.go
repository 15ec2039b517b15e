package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"vkfcheck/internal/model"
	"vkfcheck/internal/slogutil"
)

// Document is the YAML model format. It describes the same graph an IFC file
// yields, without geometry:
//
//	schema: IFC4
//	placements:
//	  - {id: 10, coordinates: [0, 0, 3.5], relativeTo: 11}
//	storeys:
//	  - {id: 1, name: EG, longName: Erdgeschoss, elevation: 0}
//	spaces:
//	  - id: 100
//	    name: R1
//	    decomposes: [1]
//	    quantitySets:
//	      - name: Qto_SpaceBaseQuantities
//	        quantities: [{name: NetFloorArea, value: 300}]
//
// JSON documents with the same fields are accepted.
type Document struct {
	Schema     string         `yaml:"schema"`
	Placements []PlacementDoc `yaml:"placements"`
	Storeys    []EntityDoc    `yaml:"storeys"`
	Spaces     []EntityDoc    `yaml:"spaces"`
	Products   []EntityDoc    `yaml:"products"`
}

// PlacementDoc is one placement node.
type PlacementDoc struct {
	ID          int64     `yaml:"id"`
	Coordinates []float64 `yaml:"coordinates"`
	Offset      []float64 `yaml:"offset"`
	RelativeTo  int64     `yaml:"relativeTo"`
}

// EntityDoc is one storey, space or other product. Relation lists hold
// parent ids; ids that match nothing produce a relation without a parent.
type EntityDoc struct {
	ID           int64            `yaml:"id"`
	Type         string           `yaml:"type"`
	Name         string           `yaml:"name"`
	LongName     *string          `yaml:"longName"`
	Elevation    *float64         `yaml:"elevation"`
	Placement    int64            `yaml:"placement"`
	Decomposes   []int64          `yaml:"decomposes"`
	ContainedIn  []int64          `yaml:"containedIn"`
	QuantitySets []QuantitySetDoc `yaml:"quantitySets"`
}

// QuantitySetDoc is a named quantity bundle.
type QuantitySetDoc struct {
	Name       string        `yaml:"name"`
	Quantities []QuantityDoc `yaml:"quantities"`
}

// QuantityDoc is one quantity. Kind defaults to area; a missing value is
// kept as an unreadable quantity.
type QuantityDoc struct {
	Name  string   `yaml:"name"`
	Kind  string   `yaml:"kind"`
	Value *float64 `yaml:"value"`
}

var validKinds = map[model.QuantityKind]bool{
	model.QuantityArea:   true,
	model.QuantityLength: true,
	model.QuantityVolume: true,
	model.QuantityCount:  true,
	model.QuantityWeight: true,
	model.QuantityTime:   true,
}

// DecodeDocument reads a YAML or JSON model document. Unknown fields are
// rejected.
func DecodeDocument(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty model document")
		}
		return nil, err
	}
	return &doc, nil
}

// ParseDocument decodes a document from bytes.
func ParseDocument(data []byte) (*Document, error) {
	return DecodeDocument(bytes.NewReader(data))
}

// Build turns the document into an in-memory graph. Duplicate ids and
// unknown quantity kinds are errors; dangling references are not.
func (d *Document) Build(logger *slog.Logger) (*model.Graph, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if err := d.assignIDs(); err != nil {
		return nil, err
	}

	g := model.NewGraph(d.Schema)

	placements := make(map[int64]*model.PlacementNode, len(d.Placements))
	for _, p := range d.Placements {
		node := g.AddPlacementWithID(model.EntityID(p.ID), p.Coordinates)
		if len(p.Offset) > 0 {
			node.SetOffset(p.Offset...)
		}
		placements[p.ID] = node
	}
	for _, p := range d.Placements {
		if p.RelativeTo == 0 {
			continue
		}
		parent, ok := placements[p.RelativeTo]
		if !ok {
			logger.Debug("placement parent not found", "placement", p.ID, "relativeTo", p.RelativeTo)
			continue
		}
		placements[p.ID].SetRelativeTo(parent)
	}

	type pending struct {
		doc  EntityDoc
		node *model.Node
	}
	var all []pending
	nodes := make(map[int64]*model.Node)

	add := func(docs []EntityDoc, typ model.EntityType) error {
		for _, e := range docs {
			t := typ
			if t == "" {
				if e.Type == "" {
					return fmt.Errorf("product %d: type is required", e.ID)
				}
				t = model.EntityType(e.Type)
			}
			n := g.AddEntityWithID(model.EntityID(e.ID), t, e.Name)
			if e.LongName != nil {
				n.SetLongName(*e.LongName)
			}
			if e.Elevation != nil {
				n.SetElevation(*e.Elevation)
			}
			if e.Placement != 0 {
				if p, ok := placements[e.Placement]; ok {
					n.SetPlacement(p)
				} else {
					logger.Debug("entity placement not found", "entity", e.ID, "placement", e.Placement)
				}
			}
			for _, qs := range e.QuantitySets {
				quantities, err := qs.build()
				if err != nil {
					return fmt.Errorf("entity %d: %w", e.ID, err)
				}
				n.AddQuantitySet(qs.Name, quantities...)
			}
			nodes[e.ID] = n
			all = append(all, pending{doc: e, node: n})
		}
		return nil
	}

	if err := add(d.Storeys, model.TypeBuildingStorey); err != nil {
		return nil, err
	}
	if err := add(d.Spaces, model.TypeSpace); err != nil {
		return nil, err
	}
	if err := add(d.Products, ""); err != nil {
		return nil, err
	}

	for _, p := range all {
		for _, id := range p.doc.Decomposes {
			p.node.AddRelation(relation(model.Aggregation, nodes, id))
		}
		for _, id := range p.doc.ContainedIn {
			p.node.AddRelation(relation(model.Containment, nodes, id))
		}
	}

	return g, nil
}

func relation(kind model.RelationKind, nodes map[int64]*model.Node, parentID int64) model.Relation {
	if n, ok := nodes[parentID]; ok {
		return model.Relation{Kind: kind, Parent: n}
	}
	return model.Relation{Kind: kind}
}

func (qs QuantitySetDoc) build() ([]model.Quantity, error) {
	out := make([]model.Quantity, 0, len(qs.Quantities))
	for _, q := range qs.Quantities {
		kind := model.QuantityKind(q.Kind)
		if kind == "" {
			kind = model.QuantityArea
		}
		if !validKinds[kind] {
			return nil, fmt.Errorf("quantity set %q: unknown quantity kind %q", qs.Name, q.Kind)
		}
		out = append(out, model.Quantity{Name: q.Name, Kind: kind, Value: q.Value})
	}
	return out, nil
}

// assignIDs checks explicit ids for duplicates and numbers the rest after
// the highest explicit id, in document order.
func (d *Document) assignIDs() error {
	seen := make(map[int64]string)
	var maxID int64

	claim := func(id int64, what string) error {
		if id < 0 {
			return fmt.Errorf("%s: negative id %d", what, id)
		}
		if id == 0 {
			return nil
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%s: duplicate id %d (already used by %s)", what, id, prev)
		}
		seen[id] = what
		if id > maxID {
			maxID = id
		}
		return nil
	}

	for i := range d.Placements {
		if err := claim(d.Placements[i].ID, fmt.Sprintf("placement #%d", i+1)); err != nil {
			return err
		}
	}
	sections := []struct {
		name string
		docs []EntityDoc
	}{
		{"storey", d.Storeys},
		{"space", d.Spaces},
		{"product", d.Products},
	}
	for _, s := range sections {
		for i := range s.docs {
			if err := claim(s.docs[i].ID, fmt.Sprintf("%s #%d", s.name, i+1)); err != nil {
				return err
			}
		}
	}

	next := func(id *int64) {
		if *id == 0 {
			maxID++
			*id = maxID
		}
	}
	for i := range d.Placements {
		next(&d.Placements[i].ID)
	}
	for _, s := range sections {
		for i := range s.docs {
			next(&s.docs[i].ID)
		}
	}
	return nil
}
