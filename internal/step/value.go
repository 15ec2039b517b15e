// Package step reads ISO 10303-21 ("STEP physical file") text, the exchange
// encoding of IFC models. It parses the header schema declaration and the
// entity instances of the DATA section into untyped values; mapping those
// values onto a schema is left to callers.
package step

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull    Kind = iota // $
	KindDerived             // *
	KindInteger
	KindReal
	KindString
	KindEnum   // .ELEMENT.
	KindRef    // #12
	KindList   // (a, b)
	KindTyped  // IFCLABEL('x')
	KindBinary // "0FF"
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindDerived:
		return "derived"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindRef:
		return "ref"
	case KindList:
		return "list"
	case KindTyped:
		return "typed"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is one attribute value. Which field is meaningful depends on Kind:
// Int for integers, Real for reals, Ref for references, Str for strings,
// enums, binaries and the type name of typed values, List for lists and
// the wrapped value of typed values.
type Value struct {
	Kind Kind
	Int  int64
	Real float64
	Ref  int64
	Str  string
	List []Value
}

// Null is the "$" value.
var Null = Value{Kind: KindNull}

// IsNull reports whether v is unset ($ or *).
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindDerived
}

// unwrap returns the inner value of a typed value such as IFCLENGTHMEASURE(3.).
func (v Value) unwrap() Value {
	for v.Kind == KindTyped && len(v.List) == 1 {
		v = v.List[0]
	}
	return v
}

// AsFloat returns an integer or real value, unwrapping typed values.
func (v Value) AsFloat() (float64, bool) {
	v = v.unwrap()
	switch v.Kind {
	case KindReal:
		return v.Real, true
	case KindInteger:
		return float64(v.Int), true
	default:
		return 0, false
	}
}

// AsString returns a string value, unwrapping typed values.
func (v Value) AsString() (string, bool) {
	v = v.unwrap()
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsEnum returns an enumeration literal without its dots.
func (v Value) AsEnum() (string, bool) {
	v = v.unwrap()
	if v.Kind != KindEnum {
		return "", false
	}
	return v.Str, true
}

// AsRef returns the instance id of a reference.
func (v Value) AsRef() (int64, bool) {
	if v.Kind != KindRef {
		return 0, false
	}
	return v.Ref, true
}

// AsList returns list items.
func (v Value) AsList() ([]Value, bool) {
	v = v.unwrap()
	if v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

// Refs returns the references held by v, which may be a single reference or
// a list of them. Other items are skipped.
func (v Value) Refs() []int64 {
	if id, ok := v.AsRef(); ok {
		return []int64{id}
	}
	items, _ := v.AsList()
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if id, ok := item.AsRef(); ok {
			out = append(out, id)
		}
	}
	return out
}

// String renders v in STEP syntax. Strings are rendered decoded.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "$"
	case KindDerived:
		return "*"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		s := strconv.FormatFloat(v.Real, 'G', -1, 64)
		if !strings.ContainsAny(s, ".E") {
			s += "."
		}
		return s
	case KindString:
		return "'" + strings.ReplaceAll(v.Str, "'", "''") + "'"
	case KindEnum:
		return "." + v.Str + "."
	case KindRef:
		return "#" + strconv.FormatInt(v.Ref, 10)
	case KindBinary:
		return `"` + v.Str + `"`
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case KindTyped:
		inner := ""
		if len(v.List) == 1 {
			inner = v.List[0].String()
		}
		return v.Str + "(" + inner + ")"
	default:
		return "?"
	}
}

// Instance is one entity instance of the DATA section.
type Instance struct {
	ID int64
	// Type is the upper-case entity name, e.g. IFCBUILDINGSTOREY. For a
	// complex instance it is the first part's name.
	Type string
	Args []Value
	// Parts holds every partial entity of a complex instance, in file order.
	Parts []Part
	Line  int
}

// Part is one partial entity value of a complex instance.
type Part struct {
	Type string
	Args []Value
}

// Arg returns the attribute at index i, or Null when out of range.
func (in *Instance) Arg(i int) Value {
	if in == nil || i < 0 || i >= len(in.Args) {
		return Null
	}
	return in.Args[i]
}

// File is a parsed exchange structure.
type File struct {
	// Schemas lists the FILE_SCHEMA identifiers, e.g. ["IFC4"].
	Schemas []string
	// Header holds the header entities by name (FILE_DESCRIPTION, FILE_NAME, ...).
	Header    map[string][]Value
	instances map[int64]*Instance
	order     []int64
}

func newFile() *File {
	return &File{
		Header:    make(map[string][]Value),
		instances: make(map[int64]*Instance),
	}
}

// Schema returns the first declared schema, or "".
func (f *File) Schema() string {
	if len(f.Schemas) == 0 {
		return ""
	}
	return f.Schemas[0]
}

// Get returns the instance with the given id.
func (f *File) Get(id int64) (*Instance, bool) {
	in, ok := f.instances[id]
	return in, ok
}

// Len returns the number of instances.
func (f *File) Len() int {
	return len(f.order)
}

// Instances returns all instances in file order.
func (f *File) Instances() []*Instance {
	out := make([]*Instance, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.instances[id])
	}
	return out
}

// ByType returns the instances of an entity type in file order. The match
// is case-insensitive.
func (f *File) ByType(typ string) []*Instance {
	typ = strings.ToUpper(typ)
	var out []*Instance
	for _, id := range f.order {
		if in := f.instances[id]; in.Type == typ {
			out = append(out, in)
		}
	}
	return out
}

func (f *File) add(in *Instance) {
	if _, dup := f.instances[in.ID]; !dup {
		f.order = append(f.order, in.ID)
	}
	f.instances[in.ID] = in
}
