package tp

import (
	"slices"
	"strings"
	"time"
)

// Position is a stored point from the /POS block: P[n:"comment"]{...}.
type Position struct {
	ID      int
	Comment string
	Line    int // line of the P[n] header
	Groups  []PositionGroup
}

// PositionGroup is one motion group of a position (GP1, GP2, ...).
type PositionGroup struct {
	Group     int
	UserFrame int // -1 if absent
	ToolFrame int // -1 if absent
	Config    string
	Fields    []PositionField
}

// PositionField is a single coordinate: X = 100.000 mm, J1 = 10.0 deg.
type PositionField struct {
	Name  string
	Value float64
	Unit  string
	Raw   string // value text as written, without the unit
	Valid bool   // false when Raw did not parse as a number
}

// Clone returns a deep copy of p.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	c := *p
	c.Groups = make([]PositionGroup, len(p.Groups))
	for i, g := range p.Groups {
		g.Fields = slices.Clone(g.Fields)
		c.Groups[i] = g
	}
	return &c
}

// Values returns the numeric coordinate values of the first group in order.
// Fields that did not parse are skipped.
func (p *Position) Values() []float64 {
	if p == nil || len(p.Groups) == 0 {
		return nil
	}
	var out []float64
	for _, f := range p.Groups[0].Fields {
		if f.Valid {
			out = append(out, f.Value)
		}
	}
	return out
}

// Field returns the named coordinate of the first group.
func (p *Position) Field(name string) (PositionField, bool) {
	if p == nil || len(p.Groups) == 0 {
		return PositionField{}, false
	}
	for _, f := range p.Groups[0].Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return PositionField{}, false
}

// Representation reports whether the position is cartesian or joint.
func (p *Position) Representation() Representation {
	if _, ok := p.Field("X"); ok {
		return RepresentationCartesian
	}
	if _, ok := p.Field("J1"); ok {
		return RepresentationJoint
	}
	return RepresentationUnknown
}

// Malformed reports whether any field kept an unparsed raw value.
func (p *Position) Malformed() bool {
	if p == nil {
		return false
	}
	for _, g := range p.Groups {
		if slices.ContainsFunc(g.Fields, func(f PositionField) bool { return !f.Valid }) {
			return true
		}
	}
	return false
}

// Attributes holds the /ATTR block of a program.
type Attributes struct {
	Owner      string
	Comment    string
	Size       int // PROG_SIZE
	LineCount  int // declared LINE_COUNT
	MemorySize int
	Created    time.Time
	Modified   time.Time
	Protect    string

	// Fields holds every KEY = VALUE pair as written, in declaration order.
	Fields []AttributeField
}

// AttributeField is a raw attribute line.
type AttributeField struct {
	Key   string
	Value string
	Line  int
}

// Get returns the raw value of the first field named key.
func (a Attributes) Get(key string) (string, bool) {
	for _, f := range a.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}
