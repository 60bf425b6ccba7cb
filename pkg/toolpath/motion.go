// Package toolpath turns shape descriptors into ordered machine-motion
// sequences.
//
// A Toolpath is an ordered list of layers, each carrying the motion
// primitives that trace it. Primitive ordering within a layer is
// significant: outer perimeter first, then inner perimeter, then
// optional infill. Toolpaths are transient values built per request
// and discarded after emission.
package toolpath

// ArcDirection is the rotation sense of an arc move.
type ArcDirection int

const (
	// CW is a clockwise arc (G2)
	CW ArcDirection = iota
	// CCW is a counter-clockwise arc (G3)
	CCW
)

// String returns the direction name
func (d ArcDirection) String() string {
	if d == CW {
		return "CW"
	}
	return "CCW"
}

// MotionPrimitive is one motion or annotation in a toolpath. The
// variant set is closed: LinearMove, ArcMove, Comment.
type MotionPrimitive interface {
	isPrimitive()
}

// LinearMove is a straight move to (X, Y) with optional Z and feed.
// Zero Feed means the current feed rate is kept; zero HasZ leaves Z
// unchanged. Extrusion is the absolute E value in millimeters; moves
// with Extrude false are travel moves.
type LinearMove struct {
	X, Y float64
	Z    float64
	HasZ bool

	Feed float64 // mm/min; 0 keeps current

	Extrusion float64 // absolute E, mm
	Extrude   bool
}

// ArcMove is a circular move to (X, Y) around the center offset (I, J).
type ArcMove struct {
	X, Y      float64
	I, J      float64
	Direction ArcDirection

	Z    float64 // spiral arcs rise while sweeping
	HasZ bool

	Feed float64

	Extrusion float64
	Extrude   bool

	// Label is appended as a trailing comment on the rendered line.
	Label string
}

// Comment is an annotation line carried in the motion stream.
type Comment string

func (LinearMove) isPrimitive() {}
func (ArcMove) isPrimitive()    {}
func (Comment) isPrimitive()    {}

// Step is one layer together with its motion primitives.
type Step struct {
	Layer Layer
	Moves []MotionPrimitive
}

// Toolpath is the ordered motion sequence for one print.
type Toolpath struct {
	Steps []Step
}

// LayerCount returns the number of layers in the toolpath.
func (t *Toolpath) LayerCount() int {
	return len(t.Steps)
}
