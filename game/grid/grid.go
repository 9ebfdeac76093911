// Package grid provides resolution-independent table coordinates.
//
// A Value pairs a major offset (one unit is half a card along the axis) with
// a minor offset (one unit is half of a card's corner mark, so two minor
// units fully reveal the rank and suit of the card underneath). Positive Y
// points down, positive X points right, and a higher Sort occludes a lower
// one.
package grid

// Value is a position along one axis.
type Value struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// V is shorthand for Value{major, minor}.
func V(major, minor int) Value {
	return Value{Major: major, Minor: minor}
}

// Add returns v + o.
func (v Value) Add(o Value) Value {
	return Value{Major: v.Major + o.Major, Minor: v.Minor + o.Minor}
}

// Sub returns v - o.
func (v Value) Sub(o Value) Value {
	return Value{Major: v.Major - o.Major, Minor: v.Minor - o.Minor}
}

// ToFloat resolves v against the size of one major and one minor unit.
func (v Value) ToFloat(major, minor float64) float64 {
	return float64(v.Major)*major + float64(v.Minor)*minor
}

// Location places a card on the table together with its draw order.
type Location struct {
	X    Value `json:"x"`
	Y    Value `json:"y"`
	Sort int   `json:"sort"`
}

// At builds a Location.
func At(x, y Value, sort int) Location {
	return Location{X: x, Y: y, Sort: sort}
}

// Add returns l + o, component-wise including Sort.
func (l Location) Add(o Location) Location {
	return Location{X: l.X.Add(o.X), Y: l.Y.Add(o.Y), Sort: l.Sort + o.Sort}
}

// Sub returns l - o, component-wise including Sort.
func (l Location) Sub(o Location) Location {
	return Location{X: l.X.Sub(o.X), Y: l.Y.Sub(o.Y), Sort: l.Sort - o.Sort}
}

// Point is a resolved position in host units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Scale maps grid units onto a host coordinate space.
type Scale struct {
	MajorX float64
	MinorX float64
	MajorY float64
	MinorY float64
	Depth  float64
}

// DefaultScale matches a 2.5 x 4.5 card laid out at half-card major steps.
var DefaultScale = Scale{MajorX: 1.25, MinorX: 0.25, MajorY: 2.25, MinorY: 0.25, Depth: 0.01}

// Resolve converts a Location into host units. Y is negated so that grid
// rows grow downwards in a Y-up host.
func (s Scale) Resolve(l Location) Point {
	return Point{
		X: l.X.ToFloat(s.MajorX, s.MinorX),
		Y: -l.Y.ToFloat(s.MajorY, s.MinorY),
		Z: float64(l.Sort) * s.Depth,
	}
}
