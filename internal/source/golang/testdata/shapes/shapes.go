// Package shapes defines geometric primitives.
//
// Start with [Circle].
package shapes

import "io"

// Unit is the default length unit.
const Unit = "cm"

// Origin is the shared zero point.
var Origin = Point{}

var undocumented = 1

// Point is a location on the plane.
type Point struct {
	// X is the horizontal coordinate.
	X float64
	// Y is the vertical coordinate.
	Y float64

	Z      float64
	hidden int
}

// Shape is implemented by every figure.
type Shape interface {
	// Area returns the covered surface.
	Area() float64
}

// Named is a Shape that can print itself.
type Named interface {
	Shape
	io.Writer
	// Name returns the display name.
	Name() string
}

// Base carries the common label.
type Base struct {
	// Label names the figure.
	Label string
}

// Describe returns the label.
func (b Base) Describe() string { return b.Label }

// Circle is a round Shape.
type Circle struct {
	Base
	// Radius in Unit.
	Radius float64
}

// NewCircle returns a circle of radius r.
func NewCircle(r float64) *Circle {
	return &Circle{Radius: r}
}

// Area implements Shape.
func (c *Circle) Area() float64 { return 3 * c.Radius * c.Radius }

// Ring is a Circle with a hole.
type Ring struct {
	*Circle
	// Inner is the hole radius.
	Inner float64
}

// Scale multiplies the area of s by f.
func Scale(s Shape, f float64) float64 {
	return s.Area() * f
}

func helper() {}
