package render

import "errors"

// ErrRendererQuit is returned by a backend whose window was closed.
var ErrRendererQuit = errors.New("renderer closed")

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Canvas is the drawing surface the scene drivers talk to. Angles are in
// degrees. Curve treats its first and last points as control points, so a
// curve through p1..pn is passed as p1,p1,...,pn,pn.
type Canvas interface {
	Width() float64
	Height() float64

	Push()
	Pop()
	Translate(x, y float64)
	Rotate(deg float64)

	Fill(c Color)
	NoFill()
	Stroke(c Color)
	NoStroke()
	StrokeWeight(w float64)

	Curve(points ...Point)
	Shape(points ...Point)
	Ellipse(x, y, diameter float64)
	Fade(c Color)
}

// Kind distinguishes recorded commands.
type Kind int

const (
	KindShape Kind = iota
	KindFade
)

// Command is one world-space drawing operation. Shapes are always filled
// as closed polygons; the outline is only closed when Closed is set.
type Command struct {
	Kind    Kind
	Points  []Point
	Closed  bool
	Fill    Color
	Filled  bool
	Stroke  Color
	Stroked bool
	Weight  float64
}
