package render

import "math"

const (
	curveSegments   = 8
	ellipseSegments = 20
)

type affine struct {
	a, b, c, d, e, f float64
}

var identity = affine{a: 1, d: 1}

func (m affine) apply(p Point) Point {
	return Point{
		X: m.a*p.X + m.c*p.Y + m.e,
		Y: m.b*p.X + m.d*p.Y + m.f,
	}
}

func (m affine) mul(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

type style struct {
	m       affine
	fill    Color
	filled  bool
	stroke  Color
	stroked bool
	weight  float64
}

// Recorder implements Canvas by flattening every call into world-space
// commands. A frame's commands are collected with Take.
type Recorder struct {
	width  float64
	height float64
	cur    style
	stack  []style
	cmds   []Command
}

// NewRecorder creates a recorder for a canvas of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		width:  width,
		height: height,
		cur: style{
			m:       identity,
			fill:    Color{Color: white, A: 1},
			filled:  true,
			stroke:  Color{A: 1},
			stroked: true,
			weight:  1,
		},
	}
}

func (r *Recorder) Width() float64  { return r.width }
func (r *Recorder) Height() float64 { return r.height }

func (r *Recorder) Push() {
	r.stack = append(r.stack, r.cur)
}

// Pop restores the last pushed state. An unbalanced Pop is ignored.
func (r *Recorder) Pop() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(x, y float64) {
	r.cur.m = r.cur.m.mul(affine{a: 1, d: 1, e: x, f: y})
}

func (r *Recorder) Rotate(deg float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	r.cur.m = r.cur.m.mul(affine{a: cos, b: sin, c: -sin, d: cos})
}

func (r *Recorder) Fill(c Color) {
	r.cur.fill = c
	r.cur.filled = true
}

func (r *Recorder) NoFill() { r.cur.filled = false }

func (r *Recorder) Stroke(c Color) {
	r.cur.stroke = c
	r.cur.stroked = true
}

func (r *Recorder) NoStroke() { r.cur.stroked = false }

func (r *Recorder) StrokeWeight(w float64) {
	r.cur.weight = math.Max(0, w)
}

// Curve records a Catmull-Rom spline through points[1:len-1].
func (r *Recorder) Curve(points ...Point) {
	r.emit(catmullRom(points), false)
}

func (r *Recorder) Shape(points ...Point) {
	r.emit(points, false)
}

func (r *Recorder) Ellipse(x, y, diameter float64) {
	radius := diameter / 2
	pts := make([]Point, ellipseSegments)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / ellipseSegments)
		pts[i] = Point{X: x + cos*radius, Y: y + sin*radius}
	}
	r.emit(pts, true)
}

// Fade washes the whole canvas with c, ignoring the transform.
func (r *Recorder) Fade(c Color) {
	r.cmds = append(r.cmds, Command{Kind: KindFade, Fill: c, Filled: true})
}

// Take returns the commands recorded since the last call and clears them.
// The transform stack is reset so every frame starts from the origin.
func (r *Recorder) Take() []Command {
	cmds := r.cmds
	r.cmds = nil
	r.stack = r.stack[:0]
	r.cur.m = identity
	return cmds
}

func (r *Recorder) emit(points []Point, closed bool) {
	if len(points) == 0 || (!r.cur.filled && !r.cur.stroked) {
		return
	}
	world := make([]Point, len(points))
	for i, p := range points {
		world[i] = r.cur.m.apply(p)
	}
	r.cmds = append(r.cmds, Command{
		Kind:    KindShape,
		Points:  world,
		Closed:  closed,
		Fill:    r.cur.fill,
		Filled:  r.cur.filled,
		Stroke:  r.cur.stroke,
		Stroked: r.cur.stroked,
		Weight:  r.cur.weight,
	})
}

// catmullRom tessellates a uniform Catmull-Rom spline. With fewer than four
// points there is no spline segment and nothing is drawn.
func catmullRom(points []Point) []Point {
	if len(points) < 4 {
		return nil
	}
	out := make([]Point, 0, (len(points)-3)*curveSegments+1)
	for i := 1; i+2 < len(points); i++ {
		p0, p1, p2, p3 := points[i-1], points[i], points[i+1], points[i+2]
		for s := 0; s < curveSegments; s++ {
			t := float64(s) / curveSegments
			out = append(out, catmullPoint(p0, p1, p2, p3, t))
		}
	}
	out = append(out, points[len(points)-2])
	return out
}

func catmullPoint(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	f := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (-a+c)*t + (2*a-5*b+4*c-d)*t2 + (-a+3*b-3*c+d)*t3)
	}
	return Point{X: f(p0.X, p1.X, p2.X, p3.X), Y: f(p0.Y, p1.Y, p2.Y, p3.Y)}
}
