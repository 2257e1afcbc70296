package render

import (
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Raster is a persistent framebuffer. Nothing clears it between frames, so
// every command composites on top of what earlier frames left behind.
type Raster struct {
	cols   int
	rows   int
	scaleX float64
	scaleY float64
	pix    []colorful.Color
	xs     []float64
}

// NewRaster maps a canvas of canvasW x canvasH onto cols x rows cells.
func NewRaster(cols, rows int, canvasW, canvasH float64) *Raster {
	r := &Raster{}
	r.Resize(cols, rows, canvasW, canvasH)
	return r
}

// Resize changes the cell grid and clears it.
func (r *Raster) Resize(cols, rows int, canvasW, canvasH float64) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	r.cols = cols
	r.rows = rows
	r.scaleX = float64(cols) / math.Max(1, canvasW)
	r.scaleY = float64(rows) / math.Max(1, canvasH)
	r.pix = make([]colorful.Color, cols*rows)
}

func (r *Raster) Cols() int { return r.cols }
func (r *Raster) Rows() int { return r.rows }

// At returns the colour of cell (x, y).
func (r *Raster) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows {
		return colorful.Color{}
	}
	return r.pix[y*r.cols+x]
}

// Apply composites commands in order.
func (r *Raster) Apply(cmds []Command) {
	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Kind {
		case KindFade:
			r.fade(cmd.Fill)
		case KindShape:
			pts := r.toCells(cmd.Points)
			if cmd.Filled && len(pts) >= 3 {
				r.fillPolygon(pts, cmd.Fill)
			}
			if cmd.Stroked && len(pts) >= 2 {
				r.strokePolyline(pts, cmd.Closed, cmd.Weight, cmd.Stroke)
			}
		}
	}
}

func (r *Raster) toCells(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X * r.scaleX, Y: p.Y * r.scaleY}
	}
	return out
}

func (r *Raster) fade(c Color) {
	for i := range r.pix {
		r.pix[i] = r.pix[i].BlendRgb(c.Color, c.A)
	}
}

func (r *Raster) blend(x, y int, c Color) {
	if x < 0 || y < 0 || x >= r.cols || y >= r.rows || c.A <= 0 {
		return
	}
	i := y*r.cols + x
	r.pix[i] = r.pix[i].BlendRgb(c.Color, c.A)
}

// fillPolygon is an even-odd scanline fill sampled at cell centres.
func (r *Raster) fillPolygon(pts []Point, c Color) {
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := clampInt(int(math.Floor(minY)), 0, r.rows-1)
	y1 := clampInt(int(math.Ceil(maxY)), 0, r.rows-1)

	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		xs := r.xs[:0]
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y <= cy && b.Y > cy) || (b.Y <= cy && a.Y > cy) {
				xs = append(xs, a.X+(cy-a.Y)/(b.Y-a.Y)*(b.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := clampInt(int(math.Ceil(xs[i]-0.5)), 0, r.cols)
			end := clampInt(int(math.Floor(xs[i+1]-0.5)), -1, r.cols-1)
			for x := start; x <= end; x++ {
				r.blend(x, y, c)
			}
		}
		r.xs = xs
	}
}

func (r *Raster) strokePolyline(pts []Point, closed bool, weight float64, c Color) {
	radius := math.Max(0.5, weight*math.Max(r.scaleX, r.scaleY)/2)
	for i := 0; i+1 < len(pts); i++ {
		r.strokeSegment(pts[i], pts[i+1], radius, c)
	}
	if closed {
		r.strokeSegment(pts[len(pts)-1], pts[0], radius, c)
	}
}

// strokeSegment marks every cell whose centre lies within radius of the
// segment. Each cell is blended once per segment.
func (r *Raster) strokeSegment(a, b Point, radius float64, c Color) {
	x0 := clampInt(int(math.Floor(math.Min(a.X, b.X)-radius)), 0, r.cols-1)
	x1 := clampInt(int(math.Ceil(math.Max(a.X, b.X)+radius)), 0, r.cols-1)
	y0 := clampInt(int(math.Floor(math.Min(a.Y, b.Y)-radius)), 0, r.rows-1)
	y1 := clampInt(int(math.Ceil(math.Max(a.Y, b.Y)+radius)), 0, r.rows-1)
	if math.Max(a.X, b.X)+radius < 0 || math.Min(a.X, b.X)-radius > float64(r.cols) ||
		math.Max(a.Y, b.Y)+radius < 0 || math.Min(a.Y, b.Y)-radius > float64(r.rows) {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if segmentDistance(p, a, b) <= radius {
				r.blend(x, y, c)
			}
		}
	}
}

func segmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := clamp01(((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq)
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
