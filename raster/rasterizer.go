// seehuhn.de/go/paint - a touch-driven raster paint engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package raster computes anti-aliased pixel coverage for stroked
// polylines.
//
// Coverage is the fraction of each pixel's area covered by the stroke,
// from 0 (outside) to 1 (inside). The paint engine uses it twice: to
// threshold strokes into a boundary mask, and to blend stroke colours
// into the displayed frame.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64 // start point
	x1, y1 float64 // end point
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) top() float64    { return min(e.y0, e.y1) }
func (e *edge) bottom() float64 { return max(e.y0, e.y1) }

// xAt returns the x coordinate of the edge's supporting line at height y.
func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// EmitFunc receives the coverage of one scanline. The slice holds the
// coverage of pixels xMin, xMin+1, ... and is only valid for the duration
// of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// Rasterizer converts stroked polylines to pixel coverage values.
// Create one instance and reuse it for many strokes; internal buffers grow
// as needed and are kept between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds output to this device-coordinate rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness is the maximum distance, in device pixels, between a round
	// cap or join and its polygonal approximation. Must be positive.
	Flatness float64

	// Width is the stroke thickness in user-space units.
	Width float64

	// Cap is the style for the ends of open subpaths.
	Cap graphics.LineCapStyle

	// Join is the style for corners between segments.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins. Must be at least 1.
	MiterLimit float64

	cover  []float32 // per-cell change of the accumulated winding
	area   []float32 // per-cell signed area; reused as output
	edges  []edge
	active []int // indices into edges

	poly     []vec.Vec2 // outline polygons, all contiguous
	polyEnds []int      // end index of each polygon in poly
	pts      []vec.Vec2 // vertices of the subpath being stroked

	bboxEmpty          bool
	bboxXMin, bboxXMax float64
	bboxYMin, bboxYMax float64
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with
// round caps and joins and unit width.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1.0,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: defaultMiterLimit,
	}
}

// Reset restores the default parameters for a new clip rectangle while
// keeping the capacity of the internal buffers.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1.0
	r.Cap = graphics.LineCapRound
	r.Join = graphics.LineJoinRound
	r.MiterLimit = defaultMiterLimit

	r.cover = r.cover[:0]
	r.area = r.area[:0]
	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.poly = r.poly[:0]
	r.polyEnds = r.polyEnds[:0]
	r.pts = r.pts[:0]
}

// toDevice applies the CTM to a point.
func (r *Rasterizer) toDevice(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*p.X + r.CTM[2]*p.Y + r.CTM[4],
		Y: r.CTM[1]*p.X + r.CTM[3]*p.Y + r.CTM[5],
	}
}

// deviceScale returns the largest factor by which the CTM stretches a
// user-space length.
func (r *Rasterizer) deviceScale() float64 {
	sx := math.Hypot(r.CTM[0], r.CTM[1])
	sy := math.Hypot(r.CTM[2], r.CTM[3])
	return max(sx, sy)
}

// addEdge transforms a user-space segment to device space and appends it
// to the edge list.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	d0 := r.toDevice(p0)
	d1 := r.toDevice(p1)

	dy := d1.Y - d0.Y
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: d0.X, y0: d0.Y,
		x1: d1.X, y1: d1.Y,
		dxdy: (d1.X - d0.X) / dy,
	})

	if r.bboxEmpty {
		r.bboxXMin, r.bboxXMax = min(d0.X, d1.X), max(d0.X, d1.X)
		r.bboxYMin, r.bboxYMax = min(d0.Y, d1.Y), max(d0.Y, d1.Y)
		r.bboxEmpty = false
		return
	}
	r.bboxXMin = min(r.bboxXMin, d0.X, d1.X)
	r.bboxXMax = max(r.bboxXMax, d0.X, d1.X)
	r.bboxYMin = min(r.bboxYMin, d0.Y, d1.Y)
	r.bboxYMax = max(r.bboxYMax, d0.Y, d1.Y)
}

// collectEdges builds the edge list from the outline polygons and returns
// the pixel bounding box, clamped to Clip.
func (r *Rasterizer) collectEdges() (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.bboxEmpty = true

	start := 0
	for _, end := range r.polyEnds {
		ring := r.poly[start:end]
		start = end
		if len(ring) < 3 {
			continue
		}
		for j := 1; j < len(ring); j++ {
			r.addEdge(ring[j-1], ring[j])
		}
		r.addEdge(ring[len(ring)-1], ring[0])
	}
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.bboxXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bboxXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bboxYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bboxYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// Coverage model:
//
// Each cell of a scanline holds two numbers. cover is the signed vertical
// extent of all edge pieces inside the cell's column; area is the same
// quantity weighted by the fraction of the cell lying to the right of the
// piece. Sweeping left to right,
//
//	coverage[i] = carry + area[i]
//	carry      += cover[i]
//
// gives the signed area of the outline inside each pixel. The nonzero rule
// takes the absolute value and clamps it to 1.

// accumulate adds the part of edge e inside scanline [y, y+1) to the cell
// buffers, which cover device columns [xMin, xMax).
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) {
	yTop := max(float64(y), e.top())
	yBot := min(float64(y+1), e.bottom())
	if yBot <= yTop {
		return
	}

	dir := float32(1)
	if e.y1 < e.y0 {
		dir = -1
	}

	xa, xb := e.xAt(yTop), e.xAt(yBot)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	if right < xMin {
		// everything to the right of this edge is inside
		h := dir * float32(yBot-yTop)
		r.cover[0] += h
		r.area[0] += h
		return
	}
	if left >= xMax {
		return
	}
	if left == right {
		r.deposit(e, yTop, yBot, dir, left, xMin, xMax)
		return
	}

	// the piece crosses column boundaries: split it per column
	dydx := 1 / e.dxdy
	span := func(x0, x1 float64) (lo, hi float64) {
		ya := e.y0 + dydx*(x0-e.x0)
		yb := e.y0 + dydx*(x1-e.x0)
		return max(min(ya, yb), yTop), min(max(ya, yb), yBot)
	}
	if left < xMin {
		// everything left of the clip lands in the first cell
		if lo, hi := span(float64(left), float64(xMin)); hi > lo {
			r.deposit(e, lo, hi, dir, xMin-1, xMin, xMax)
		}
		left = xMin
	}
	right = min(right, xMax-1)
	for col := left; col <= right; col++ {
		lo, hi := span(float64(col), float64(col+1))
		if hi <= lo {
			continue
		}
		r.deposit(e, lo, hi, dir, col, xMin, xMax)
	}
}

// deposit records an edge piece spanning [yTop, yBot] which lies inside
// device column col.
func (r *Rasterizer) deposit(e *edge, yTop, yBot float64, dir float32, col, xMin, xMax int) {
	h := dir * float32(yBot-yTop)
	if col < xMin {
		r.cover[0] += h
		r.area[0] += h
		return
	}
	if col >= xMax {
		return
	}
	frac := e.xAt((yTop+yBot)/2) - float64(col)
	i := col - xMin
	r.cover[i] += h
	r.area[i] += h * float32(1-frac)
}

// integrateNonZero turns the accumulated cells into coverage values,
// written to r.area.
func (r *Rasterizer) integrateNonZero() {
	var carry float32
	for i, a := range r.area {
		v := carry + a
		carry += r.cover[i]
		if v < 0 {
			v = -v
		}
		r.area[i] = min(v, 1)
	}
}

// trimZeros returns the non-zero part of coverage and its offset.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return coverage[lo:hi], lo
}

// sweep fills the outline polygons with the nonzero rule and emits one
// coverage row per scanline which touches the outline.
func (r *Rasterizer) sweep(emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.collectEdges()
	if !ok {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.edges) && r.edges[next].top() < yf+1 {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.bottom() <= yf {
				r.active[i] = r.active[len(r.active)-1]
				r.active = r.active[:len(r.active)-1]
				continue
			}
			r.accumulate(e, y, xMin, xMax)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		r.integrateNonZero()
		if row, offset := trimZeros(r.area); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// Default values for rasterizer parameters.
const (
	// defaultFlatness is the default tolerance for approximating arcs, in
	// device pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit matches the PDF/PostScript default.
	defaultMiterLimit = 10.0
)

// Numerical tolerances.
const (
	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimum length of a stroke segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the sine below which two consecutive
	// segments need no join.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself.
	cuspCosineThreshold = -0.9999

	// minArcVertices is the smallest number of vertices used for a full
	// circle, so that tiny dots keep a sensible shape.
	minArcVertices = 8
)
