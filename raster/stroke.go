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

package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke renders the path as a stroked outline using Width, Cap, Join and
// MiterLimit, and passes the resulting coverage to emit row by row.
//
// The outline is the nonzero union of one rectangle per segment, one join
// piece per corner and the caps at the ends of open subpaths. Curve
// commands are treated as a straight segment to their end point.
// A Width of zero or less draws a hairline one device pixel wide.
func (r *Rasterizer) Stroke(p path.Path, emit EmitFunc) {
	r.poly = r.poly[:0]
	r.polyEnds = r.polyEnds[:0]
	r.pts = r.pts[:0]
	if p == nil {
		return
	}

	inSubpath := false
	for cmd, pts := range p {
		switch cmd {
		case path.CmdMoveTo:
			if inSubpath {
				r.strokeSubpath(false)
			}
			r.pts = append(r.pts[:0], pts[0])
			inSubpath = true

		case path.CmdLineTo, path.CmdQuadTo, path.CmdCubeTo:
			if !inSubpath {
				continue
			}
			r.addVertex(pts[len(pts)-1])

		case path.CmdClose:
			if inSubpath {
				r.strokeSubpath(true)
				inSubpath = false
			}
		}
	}
	if inSubpath {
		r.strokeSubpath(false)
	}

	r.sweep(emit)
}

// halfWidth returns half the stroke width in user space.
func (r *Rasterizer) halfWidth() float64 {
	if r.Width > 0 {
		return r.Width / 2
	}
	return 0.5 / r.deviceScale()
}

// addVertex appends a vertex to the current subpath, dropping repeats.
func (r *Rasterizer) addVertex(p vec.Vec2) {
	if n := len(r.pts); n > 0 && p.Sub(r.pts[n-1]).Length() < zeroLengthThreshold {
		return
	}
	r.pts = append(r.pts, p)
}

// strokeSubpath adds the outline pieces for the vertices in r.pts.
func (r *Rasterizer) strokeSubpath(closed bool) {
	pts := r.pts
	if closed && len(pts) > 2 && pts[0].Sub(pts[len(pts)-1]).Length() < zeroLengthThreshold {
		pts = pts[:len(pts)-1]
	}
	d := r.halfWidth()

	if len(pts) == 1 {
		// a tap: no direction, so only round and square caps show
		switch r.Cap {
		case graphics.LineCapRound:
			r.addDisk(pts[0], d)
		case graphics.LineCapSquare:
			r.addSquare(pts[0], d)
		}
		return
	}

	numSegs := len(pts) - 1
	if closed {
		numSegs = len(pts)
	}
	squareCaps := !closed && r.Cap == graphics.LineCapSquare
	for i := range numSegs {
		a, b := pts[i], pts[(i+1)%len(pts)]
		t := unit(b.Sub(a))
		if squareCaps && i == 0 {
			a = a.Sub(t.Mul(d))
		}
		if squareCaps && i == numSegs-1 {
			b = b.Add(t.Mul(d))
		}
		n := normal(t).Mul(d)
		start := len(r.poly)
		r.poly = append(r.poly, a.Add(n), b.Add(n), b.Sub(n), a.Sub(n))
		r.endPolygon(start)
	}

	if closed {
		for i := range pts {
			prev := pts[(i+len(pts)-1)%len(pts)]
			next := pts[(i+1)%len(pts)]
			r.addJoin(pts[i], unit(pts[i].Sub(prev)), unit(next.Sub(pts[i])), d)
		}
		return
	}

	for i := 1; i < len(pts)-1; i++ {
		r.addJoin(pts[i], unit(pts[i].Sub(pts[i-1])), unit(pts[i+1].Sub(pts[i])), d)
	}
	if r.Cap == graphics.LineCapRound {
		r.addDisk(pts[0], d)
		r.addDisk(pts[len(pts)-1], d)
	}
}

// addJoin adds the join piece at corner P, where the direction changes
// from T1 to T2.
func (r *Rasterizer) addJoin(P, T1, T2 vec.Vec2, d float64) {
	cosTheta := T1.Dot(T2)
	sinTheta := T1.X*T2.Y - T1.Y*T2.X
	if math.Abs(sinTheta) < collinearityThreshold && cosTheta > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addDisk(P, d)
		return
	}
	if cosTheta < cuspCosineThreshold {
		return
	}

	// the join fills the gap on the outer side of the turn
	side := 1.0
	if sinTheta > 0 {
		side = -1.0
	}
	n1 := normal(T1).Mul(side * d)
	n2 := normal(T2).Mul(side * d)

	start := len(r.poly)
	r.poly = append(r.poly, P, P.Add(n1))
	if r.Join == graphics.LineJoinMiter {
		// the miter tip lies d / sin(φ/2) from P, where φ is the angle
		// between the two stroke edges
		sinHalf := math.Sqrt((1 + cosTheta) / 2)
		if sinHalf > 0 && 1/sinHalf <= r.MiterLimit+miterEpsilon {
			bisector := unit(n1.Add(n2))
			r.poly = append(r.poly, P.Add(bisector.Mul(d/sinHalf)))
		}
	}
	r.poly = append(r.poly, P.Add(n2))
	r.endPolygon(start)
}

// addDisk adds a polygonal approximation of a disk.
func (r *Rasterizer) addDisk(center vec.Vec2, radius float64) {
	n := minArcVertices
	devRadius := radius * r.deviceScale()
	if devRadius > r.Flatness {
		// a chord subtending angle θ deviates r(1 - cos(θ/2)) from the arc
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}

	start := len(r.poly)
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, vec.Vec2{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	r.endPolygon(start)
}

// addSquare adds an axis-aligned square of side 2d centred at c.
func (r *Rasterizer) addSquare(c vec.Vec2, d float64) {
	start := len(r.poly)
	r.poly = append(r.poly,
		vec.Vec2{X: c.X - d, Y: c.Y - d},
		vec.Vec2{X: c.X + d, Y: c.Y - d},
		vec.Vec2{X: c.X + d, Y: c.Y + d},
		vec.Vec2{X: c.X - d, Y: c.Y + d},
	)
	r.endPolygon(start)
}

// endPolygon closes the polygon which starts at index start of r.poly.
// All polygons are given the same orientation, so that the nonzero rule
// computes their union.
func (r *Rasterizer) endPolygon(start int) {
	ring := r.poly[start:]
	if len(ring) < 3 {
		r.poly = r.poly[:start]
		return
	}
	var area float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area < 0 {
		slices.Reverse(ring)
	}
	r.polyEnds = append(r.polyEnds, len(r.poly))
}

// unit returns v scaled to length 1.
func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l < zeroLengthThreshold {
		return vec.Vec2{}
	}
	return v.Mul(1 / l)
}

// normal returns t rotated by 90° counter-clockwise.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

// miterEpsilon absorbs rounding at the miter limit boundary.
const miterEpsilon = 1e-10
