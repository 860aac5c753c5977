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
	"image"
	"math"
	"testing"
	"time"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// polyline builds an open path through the given points.
func polyline(pts ...vec.Vec2) path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, p := range pts {
			cmd := path.CmdLineTo
			if i == 0 {
				cmd = path.CmdMoveTo
			}
			if !yield(cmd, []vec.Vec2{p}) {
				return
			}
		}
	}
}

// closedPolyline builds a closed path through the given points.
func closedPolyline(pts ...vec.Vec2) path.Path {
	open := polyline(pts...)
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for cmd, p := range open {
			if !yield(cmd, p) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// render strokes p into a w×h coverage grid.
func render(r *Rasterizer, p path.Path, w, h int) []float32 {
	grid := make([]float32, w*h)
	r.Stroke(p, func(y, xMin int, coverage []float32) {
		if y < 0 || y >= h {
			panic("row outside clip")
		}
		copy(grid[y*w+xMin:], coverage)
	})
	return grid
}

func newTestRasterizer(w, h int) *Rasterizer {
	return NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)})
}

const epsilon = 1e-5

func TestHorizontalButtStroke(t *testing.T) {
	r := newTestRasterizer(10, 10)
	r.Width = 2
	r.Cap = graphics.LineCapButt
	grid := render(r, polyline(pt(2, 5), pt(8, 5)), 10, 10)

	for y := range 10 {
		for x := range 10 {
			var want float32
			if (y == 4 || y == 5) && x >= 2 && x < 8 {
				want = 1
			}
			if got := grid[y*10+x]; math.Abs(float64(got-want)) > epsilon {
				t.Errorf("pixel (%d,%d): expected coverage %.4f, got %.4f", x, y, want, got)
			}
		}
	}
}

// TestHalfPixelCoverage checks a stroke edge through the middle of a row.
// The stroke covers y in [4.5, 5.5], so rows 4 and 5 are half covered.
func TestHalfPixelCoverage(t *testing.T) {
	r := newTestRasterizer(10, 10)
	r.Width = 1
	r.Cap = graphics.LineCapButt
	grid := render(r, polyline(pt(0, 5), pt(10, 5)), 10, 10)

	for x := range 10 {
		for _, y := range []int{4, 5} {
			if got := grid[y*10+x]; math.Abs(float64(got-0.5)) > epsilon {
				t.Errorf("pixel (%d,%d): expected coverage 0.5, got %.4f", x, y, got)
			}
		}
		for _, y := range []int{3, 6} {
			if got := grid[y*10+x]; got != 0 {
				t.Errorf("pixel (%d,%d): expected coverage 0, got %.4f", x, y, got)
			}
		}
	}
}

func TestStrokeLeftOfClip(t *testing.T) {
	r := newTestRasterizer(10, 10)
	r.Width = 2
	r.Cap = graphics.LineCapButt
	grid := render(r, polyline(pt(-5, 5), pt(3, 5)), 10, 10)

	for x := range 10 {
		var want float32
		if x < 3 {
			want = 1
		}
		if got := grid[4*10+x]; math.Abs(float64(got-want)) > epsilon {
			t.Errorf("pixel (%d,4): expected coverage %.4f, got %.4f", x, want, got)
		}
	}
}

func TestStrokeOutsideClip(t *testing.T) {
	r := newTestRasterizer(10, 10)
	r.Width = 2
	called := false
	r.Stroke(polyline(pt(20, 20), pt(30, 25)), func(y, xMin int, coverage []float32) {
		called = true
	})
	if called {
		t.Error("emit called for a stroke outside the clip rectangle")
	}
}

// TestFarOffscreenSegment strokes a segment whose ends lie far outside the
// clip rectangle. The cost must depend on the clip, not on the segment
// length, and the result must match the visible part of the segment.
func TestFarOffscreenSegment(t *testing.T) {
	line := func(x float64) vec.Vec2 {
		return pt(x, 4+2e-9*x)
	}

	r := newTestRasterizer(10, 10)
	r.Cap = graphics.LineCapButt
	start := time.Now()
	got := render(r, polyline(line(-1e9), line(1e9)), 10, 10)
	if d := time.Since(start); d > time.Second {
		t.Errorf("stroke took %v", d)
	}

	r.Reset(r.Clip)
	r.Cap = graphics.LineCapButt
	want := render(r, polyline(line(-20), line(30)), 10, 10)

	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-4 {
			t.Errorf("pixel (%d,%d): expected coverage %.4f, got %.4f",
				i%10, i/10, want[i], got[i])
		}
	}
	if want[3*10+5] < 0.4 {
		t.Errorf("visible part not drawn: coverage %.4f", want[3*10+5])
	}
}

func TestCTMScalesWidth(t *testing.T) {
	r := newTestRasterizer(10, 10)
	r.CTM = matrix.Scale(2, 2)
	r.Width = 1
	r.Cap = graphics.LineCapButt
	grid := render(r, polyline(pt(1, 2), pt(4, 2)), 10, 10)

	for y := range 10 {
		for x := range 10 {
			var want float32
			if (y == 3 || y == 4) && x >= 2 && x < 8 {
				want = 1
			}
			if got := grid[y*10+x]; math.Abs(float64(got-want)) > epsilon {
				t.Errorf("pixel (%d,%d): expected coverage %.4f, got %.4f", x, y, want, got)
			}
		}
	}
}

func TestTap(t *testing.T) {
	const radius = 2.0
	caps := []struct {
		name  string
		style graphics.LineCapStyle
	}{
		{"butt", graphics.LineCapButt},
		{"round", graphics.LineCapRound},
		{"square", graphics.LineCapSquare},
	}
	for _, tc := range caps {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRasterizer(10, 10)
			r.Width = 2 * radius
			r.Cap = tc.style
			grid := render(r, polyline(pt(5, 5)), 10, 10)

			var total float64
			for _, c := range grid {
				total += float64(c)
			}

			switch tc.style {
			case graphics.LineCapButt:
				if total != 0 {
					t.Errorf("butt cap tap: expected no coverage, got %.4f", total)
				}
			case graphics.LineCapRound:
				// the disk is approximated by an inscribed polygon
				disk := math.Pi * radius * radius
				if total > disk || total < 0.85*disk {
					t.Errorf("round cap tap: expected area near %.4f, got %.4f", disk, total)
				}
			case graphics.LineCapSquare:
				if math.Abs(total-16) > 1e-4 {
					t.Errorf("square cap tap: expected area 16, got %.4f", total)
				}
			}
		})
	}
}

// TestJoins checks the outer corner of a right-angle turn. The corner
// pixel (11,11) is inside a miter join, outside a bevel join, and partly
// covered by a round join.
func TestJoins(t *testing.T) {
	cases := []struct {
		name     string
		join     graphics.LineJoinStyle
		min, max float32
	}{
		{"miter", graphics.LineJoinMiter, 1 - epsilon, 1},
		{"bevel", graphics.LineJoinBevel, 0, epsilon},
		{"round", graphics.LineJoinRound, 0.1, 0.9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRasterizer(16, 16)
			r.Width = 4
			r.Cap = graphics.LineCapButt
			r.Join = tc.join
			grid := render(r, polyline(pt(2, 10), pt(10, 10), pt(10, 2)), 16, 16)

			if got := grid[11*16+11]; got < tc.min || got > tc.max {
				t.Errorf("corner pixel: expected coverage in [%.2f, %.2f], got %.4f", tc.min, tc.max, got)
			}
			if got := grid[10*16+10]; math.Abs(float64(got-1)) > epsilon {
				t.Errorf("pixel (10,10): expected coverage 1, got %.4f", got)
			}
		})
	}
}

// TestRepeatedSegment checks that stroking the same segment twice
// neither grows the covered region nor leaves holes. Partially covered
// edge pixels may get darker, since overlapping pieces add up inside a
// pixel before the coverage is clamped.
func TestRepeatedSegment(t *testing.T) {
	once := render(newTestRasterizer(20, 20), polyline(pt(3, 4), pt(16, 13)), 20, 20)
	twice := render(newTestRasterizer(20, 20), polyline(pt(3, 4), pt(16, 13), pt(3, 4), pt(16, 13)), 20, 20)

	const tol = 1e-4
	for i := range once {
		x, y := i%20, i/20
		switch {
		case once[i] < tol && twice[i] >= tol:
			t.Errorf("pixel (%d,%d): expected no coverage, got %.4f", x, y, twice[i])
		case once[i] > 1-tol && twice[i] <= 1-tol:
			t.Errorf("pixel (%d,%d): expected full coverage, got %.4f", x, y, twice[i])
		case twice[i] < once[i]-tol:
			t.Errorf("pixel (%d,%d): single %.4f, repeated %.4f", x, y, once[i], twice[i])
		}
	}
}

func TestClosedSubpath(t *testing.T) {
	r := newTestRasterizer(12, 12)
	r.Width = 1
	grid := render(r, closedPolyline(pt(2.5, 2.5), pt(8.5, 2.5), pt(8.5, 8.5), pt(2.5, 8.5)), 12, 12)

	for y := range 12 {
		for x := range 12 {
			onRing := (x == 2 || x == 8) && y >= 2 && y <= 8 ||
				(y == 2 || y == 8) && x >= 2 && x <= 8
			got := grid[y*12+x]
			switch {
			case onRing && math.Abs(float64(got-1)) > epsilon:
				t.Errorf("pixel (%d,%d): expected coverage 1, got %.4f", x, y, got)
			case !onRing && got > epsilon:
				t.Errorf("pixel (%d,%d): expected coverage 0, got %.4f", x, y, got)
			}
		}
	}
}

// TestAgainstVector compares the coverage of a slanted butt-capped stroke
// with x/image/vector rendering the same quadrilateral.
func TestAgainstVector(t *testing.T) {
	const w, h = 32, 32
	a, b := pt(4, 6), pt(27, 22)
	const width = 6.0

	r := newTestRasterizer(w, h)
	r.Width = width
	r.Cap = graphics.LineCapButt
	grid := render(r, polyline(a, b), w, h)

	t1 := unit(b.Sub(a))
	n := normal(t1).Mul(width / 2)
	corners := []vec.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}

	z := vector.NewRasterizer(w, h)
	z.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for _, c := range corners[1:] {
		z.LineTo(float32(c.X), float32(c.Y))
	}
	z.ClosePath()
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	for y := range h {
		for x := range w {
			want := float64(dst.AlphaAt(x, y).A) / 255
			got := float64(grid[y*w+x])
			if math.Abs(got-want) > 3.0/255 {
				t.Errorf("pixel (%d,%d): vector %.4f, raster %.4f", x, y, want, got)
			}
		}
	}
}

func TestReset(t *testing.T) {
	r := newTestRasterizer(10, 10)
	r.Width = 7
	r.Join = graphics.LineJoinBevel
	r.CTM = matrix.Scale(3, 3)
	r.Stroke(polyline(pt(1, 1), pt(5, 5)), func(int, int, []float32) {})

	clip := rect.Rect{URx: 4, URy: 4}
	r.Reset(clip)
	if r.Width != 1 || r.Join != graphics.LineJoinRound || r.CTM != matrix.Identity || r.Clip != clip {
		t.Errorf("Reset left parameters modified: %+v", r)
	}
}
