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

package scenes

import (
	"math"
	"strconv"

	"seehuhn.de/go/paint"
)

// All contains the canned scenes, by name.
var All = map[string]*Script{
	"square_inside":      squareInside,
	"square_outside":     squareOutside,
	"square_on_boundary": squareOnBoundary,
	"open_curve":         openCurve,
	"two_regions":        twoRegions,
	"undo_redo":          undoRedo,
	"tap":                tap,
	"overlap":            overlap,
}

const transparent = "#00000000"

// The closed square from (2,2) to (7,7), drawn with a one pixel brush.
var squareLoop = concat(
	brush(1),
	stroke(paint.Point{X: 2, Y: 2}, paint.Point{X: 7, Y: 2}, paint.Point{X: 7, Y: 7},
		paint.Point{X: 2, Y: 7}, paint.Point{X: 2, Y: 2}),
)

var squareInside = &Script{
	Width:  10,
	Height: 10,
	Events: concat(squareLoop, setColor("#FF0000"), fill(4, 4)),
	Expect: []Probe{
		{4, 4, "#FF0000"}, {3, 3, "#FF0000"}, {6, 6, "#FF0000"}, {3, 6, "#FF0000"},
		{2, 2, transparent}, {7, 4, transparent}, {0, 0, transparent}, {8, 8, transparent},
	},
}

var squareOutside = &Script{
	Width:  10,
	Height: 10,
	Events: concat(squareLoop, setColor("#FF0000"), fill(0, 0)),
	Expect: []Probe{
		{0, 0, "#FF0000"}, {9, 9, "#FF0000"}, {1, 5, "#FF0000"}, {8, 2, "#FF0000"},
		{4, 4, transparent}, {2, 2, transparent}, {7, 7, transparent},
	},
}

var squareOnBoundary = &Script{
	Width:  10,
	Height: 10,
	Events: concat(squareLoop, setColor("#FF0000"), fill(2, 2)),
	Expect: []Probe{
		{2, 2, transparent}, {4, 4, transparent}, {0, 0, transparent},
	},
}

// openCurve is a circle with a gap, so that a fill inside leaks out.
var openCurve = &Script{
	Width:  40,
	Height: 40,
	Events: concat(brush(2), arc(20, 20, 12, 0.3, 2*math.Pi-0.3), setColor("blue"), fill(20, 20)),
	Expect: []Probe{
		{20, 20, "#0000FF"}, {0, 0, "#0000FF"}, {39, 20, "#0000FF"},
	},
}

// twoRegions is a rectangle split in two by a vertical line.
var twoRegions = &Script{
	Width:  30,
	Height: 20,
	Events: concat(
		brush(2),
		stroke(paint.Point{X: 2, Y: 2}, paint.Point{X: 27, Y: 2}, paint.Point{X: 27, Y: 17},
			paint.Point{X: 2, Y: 17}, paint.Point{X: 2, Y: 2}),
		stroke(paint.Point{X: 14, Y: 2}, paint.Point{X: 14, Y: 17}),
		setColor("#0000FF"), fill(8, 10),
		setColor("#00FF00"), fill(20, 10),
	),
	Expect: []Probe{
		{8, 10, "#0000FF"}, {4, 4, "#0000FF"}, {12, 15, "#0000FF"},
		{20, 10, "#00FF00"}, {16, 4, "#00FF00"}, {25, 15, "#00FF00"},
		{0, 0, transparent}, {14, 10, transparent},
	},
}

// undoRedo fills with the square undone, then again after redo.
var undoRedo = &Script{
	Width:  10,
	Height: 10,
	Events: concat(
		squareLoop,
		[]Event{{Op: OpUndo}},
		setColor("#FF0000"), fill(4, 4),
		[]Event{{Op: OpClear}, {Op: OpRedo}},
		setColor("#00FF00"), fill(4, 4),
	),
	Expect: []Probe{
		{4, 4, "#00FF00"}, {0, 0, transparent}, {2, 2, transparent},
	},
}

// tap places a single dot, which is a boundary for fills.
var tap = &Script{
	Width:  20,
	Height: 20,
	Events: concat(
		brush(6),
		stroke(paint.Point{X: 10, Y: 10}),
		setColor("#FF0000"), fill(2, 2),
	),
	Expect: []Probe{
		{2, 2, "#FF0000"}, {19, 19, "#FF0000"}, {10, 10, transparent},
	},
}

// overlap draws two crossing strokes of different widths; the four
// quadrants between them are connected around the ends.
var overlap = &Script{
	Width:  30,
	Height: 30,
	Events: concat(
		brush(4),
		stroke(paint.Point{X: 5, Y: 15}, paint.Point{X: 24, Y: 15}),
		brush(1),
		stroke(paint.Point{X: 15, Y: 5}, paint.Point{X: 15, Y: 24}),
		setColor("#FF0000"), fill(8, 8),
	),
	Expect: []Probe{
		{8, 8, "#FF0000"}, {22, 22, "#FF0000"}, {22, 8, "#FF0000"},
		{15, 15, transparent}, {10, 15, transparent},
	},
}

func concat(parts ...[]Event) []Event {
	var res []Event
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}

// stroke returns the events of a gesture through the given points.
func stroke(pts ...paint.Point) []Event {
	res := []Event{{Op: OpBegin, X: pts[0].X, Y: pts[0].Y}}
	for _, p := range pts[1:] {
		res = append(res, Event{Op: OpMove, X: p.X, Y: p.Y})
	}
	last := pts[len(pts)-1]
	return append(res, Event{Op: OpEnd, X: last.X, Y: last.Y})
}

// arc returns a gesture along a circular arc, from angle a0 to a1.
func arc(cx, cy, r, a0, a1 float64) []Event {
	const n = 64
	pts := make([]paint.Point, n+1)
	for i := range pts {
		a := a0 + (a1-a0)*float64(i)/n
		pts[i] = paint.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return stroke(pts...)
}

func fill(x, y float64) []Event {
	return []Event{{Op: OpFill, X: x, Y: y}}
}

func setColor(c string) []Event {
	return []Event{{Op: OpColor, Value: c}}
}

func brush(dp float64) []Event {
	return []Event{{Op: OpBrush, Value: strconv.FormatFloat(dp, 'g', -1, 64)}}
}
