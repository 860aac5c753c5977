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

package paint

import (
	"image/color"
	"slices"

	"github.com/google/uuid"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/paint/raster"
)

// Point is a position in input coordinates. The point (i, j) with integer
// coordinates is the centre of raster pixel (i, j).
type Point struct {
	X, Y float64
}

// StrokeStyle describes how a stroke is drawn.
type StrokeStyle struct {
	Color color.NRGBA

	// Width is the stroke thickness in input units. With the identity view
	// transform these are raster pixels. A width of zero draws a line one
	// pixel wide.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
}

// NewStrokeStyle returns a style with round caps and joins.
func NewStrokeStyle(c color.NRGBA, width float64) StrokeStyle {
	return StrokeStyle{
		Color:      c,
		Width:      max(width, 0),
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: 10,
	}
}

// StrokePath is a freehand stroke: a polyline together with its style.
type StrokePath struct {
	id     uuid.UUID
	style  StrokeStyle
	points []Point
}

// Begin discards any previous content and starts a new stroke at p.
func (s *StrokePath) Begin(p Point, style StrokeStyle) {
	style.Width = max(style.Width, 0)
	s.id = uuid.New()
	s.style = style
	s.points = append(s.points[:0], p)
}

// Append adds a point to the end of the stroke.
func (s *StrokePath) Append(p Point) {
	s.points = append(s.points, p)
}

// IsEmpty reports whether the stroke has no points.
func (s *StrokePath) IsEmpty() bool {
	return s == nil || len(s.points) == 0
}

// Len returns the number of points.
func (s *StrokePath) Len() int {
	return len(s.points)
}

// Style returns the style the stroke is drawn with.
func (s *StrokePath) Style() StrokeStyle {
	return s.style
}

// ID returns the identifier assigned by Begin.
func (s *StrokePath) ID() uuid.UUID {
	return s.id
}

// Points returns a copy of the stroke's points in drawing order.
func (s *StrokePath) Points() []Point {
	return slices.Clone(s.points)
}

// Path returns the stroke geometry as a single open subpath.
func (s *StrokePath) Path() path.Path {
	return func(yield func(path.Command, []vec.Vec2) bool) {
		for i, p := range s.points {
			cmd := path.CmdLineTo
			if i == 0 {
				cmd = path.CmdMoveTo
			}
			if !yield(cmd, []vec.Vec2{{X: p.X, Y: p.Y}}) {
				return
			}
		}
	}
}

// frozen returns a copy which no longer shares storage with s.
func (s *StrokePath) frozen() *StrokePath {
	return &StrokePath{
		id:     s.id,
		style:  s.style,
		points: slices.Clone(s.points),
	}
}

// rasterize configures r for the stroke's style and strokes it.
func (s *StrokePath) rasterize(r *raster.Rasterizer, ctm matrix.Matrix, emit raster.EmitFunc) {
	r.Reset(r.Clip)
	r.CTM = ctm
	r.Width = s.style.Width
	r.Cap = s.style.Cap
	r.Join = s.style.Join
	if s.style.MiterLimit >= 1 {
		r.MiterLimit = s.style.MiterLimit
	}
	r.Stroke(s.Path(), emit)
}
