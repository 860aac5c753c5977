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
	"image"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/paint/raster"
)

// Compositor draws strokes into frames. It reuses its rasterizer between
// strokes and is not safe for concurrent use.
type Compositor struct {
	// CTM maps stroke coordinates to raster coordinates.
	CTM matrix.Matrix

	r *raster.Rasterizer
}

// NewCompositor returns a compositor using the given transformation.
func NewCompositor(ctm matrix.Matrix) *Compositor {
	return &Compositor{CTM: ctm}
}

// Draw paints the committed strokes in order and then the active stroke,
// if it is not empty, over dst.
func (c *Compositor) Draw(dst *image.NRGBA, strokes []*StrokePath, active *StrokePath) {
	for _, s := range strokes {
		c.DrawStroke(dst, s)
	}
	if !active.IsEmpty() {
		c.DrawStroke(dst, active)
	}
}

// DrawStroke paints one stroke over dst, using the stroke coverage as
// the opacity of the stroke colour.
func (c *Compositor) DrawStroke(dst *image.NRGBA, s *StrokePath) {
	if s.IsEmpty() || s.style.Color.A == 0 {
		return
	}
	b := dst.Bounds()
	clip := rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	}
	if c.r == nil {
		c.r = raster.NewRasterizer(clip)
	}
	c.r.Clip = clip

	col := s.style.Color
	opacity := float64(col.A) / 255
	s.rasterize(c.r, c.CTM, func(y, xMin int, coverage []float32) {
		o := dst.PixOffset(xMin, y)
		for i, cov := range coverage {
			blend(dst.Pix[o+4*i:o+4*i+4:o+4*i+4], col, float64(cov)*opacity)
		}
	})
}

// drawOver paints src over dst, with the two images aligned at their
// origins.
func drawOver(dst, src *image.NRGBA) {
	r := dst.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.Pix[src.PixOffset(x, y):]
			if s[3] == 0 {
				continue
			}
			col := color.NRGBA{R: s[0], G: s[1], B: s[2], A: 0xFF}
			o := dst.PixOffset(x, y)
			blend(dst.Pix[o:o+4:o+4], col, float64(s[3])/255)
		}
	}
}

// blend applies the source-over operator to one non-premultiplied pixel.
// The colour c is drawn with opacity alpha; its own alpha is ignored.
func blend(px []uint8, c color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha >= 1 {
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, 0xFF
		return
	}

	da := float64(px[3]) / 255
	outA := alpha + da*(1-alpha)
	k := da * (1 - alpha)
	mix := func(s, d uint8) uint8 {
		v := (float64(s)*alpha + float64(d)*k) / outA
		return uint8(min(v+0.5, 255))
	}
	px[0] = mix(c.R, px[0])
	px[1] = mix(c.G, px[1])
	px[2] = mix(c.B, px[2])
	px[3] = uint8(min(outA*255+0.5, 255))
}
