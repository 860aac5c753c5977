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
	"context"
	"image"
	"log/slog"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/paint/raster"
)

// boundaryThreshold is the smallest stroke coverage which marks a
// boundary pixel. It is the coverage which rounds to a non-zero 8-bit
// alpha value.
const boundaryThreshold = 1.0 / 510

// BoundaryMask marks the pixels which a flood fill may not enter.
// A mask is never modified after it has been built.
type BoundaryMask struct {
	img *image.Alpha
}

// NewBoundaryMask returns an empty w×h mask.
func NewBoundaryMask(w, h int) *BoundaryMask {
	return &BoundaryMask{img: image.NewAlpha(image.Rect(0, 0, max(w, 0), max(h, 0)))}
}

// Bounds returns the pixel rectangle covered by the mask.
func (m *BoundaryMask) Bounds() image.Rectangle {
	return m.img.Rect
}

// IsBoundary reports whether pixel (x, y) is a boundary pixel.
// Pixels outside the mask are not boundary pixels.
func (m *BoundaryMask) IsBoundary(x, y int) bool {
	if !(image.Point{x, y}).In(m.img.Rect) {
		return false
	}
	return m.img.Pix[m.img.PixOffset(x, y)] != 0
}

// Count returns the number of boundary pixels.
func (m *BoundaryMask) Count() int {
	n := 0
	for _, a := range m.img.Pix {
		if a != 0 {
			n++
		}
	}
	return n
}

// Image returns the mask as an alpha image, with boundary pixels opaque.
// The image must not be modified.
func (m *BoundaryMask) Image() *image.Alpha {
	return m.img
}

func (m *BoundaryMask) set(x, y int) {
	m.img.Pix[m.img.PixOffset(x, y)] = 0xFF
}

// MaskBuilder rasterizes committed strokes into boundary masks.
// It reuses its rasterizer between builds and is not safe for concurrent
// use.
type MaskBuilder struct {
	// CTM maps stroke coordinates to raster coordinates.
	CTM matrix.Matrix

	r *raster.Rasterizer
}

// NewMaskBuilder returns a builder using the given transformation.
func NewMaskBuilder(ctm matrix.Matrix) *MaskBuilder {
	return &MaskBuilder{CTM: ctm}
}

// Build returns a new w×h mask in which every pixel touched by one of the
// strokes, drawn at its own width, is a boundary pixel.
func (b *MaskBuilder) Build(w, h int, strokes []*StrokePath) *BoundaryMask {
	m := NewBoundaryMask(w, h)
	if w <= 0 || h <= 0 {
		return m
	}

	clip := rect.Rect{URx: float64(w), URy: float64(h)}
	if b.r == nil {
		b.r = raster.NewRasterizer(clip)
	}
	b.r.Clip = clip

	pix, stride := m.img.Pix, m.img.Stride
	for _, s := range strokes {
		s.rasterize(b.r, b.CTM, func(y, xMin int, coverage []float32) {
			row := pix[y*stride+xMin:]
			for i, c := range coverage {
				if c >= boundaryThreshold {
					row[i] = 0xFF
				}
			}
		})
	}

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("boundary mask built",
			"strokes", len(strokes),
			"boundary", m.Count(),
			"width", w, "height", h)
	}
	return m
}
