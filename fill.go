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
)

// FloodFill sets every pixel of dst which can be reached from seed through
// horizontally or vertically adjacent pixels, without entering a boundary
// pixel of mask, to c. It returns the number of pixels set.
//
// Nothing is changed if seed lies outside dst or on a boundary pixel.
// A nil mask has no boundary pixels. The mask must have the same size as
// dst.
func FloodFill(dst *image.NRGBA, mask *BoundaryMask, seed image.Point, c color.NRGBA) int {
	b := dst.Bounds()
	if !seed.In(b) {
		return 0
	}
	w, h := b.Dx(), b.Dy()

	var wall []uint8
	if mask != nil {
		if mask.Bounds().Size() != b.Size() {
			Logger().Warn("fill: mask size does not match raster",
				"mask", mask.Bounds().Size(), "raster", b.Size())
			return 0
		}
		wall = mask.img.Pix
	}
	// both buffers are indexed by y*w + x
	blocked := func(i int) bool {
		return wall != nil && wall[i] != 0
	}

	start := (seed.Y-b.Min.Y)*w + (seed.X - b.Min.X)
	if blocked(start) {
		return 0
	}

	visited := make([]bool, w*h)
	queue := make([]int, 0, 256)
	visit := func(i int) {
		if !visited[i] && !blocked(i) {
			visited[i] = true
			queue = append(queue, i)
		}
	}
	visit(start)

	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w

		o := dst.PixOffset(b.Min.X+x, b.Min.Y+y)
		px := dst.Pix[o : o+4 : o+4]
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A

		if x+1 < w {
			visit(i + 1)
		}
		if x > 0 {
			visit(i - 1)
		}
		if y+1 < h {
			visit(i + w)
		}
		if y > 0 {
			visit(i - w)
		}
	}
	return len(queue)
}
