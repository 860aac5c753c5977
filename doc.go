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

// Package paint implements the paint layer of a touch-driven drawing
// surface.
//
// Freehand strokes are collected in a [Store] with undo and redo. Before
// every flood fill the committed strokes are rasterized into a
// [BoundaryMask], and [FloodFill] recolours the 4-connected region around
// a seed pixel without crossing the mask. A [Compositor] draws the colour
// raster, the committed strokes and the stroke in progress into the frame
// which is shown to the user and exported on save.
//
// [Canvas] ties these parts together behind a touch-event interface. Fills
// run on a background goroutine over a private copy of the colour raster;
// the result replaces the shared raster in one atomic step.
package paint
