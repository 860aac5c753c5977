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

	"seehuhn.de/go/geom/matrix"
)

// Brush sizes offered by the brush dialog, in density-independent pixels.
const (
	BrushSmall  = 10.0
	BrushMedium = 20.0
	BrushLarge  = 30.0
)

// Config holds the settings of a [Canvas].
type Config struct {
	// Density is the number of raster pixels per density-independent
	// pixel. It converts brush sizes passed to SetBrushSize.
	// Zero means 1.
	Density float64

	// Background is painted under the colour raster by RenderComposite.
	Background color.NRGBA

	// Transform maps input coordinates to raster coordinates.
	// The zero matrix means the identity.
	Transform matrix.Matrix

	// KeepRedoOnCommit keeps undone strokes available for redo after a new
	// stroke is committed. By default a commit clears the redo history.
	KeepRedoOnCommit bool

	// OnInvalidate, if set, is called whenever the composite frame has
	// changed. It may be called from a background goroutine.
	OnInvalidate func()
}

// DefaultConfig returns the configuration of a canvas with a white
// background and one raster pixel per input unit.
func DefaultConfig() Config {
	return Config{
		Density:    1,
		Background: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Transform:  matrix.Identity,
	}
}

func (cfg *Config) density() float64 {
	if cfg.Density <= 0 {
		return 1
	}
	return cfg.Density
}

// deviceMatrix returns the map from input coordinates to raster
// coordinates in which integer points are pixel corners. Input points
// with integer coordinates are pixel centres.
func (cfg *Config) deviceMatrix() matrix.Matrix {
	m := cfg.Transform
	if m == (matrix.Matrix{}) {
		m = matrix.Identity
	}
	m[4] += 0.5
	m[5] += 0.5
	return m
}
