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
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned by [ParseColor] for strings which are neither
// a hex colour nor a known colour name.
var ErrUnknownColor = errors.New("unknown colour")

// ParseColor converts a colour string to a colour. Accepted forms are
// "#RRGGBB", "#AARRGGBB" and the SVG 1.1 colour names, matched without
// regard to case.
func ParseColor(s string) (color.NRGBA, error) {
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 && len(hex) != 8 {
			return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, ErrUnknownColor)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, ErrUnknownColor)
		}
		if len(hex) == 6 {
			v |= 0xFF000000
		}
		return color.NRGBA{
			A: uint8(v >> 24),
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
		}, nil
	}

	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, ErrUnknownColor)
	}
	// the named colours are opaque, so RGBA and NRGBA agree
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}
