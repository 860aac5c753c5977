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

// Package scenes defines gesture scripts which can be replayed against a
// [paint.Canvas], together with a collection of canned scenes used by
// tests, benchmarks and the paintreplay command.
package scenes

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"seehuhn.de/go/paint"
)

// Script is a recorded drawing session.
type Script struct {
	Width  int     `json:"width"`  // canvas width in pixels
	Height int     `json:"height"` // canvas height in pixels
	Events []Event `json:"events"`

	// Expect lists raster pixels to check after the script has run.
	Expect []Probe `json:"expect,omitempty"`
}

// Op is the kind of a script event.
type Op string

// These are the operations understood by [Script.Apply].
const (
	OpBegin Op = "begin" // touch down at (X, Y)
	OpMove  Op = "move"  // touch move to (X, Y)
	OpEnd   Op = "end"   // touch up at (X, Y)
	OpFill  Op = "fill"  // fill-mode tap at (X, Y), in any mode
	OpColor Op = "color" // set the colour to Value
	OpBrush Op = "brush" // set the brush size to Value, in dp
	OpMode  Op = "mode"  // Value "fill" or "draw"
	OpUndo  Op = "undo"
	OpRedo  Op = "redo"
	OpClear Op = "clear" // clear the colour raster
)

// Event is one step of a script.
type Event struct {
	Op    Op      `json:"op"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Value string  `json:"value,omitempty"`
}

// Probe is an expected raster colour at one pixel. Color uses the syntax
// of [paint.ParseColor]; "#00000000" denotes an untouched pixel.
type Probe struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

// Load reads a script in JSON format.
func Load(r io.Reader) (*Script, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	s := &Script{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("load script: invalid canvas size %dx%d", s.Width, s.Height)
	}
	return s, nil
}

// Write stores the script in JSON format.
func (s *Script) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Apply sizes the canvas and replays the events. Fills are completed
// before the next event is processed.
func (s *Script) Apply(c *paint.Canvas) error {
	c.Resize(s.Width, s.Height)
	for i, ev := range s.Events {
		if err := apply(c, ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func apply(c *paint.Canvas, ev Event) error {
	p := paint.Point{X: ev.X, Y: ev.Y}
	switch ev.Op {
	case OpBegin:
		c.Touch(paint.Begin, p)
	case OpMove:
		c.Touch(paint.Move, p)
	case OpEnd:
		c.Touch(paint.End, p)
		c.Wait()
	case OpFill:
		prev := c.FillMode()
		c.SetFillMode(true)
		c.Touch(paint.End, p)
		c.Wait()
		c.SetFillMode(prev)
	case OpColor:
		return c.SetColorString(ev.Value)
	case OpBrush:
		dp, err := strconv.ParseFloat(ev.Value, 64)
		if err != nil {
			return fmt.Errorf("brush size %q: %w", ev.Value, err)
		}
		c.SetBrushSize(dp)
	case OpMode:
		switch ev.Value {
		case "fill":
			c.SetFillMode(true)
		case "draw":
			c.SetFillMode(false)
		default:
			return fmt.Errorf("unknown mode %q", ev.Value)
		}
	case OpUndo:
		c.Undo()
	case OpRedo:
		c.Redo()
	case OpClear:
		c.ClearRaster()
	default:
		return fmt.Errorf("unknown operation %q", ev.Op)
	}
	return nil
}

// Check compares the canvas raster with the script's probes and returns
// an error describing the first mismatch.
func (s *Script) Check(c *paint.Canvas) error {
	raster := c.Snapshot()
	if raster == nil {
		return fmt.Errorf("check: canvas not sized")
	}
	for _, probe := range s.Expect {
		want, err := paint.ParseColor(probe.Color)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
		if !(probe.X >= 0 && probe.X < raster.Rect.Dx() && probe.Y >= 0 && probe.Y < raster.Rect.Dy()) {
			return fmt.Errorf("check: pixel (%d,%d) outside the canvas", probe.X, probe.Y)
		}
		if got := raster.NRGBAAt(probe.X, probe.Y); got != want {
			return fmt.Errorf("check: pixel (%d,%d) is %s, want %s",
				probe.X, probe.Y, hex(got), probe.Color)
		}
	}
	return nil
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}
