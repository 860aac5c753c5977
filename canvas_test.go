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
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/geom/matrix"
)

// drawLoop draws the closed square (2,2), (7,2), (7,7), (2,7) with a
// one pixel brush.
func drawLoop(t *testing.T, c *Canvas) {
	t.Helper()
	c.SetBrushSize(1)
	pts := []Point{{2, 2}, {7, 2}, {7, 7}, {2, 7}, {2, 2}}
	c.Touch(Begin, pts[0])
	for _, p := range pts[1:] {
		c.Touch(Move, p)
	}
	if !c.Touch(End, pts[len(pts)-1]) {
		t.Fatal("End was not handled")
	}
}

func fillAt(c *Canvas, p Point, col color.NRGBA) {
	c.SetColor(col)
	c.SetFillMode(true)
	c.Touch(Begin, p)
	c.Touch(End, p)
	c.Wait()
	c.SetFillMode(false)
}

func newLoopCanvas(t *testing.T) *Canvas {
	c := New(DefaultConfig())
	c.Resize(10, 10)
	drawLoop(t, c)
	return c
}

func TestFillInsideLoop(t *testing.T) {
	c := newLoopCanvas(t)
	fillAt(c, Point{4, 4}, red)

	raster := c.Snapshot()
	for y := range 10 {
		for x := range 10 {
			got := raster.NRGBAAt(x, y)
			want := color.NRGBA{}
			if insideLoop(x, y) {
				want = red
			}
			if got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}

	frame := c.RenderComposite()
	if got := frame.NRGBAAt(2, 4); got != black {
		t.Errorf("loop pixel in frame: got %v, want stroke colour", got)
	}
	if got := frame.NRGBAAt(4, 4); got != red {
		t.Errorf("interior pixel in frame: got %v", got)
	}
}

func TestFillOutsideLoop(t *testing.T) {
	c := newLoopCanvas(t)
	fillAt(c, Point{0, 0}, red)

	raster := c.Snapshot()
	for y := range 10 {
		for x := range 10 {
			got := raster.NRGBAAt(x, y)
			filled := got == red
			outside := !onLoop(x, y) && !insideLoop(x, y)
			if filled != outside {
				t.Errorf("pixel (%d,%d): filled=%t, outside=%t", x, y, filled, outside)
			}
		}
	}
}

func TestFillOnBoundary(t *testing.T) {
	c := newLoopCanvas(t)
	gen := c.Generation()
	fillAt(c, Point{2, 2}, red)

	if c.Generation() != gen {
		t.Error("fill on a boundary pixel replaced the raster")
	}
	if !bytes.Equal(c.Snapshot().Pix, make([]uint8, 10*10*4)) {
		t.Error("fill on a boundary pixel changed the raster")
	}
}

func TestFillOutOfBounds(t *testing.T) {
	c := newLoopCanvas(t)
	gen := c.Generation()
	for _, p := range []Point{{-0.7, 0}, {0, -1}, {10, 3}, {3, 9.6}} {
		fillAt(c, p, red)
	}
	if c.Generation() != gen {
		t.Error("out of bounds fill replaced the raster")
	}
}

func TestFillUnsized(t *testing.T) {
	c := New(DefaultConfig())
	drawLoop(t, c)
	fillAt(c, Point{4, 4}, red)

	if c.Snapshot() != nil || c.RenderComposite() != nil || c.BoundaryMask() != nil {
		t.Error("unsized canvas produced output")
	}
	if len(c.Strokes()) != 1 {
		t.Error("strokes are not recorded before sizing")
	}
}

func TestResizeTooLarge(t *testing.T) {
	c := newLoopCanvas(t)
	for _, size := range [][2]int{{1 << 40, 1 << 40}, {1 << 20, 1 << 20}, {MaxPixels + 1, 1}} {
		c.Resize(size[0], size[1])
		if w, h := c.Size(); w != 0 || h != 0 {
			t.Errorf("Resize(%d, %d): got size %dx%d", size[0], size[1], w, h)
		}
		if c.Snapshot() != nil || c.RenderComposite() != nil {
			t.Errorf("Resize(%d, %d): canvas still sized", size[0], size[1])
		}
	}

	c.Resize(10, 10)
	if w, h := c.Size(); w != 10 || h != 10 {
		t.Errorf("resizing after a rejected size: got %dx%d", w, h)
	}
}

func TestFillAfterUndo(t *testing.T) {
	c := newLoopCanvas(t)
	if !c.Undo() {
		t.Fatal("Undo failed")
	}
	fillAt(c, Point{4, 4}, red)
	snap := c.Snapshot()
	for i := 0; i < len(snap.Pix); i += 4 {
		if snap.Pix[i] != 0xFF {
			t.Fatal("fill did not cover the whole raster after the loop was undone")
		}
	}

	c.ClearRaster()
	if !c.Redo() {
		t.Fatal("Redo failed")
	}
	fillAt(c, Point{4, 4}, red)
	if got := c.Snapshot().NRGBAAt(0, 0); got != (color.NRGBA{}) {
		t.Errorf("fill leaked after redo: %v", got)
	}
}

func TestStaleFillDiscarded(t *testing.T) {
	var buf bytes.Buffer
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	c := New(DefaultConfig())
	c.Resize(10, 10)
	stale := c.raster.Load()
	c.Resize(10, 10)

	c.fills.Add(1)
	c.fill(stale, nil, image.Pt(1, 1), red)

	if got := c.Snapshot().NRGBAAt(1, 1); got != (color.NRGBA{}) {
		t.Errorf("stale fill was published: %v", got)
	}
	if !strings.Contains(buf.String(), "fill discarded") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

// TestRenderDuringFill checks that frames never show a partially filled
// raster.
func TestRenderDuringFill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Background = color.NRGBA{}
	c := New(cfg)
	c.Resize(300, 300)
	c.SetColor(red)
	c.SetFillMode(true)

	var wg sync.WaitGroup
	var stop atomic.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			frame := c.RenderComposite()
			if frame.NRGBAAt(0, 0) != frame.NRGBAAt(299, 299) {
				t.Error("frame shows a partial fill")
				return
			}
		}
	}()

	c.Touch(End, Point{150, 150})
	c.Wait()
	stop.Store(true)
	wg.Wait()

	if got := c.RenderComposite().NRGBAAt(299, 0); got != red {
		t.Errorf("fill not published: %v", got)
	}
}

func TestTouchDrawMode(t *testing.T) {
	var calls atomic.Int32
	cfg := DefaultConfig()
	cfg.OnInvalidate = func() { calls.Add(1) }
	c := New(cfg)
	c.Resize(20, 20)
	calls.Store(0)

	if c.Touch(Move, Point{1, 1}) || c.Touch(End, Point{1, 1}) {
		t.Error("Move and End without Begin were handled")
	}
	c.Touch(Begin, Point{1, 1})
	c.Touch(Move, Point{5, 5})
	if len(c.Strokes()) != 0 {
		t.Error("stroke committed before End")
	}
	frame := c.RenderComposite()
	if frame.NRGBAAt(3, 3) == (color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Error("active stroke missing from frame")
	}
	c.Touch(End, Point{5, 5})

	strokes := c.Strokes()
	if len(strokes) != 1 || strokes[0].Len() != 2 {
		t.Fatalf("unexpected strokes %v", strokes)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 invalidations, got %d", calls.Load())
	}
	if c.Touch(Phase(7), Point{}) {
		t.Error("unknown phase was handled")
	}
}

func TestFillModeDropsActiveStroke(t *testing.T) {
	white := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	c := New(DefaultConfig())
	c.Resize(20, 20)

	c.Touch(Begin, Point{1, 1})
	c.Touch(Move, Point{5, 5})
	c.SetFillMode(true)
	if got := c.RenderComposite().NRGBAAt(3, 3); got != white {
		t.Errorf("abandoned stroke still drawn: got %v", got)
	}

	c.SetFillMode(false)
	if c.Touch(Move, Point{8, 8}) || c.Touch(End, Point{8, 8}) {
		t.Error("abandoned stroke was continued")
	}
	if n := len(c.Strokes()); n != 0 {
		t.Errorf("expected no strokes, got %d", n)
	}
}

func TestBrushSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Density = 2.5
	c := New(cfg)
	if got := c.Style().Width; got != BrushMedium*2.5 {
		t.Errorf("default width %g", got)
	}
	c.SetBrushSize(BrushSmall)
	if got := c.Style().Width; got != 25 {
		t.Errorf("small brush width %g, want 25", got)
	}
	c.SetBrushSize(-3)
	if got := c.Style().Width; got != 0 {
		t.Errorf("negative brush width %g", got)
	}
}

func TestSetColorString(t *testing.T) {
	c := New(DefaultConfig())
	if err := c.SetColorString("#FF0000"); err != nil {
		t.Fatal(err)
	}
	if c.Style().Color != red {
		t.Errorf("colour %v", c.Style().Color)
	}
	err := c.SetColorString("#XYZ")
	if !errors.Is(err, ErrUnknownColor) {
		t.Errorf("expected ErrUnknownColor, got %v", err)
	}
	if c.Style().Color != red {
		t.Error("invalid colour string changed the colour")
	}
}

func TestBackgroundImage(t *testing.T) {
	green := color.NRGBA{G: 0xFF, A: 0xFF}
	c := New(DefaultConfig())
	c.SetBackgroundImage(imaging.New(3, 7, green))
	c.Resize(12, 8)

	frame := c.RenderComposite()
	if frame.Bounds() != image.Rect(0, 0, 12, 8) {
		t.Fatalf("frame bounds %v", frame.Bounds())
	}
	if got := frame.NRGBAAt(6, 4); got != green {
		t.Errorf("background image missing: %v", got)
	}

	c.SetBackgroundImage(nil)
	if got := c.RenderComposite().NRGBAAt(6, 4); got != DefaultConfig().Background {
		t.Errorf("background colour missing: %v", got)
	}
}

func TestViewTransform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transform = matrix.Scale(2, 2)
	c := New(cfg)
	c.Resize(20, 20)
	c.SetBrushSize(1)
	c.Touch(Begin, Point{1, 1})
	for _, p := range []Point{{8, 1}, {8, 8}, {1, 8}, {1, 1}} {
		c.Touch(Move, p)
	}
	c.Touch(End, Point{1, 1})

	m := c.BoundaryMask()
	if !m.IsBoundary(2, 8) || !m.IsBoundary(16, 16) {
		t.Error("stroke not scaled by the view transform")
	}
	fillAt(c, Point{4.5, 4.5}, red)
	if got := c.Snapshot().NRGBAAt(9, 9); got != red {
		t.Errorf("seed not mapped through the view transform: %v", got)
	}
	if got := c.Snapshot().NRGBAAt(0, 0); got == red {
		t.Error("fill leaked out of the scaled loop")
	}
}
