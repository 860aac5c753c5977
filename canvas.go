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
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"seehuhn.de/go/geom/matrix"
)

// Phase is the phase of a touch gesture.
type Phase int

// These are the gesture phases understood by [Canvas.Touch].
const (
	Begin Phase = iota
	Move
	End
)

func (p Phase) String() string {
	switch p {
	case Begin:
		return "begin"
	case Move:
		return "move"
	case End:
		return "end"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Canvas is a drawing surface driven by touch events.
//
// In draw mode, gestures add freehand strokes. In fill mode, the end of a
// gesture flood-fills the region around the touch point, bounded by the
// committed strokes. Fills run on a background goroutine and replace the
// colour raster in one atomic step once they are complete.
//
// The methods of a Canvas may be called concurrently, but they are meant
// to be called from a single goroutine which handles input and drawing.
type Canvas struct {
	cfg Config
	ctm matrix.Matrix

	mu         sync.Mutex
	width      int
	height     int
	store      Store
	active     *StrokePath
	style      StrokeStyle
	fillMode   bool
	bgSource   image.Image
	background *image.NRGBA // bgSource scaled to the raster size
	masks      *MaskBuilder
	comp       *Compositor

	raster     atomic.Pointer[image.NRGBA]
	generation atomic.Uint64
	fills      sync.WaitGroup
}

// New returns an unsized canvas. Until [Canvas.Resize] is called, fills
// and renders do nothing. Strokes are drawn in black with a medium brush.
func New(cfg Config) *Canvas {
	ctm := cfg.deviceMatrix()
	c := &Canvas{
		cfg:    cfg,
		ctm:    ctm,
		active: &StrokePath{},
		style:  NewStrokeStyle(color.NRGBA{A: 0xFF}, BrushMedium*cfg.density()),
		masks:  NewMaskBuilder(ctm),
		comp:   NewCompositor(ctm),
	}
	c.store.KeepRedoOnCommit = cfg.KeepRedoOnCommit
	return c
}

// MaxPixels is the largest raster, in pixels, which [Canvas.Resize]
// allocates.
const MaxPixels = 1 << 28

// Resize allocates a new, fully transparent w×h colour raster. Committed
// strokes are kept. Fills still running on the old raster are discarded.
// A non-positive size, or a size of more than MaxPixels pixels, makes the
// canvas unsized again.
func (c *Canvas) Resize(w, h int) {
	c.mu.Lock()
	if w <= 0 || h <= 0 || w > MaxPixels/h {
		if w > 0 && h > 0 {
			Logger().Warn("canvas size too large", "width", w, "height", h)
		}
		c.width, c.height = 0, 0
		c.background = nil
		c.raster.Store(nil)
	} else {
		c.width, c.height = w, h
		c.raster.Store(image.NewNRGBA(image.Rect(0, 0, w, h)))
		c.scaleBackground()
	}
	gen := c.generation.Add(1)
	c.mu.Unlock()

	Logger().Debug("canvas resized", "width", w, "height", h, "generation", gen)
	c.invalidate()
}

// Size returns the raster size, or zeros if the canvas is unsized.
func (c *Canvas) Size() (w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// ClearRaster replaces the colour raster by a transparent one. This
// removes all fills but keeps the strokes.
func (c *Canvas) ClearRaster() {
	c.mu.Lock()
	if c.raster.Load() == nil {
		c.mu.Unlock()
		return
	}
	c.raster.Store(image.NewNRGBA(image.Rect(0, 0, c.width, c.height)))
	c.generation.Add(1)
	c.mu.Unlock()
	c.invalidate()
}

// SetFillMode switches between draw mode and fill mode. Entering fill mode
// discards a stroke which is still being drawn.
func (c *Canvas) SetFillMode(enabled bool) {
	c.mu.Lock()
	c.fillMode = enabled
	dropped := enabled && !c.active.IsEmpty()
	if dropped {
		c.active.points = c.active.points[:0]
	}
	c.mu.Unlock()

	if dropped {
		c.invalidate()
	}
}

// FillMode reports whether the canvas is in fill mode.
func (c *Canvas) FillMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fillMode
}

// SetColor sets the colour used by subsequent strokes and fills.
func (c *Canvas) SetColor(col color.NRGBA) {
	c.mu.Lock()
	c.style.Color = col
	c.mu.Unlock()
}

// SetColorString is like SetColor, but takes a colour string as accepted
// by [ParseColor]. The colour is unchanged if the string is invalid.
func (c *Canvas) SetColorString(s string) error {
	col, err := ParseColor(s)
	if err != nil {
		return err
	}
	c.SetColor(col)
	return nil
}

// SetBrushSize sets the width of subsequent strokes, in density-independent
// pixels.
func (c *Canvas) SetBrushSize(dp float64) {
	c.mu.Lock()
	c.style.Width = max(dp, 0) * c.cfg.density()
	c.mu.Unlock()
}

// Style returns the style used for the next stroke.
func (c *Canvas) Style() StrokeStyle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// SetStyle replaces the style used for subsequent strokes and fills.
func (c *Canvas) SetStyle(style StrokeStyle) {
	style.Width = max(style.Width, 0)
	c.mu.Lock()
	c.style = style
	c.mu.Unlock()
}

// Touch handles one touch event and reports whether it was used.
//
// In draw mode, Begin starts a new stroke, Move extends it, and End
// commits it to the store. In fill mode only End has an effect: it starts
// a flood fill seeded at the pixel containing p.
func (c *Canvas) Touch(phase Phase, p Point) bool {
	c.mu.Lock()
	if c.fillMode {
		if phase == End {
			c.startFill(p)
		}
		c.mu.Unlock()
		return true
	}

	handled := true
	switch phase {
	case Begin:
		c.active.Begin(p, c.style)
	case Move:
		if c.active.IsEmpty() {
			handled = false
			break
		}
		c.active.Append(p)
	case End:
		if c.active.IsEmpty() {
			handled = false
			break
		}
		s := c.active.frozen()
		c.store.Commit(s)
		c.active.points = c.active.points[:0]
		Logger().Debug("stroke committed",
			"id", s.ID(), "points", s.Len(), "width", s.style.Width)
	default:
		handled = false
	}
	c.mu.Unlock()

	if handled {
		c.invalidate()
	}
	return handled
}

// startFill builds the boundary mask and starts a fill on a background
// goroutine. The caller must hold c.mu.
func (c *Canvas) startFill(p Point) {
	src := c.raster.Load()
	if src == nil {
		Logger().Debug("fill ignored: canvas not sized")
		return
	}

	seed := c.seedPixel(p)
	if !seed.In(src.Rect) {
		Logger().Debug("fill ignored: seed outside raster", "seed", seed)
		return
	}
	mask := c.masks.Build(c.width, c.height, c.store.Strokes())
	if mask.IsBoundary(seed.X, seed.Y) {
		Logger().Debug("fill ignored: seed on boundary", "seed", seed)
		return
	}

	c.fills.Add(1)
	go c.fill(src, mask, seed, c.style.Color)
}

// fill runs on its own goroutine. It fills a private copy of src and
// publishes the copy if src is still the current raster.
func (c *Canvas) fill(src *image.NRGBA, mask *BoundaryMask, seed image.Point, col color.NRGBA) {
	defer c.fills.Done()

	dst := imaging.Clone(src)
	n := FloodFill(dst, mask, seed, col)
	if n == 0 {
		return
	}
	if !c.raster.CompareAndSwap(src, dst) {
		Logger().Warn("fill discarded: raster replaced while filling",
			"seed", seed, "pixels", n)
		return
	}
	gen := c.generation.Add(1)
	Logger().Debug("fill published", "seed", seed, "pixels", n, "generation", gen)
	c.invalidate()
}

// seedPixel returns the raster pixel containing the input point p.
func (c *Canvas) seedPixel(p Point) image.Point {
	m := c.ctm
	x := m[0]*p.X + m[2]*p.Y + m[4]
	y := m[1]*p.X + m[3]*p.Y + m[5]
	return image.Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
}

// Wait blocks until all fills started so far have been published or
// discarded.
func (c *Canvas) Wait() {
	c.fills.Wait()
}

// Generation returns a counter which increases whenever the colour raster
// is replaced.
func (c *Canvas) Generation() uint64 {
	return c.generation.Load()
}

// Undo removes the most recent stroke. It reports whether there was a
// stroke to remove. Fills already applied to the raster are not undone.
func (c *Canvas) Undo() bool {
	c.mu.Lock()
	ok := c.store.Undo()
	c.mu.Unlock()
	if ok {
		c.invalidate()
	}
	return ok
}

// Redo restores the most recently undone stroke. It reports whether there
// was a stroke to restore.
func (c *Canvas) Redo() bool {
	c.mu.Lock()
	ok := c.store.Redo()
	c.mu.Unlock()
	if ok {
		c.invalidate()
	}
	return ok
}

// CanUndo reports whether Undo would remove a stroke.
func (c *Canvas) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.CanUndo()
}

// CanRedo reports whether Redo would restore a stroke.
func (c *Canvas) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.CanRedo()
}

// Strokes returns the committed strokes in drawing order.
func (c *Canvas) Strokes() []*StrokePath {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Strokes()
}

// BoundaryMask returns the boundary mask a fill would use now, or nil if
// the canvas is unsized.
func (c *Canvas) BoundaryMask() *BoundaryMask {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.raster.Load() == nil {
		return nil
	}
	return c.masks.Build(c.width, c.height, c.store.Strokes())
}

// SetBackgroundImage sets an image which is drawn under the colour raster.
// The image is scaled and cropped to fill the canvas. Pass nil to remove
// the background image.
func (c *Canvas) SetBackgroundImage(img image.Image) {
	c.mu.Lock()
	c.bgSource = img
	c.scaleBackground()
	c.mu.Unlock()
	c.invalidate()
}

// scaleBackground must be called with c.mu held.
func (c *Canvas) scaleBackground() {
	if c.bgSource == nil || c.width == 0 || c.height == 0 {
		c.background = nil
		return
	}
	c.background = imaging.Fill(c.bgSource, c.width, c.height, imaging.Center, imaging.Lanczos)
}

// RenderComposite returns the frame shown to the user: the background
// colour, the background image, the colour raster, the committed strokes
// and the stroke in progress, painted in this order. It returns nil if the
// canvas is unsized.
func (c *Canvas) RenderComposite() *image.NRGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	src := c.raster.Load()
	if src == nil {
		return nil
	}
	frame := imaging.New(c.width, c.height, c.cfg.Background)
	if c.background != nil {
		drawOver(frame, c.background)
	}
	drawOver(frame, src)
	c.comp.Draw(frame, c.store.committed, c.active)
	return frame
}

// Snapshot returns a copy of the current colour raster, or nil if the
// canvas is unsized.
func (c *Canvas) Snapshot() *image.NRGBA {
	src := c.raster.Load()
	if src == nil {
		return nil
	}
	return imaging.Clone(src)
}

func (c *Canvas) invalidate() {
	if c.cfg.OnInvalidate != nil {
		c.cfg.OnInvalidate()
	}
}
