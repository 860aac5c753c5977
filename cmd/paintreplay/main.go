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

// Command paintreplay replays a gesture script against a paint canvas and
// writes the resulting frame as an image or PDF file.
//
// Usage:
//
//	paintreplay [flags] -in script.json -out frame.png
//	paintreplay [flags] -scene square_inside -out - > frame.png
//
// The output format is taken from the file name extension; when writing to
// standard output, -format selects it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"

	"seehuhn.de/go/paint"
	"seehuhn.de/go/paint/export"
	"seehuhn.de/go/paint/scenes"
)

const pipeName = "-"

func main() {
	var (
		in         = flag.String("in", "", "gesture script (JSON), or - for stdin")
		scene      = flag.String("scene", "", "name of a built-in scene")
		out        = flag.String("out", "", "output file, or - for stdout")
		format     = flag.String("format", "png", "output format when writing to stdout")
		density    = flag.Float64("density", 1, "raster pixels per density-independent pixel")
		background = flag.String("background", "white", "background colour")
		mask       = flag.Bool("mask", false, "write the boundary mask instead of the frame")
		check      = flag.Bool("check", false, "verify the script's expected pixels")
		list       = flag.Bool("list", false, "list the built-in scenes and exit")
		verbose    = flag.Bool("v", false, "log engine events to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, name := range slices.Sorted(maps.Keys(scenes.All)) {
			fmt.Println(name)
		}
		return
	}
	if *verbose {
		paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	opts := options{
		in:         *in,
		scene:      *scene,
		out:        *out,
		format:     *format,
		density:    *density,
		background: *background,
		mask:       *mask,
		check:      *check,
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "paintreplay:", err)
		os.Exit(1)
	}
}

type options struct {
	in, scene, out string
	format         string
	density        float64
	background     string
	mask, check    bool
}

func run(opts options) error {
	script, err := loadScript(opts.in, opts.scene)
	if err != nil {
		return err
	}

	cfg := paint.DefaultConfig()
	cfg.Density = opts.density
	cfg.Background, err = paint.ParseColor(opts.background)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}

	c := paint.New(cfg)
	if err := script.Apply(c); err != nil {
		return err
	}
	if opts.check {
		if err := script.Check(c); err != nil {
			return err
		}
	}
	if opts.out == "" {
		return nil
	}

	var frame image.Image = c.RenderComposite()
	if opts.mask {
		frame = maskImage(c.BoundaryMask())
	}
	return writeFrame(opts.out, opts.format, frame)
}

func loadScript(in, scene string) (*scenes.Script, error) {
	switch {
	case in != "" && scene != "":
		return nil, errors.New("-in and -scene are mutually exclusive")
	case scene != "":
		s, ok := scenes.All[scene]
		if !ok {
			return nil, fmt.Errorf("unknown scene %q", scene)
		}
		return s, nil
	case in == pipeName:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return scenes.Load(os.Stdin)
	case in != "":
		f, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return scenes.Load(f)
	default:
		return nil, errors.New("one of -in or -scene is required")
	}
}

// maskImage shows boundary pixels in black on white.
func maskImage(m *paint.BoundaryMask) image.Image {
	alpha := m.Image()
	img := image.NewGray(alpha.Rect)
	for i, a := range alpha.Pix {
		img.Pix[i] = 0xFF - a
	}
	return img
}

func writeFrame(out, formatName string, frame image.Image) error {
	if out != pipeName {
		return export.Save(out, frame)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	format, err := export.FormatFromFilename("out." + strings.ToLower(formatName))
	if err != nil {
		return err
	}
	return export.Encode(os.Stdout, frame, format)
}
