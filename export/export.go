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

// Package export encodes rendered frames as image files and PDF documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// Format is an output file format.
type Format int

// These are the supported output formats.
const (
	PNG Format = iota
	JPEG
	GIF
	TIFF
	BMP
	PDF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case PDF:
		return "PDF"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnsupportedFormat is returned for unknown file formats.
var ErrUnsupportedFormat = errors.New("unsupported format")

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 90

var imagingFormats = map[Format]imaging.Format{
	PNG:  imaging.PNG,
	JPEG: imaging.JPEG,
	GIF:  imaging.GIF,
	TIFF: imaging.TIFF,
	BMP:  imaging.BMP,
}

// FormatFromFilename determines the output format from the extension of
// a file name. Recognised extensions are .png, .jpg, .jpeg, .gif, .tif,
// .tiff, .bmp and .pdf, in any case.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".pdf") {
		return PDF, nil
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
	}
	for ours, theirs := range imagingFormats {
		if theirs == f {
			return ours, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	if format == PDF {
		return encodePDF(w, img)
	}
	f, ok := imagingFormats[format]
	if !ok {
		return fmt.Errorf("encode %s: %w", format, ErrUnsupportedFormat)
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// encodePDF writes a single-page PDF document showing img. One pixel
// becomes one PDF point.
func encodePDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("encode PDF: empty image")
	}
	width, height := float64(b.Dx()), float64(b.Dy())

	var frame bytes.Buffer
	if err := imaging.Encode(&frame, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode PDF: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("seehuhn.de/go/paint", false)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("frame", opts, &frame)
	pdf.ImageOptions("frame", 0, 0, width, height, false, opts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("encode PDF: %w", err)
	}
	return nil
}

// Save writes img to the named file, in the format given by the file name
// extension.
func Save(name string, img image.Image) (err error) {
	format, err := FormatFromFilename(name)
	if err != nil {
		return err
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, img, format)
}

// SaveDrawing writes img as a PNG file named DrawingApp_<seconds>.png into
// dir, where <seconds> is now as a Unix time. It returns the path of the
// new file.
func SaveDrawing(dir string, img image.Image, now time.Time) (string, error) {
	name := filepath.Join(dir, fmt.Sprintf("DrawingApp_%d.png", now.Unix()))
	if err := Save(name, img); err != nil {
		return "", fmt.Errorf("save drawing: %w", err)
	}
	return name, nil
}
