// Package export writes snapshots of the mirror to disk.
package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"
)

// ErrEmpty is returned when there is no snapshot to export yet.
var ErrEmpty = errors.New("nothing to export")

const (
	pageMargin = 10.0 // mm
	// minEmbedEdge is the long edge, in pixels, a PDF image is upscaled to so
	// viewers do not blur the cells.
	minEmbedEdge = 1024
	maxEmbedEdge = 4096
)

// Format is an export file type.
type Format string

const (
	PNG Format = "png"
	PDF Format = "pdf"
)

// FormatFor picks the format from the file extension, defaulting to PNG.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return PDF
	}
	return PNG
}

// Save writes img to path in the format its extension names.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	err = Write(bw, img, FormatFor(path), filepath.Base(path))
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Write encodes img to w in format f. title names the PDF document.
func Write(w io.Writer, img image.Image, f Format, title string) error {
	if f == PDF {
		return WritePDF(w, img, title)
	}
	return WritePNG(w, img)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if empty(img) {
		return ErrEmpty
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePDF writes a single page document with img fitted inside the margins.
func WritePDF(w io.Writer, img image.Image, title string) error {
	if empty(img) {
		return ErrEmpty
	}
	b := img.Bounds()
	orient := "P"
	if b.Dx() > b.Dy() {
		orient = "L"
	}
	p := gofpdf.New(orient, "mm", "A4", "")
	p.SetTitle(title, true)
	p.SetCreator("PlaceBoard", true)
	p.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, upscale(img)); err != nil {
		return fmt.Errorf("encode pdf image: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("snapshot", opts, &buf)

	pw, ph := p.GetPageSize()
	aw, ah := pw-2*pageMargin, ph-2*pageMargin
	s := min(aw/float64(b.Dx()), ah/float64(b.Dy()))
	iw, ih := float64(b.Dx())*s, float64(b.Dy())*s
	p.ImageOptions("snapshot", (pw-iw)/2, (ph-ih)/2, iw, ih, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// upscale enlarges img by a whole factor with nearest neighbour sampling.
func upscale(img image.Image) image.Image {
	b := img.Bounds()
	long := max(b.Dx(), b.Dy())
	k := max(1, minEmbedEdge/long)
	if long*k > maxEmbedEdge {
		k = max(1, maxEmbedEdge/long)
	}
	if k == 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
	draw.NearestNeighbor.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst
}

func empty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
