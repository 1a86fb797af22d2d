package state

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	// ErrBlobSize is returned when a decoded pixel blob does not hold exactly
	// w*h*4 bytes.
	ErrBlobSize = errors.New("pixel blob size mismatch")
	// ErrNoSnapshot is returned for region updates that arrive before the
	// first full snapshot.
	ErrNoSnapshot = errors.New("no snapshot received yet")
	// ErrOutOfBounds is returned for a region that does not fit the mirror.
	ErrOutOfBounds = errors.New("region outside mirror")
)

// Mirror is the local copy of the shared raster. Cells are stored opaque: the
// wire alpha channel is dropped on decode.
type Mirror struct {
	img *image.RGBA
}

// NewMirror returns an empty mirror. It has zero size until the first full
// snapshot is applied.
func NewMirror() *Mirror {
	return &Mirror{img: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

// Width of the mirror in cells.
func (m *Mirror) Width() int { return m.img.Rect.Dx() }

// Height of the mirror in cells.
func (m *Mirror) Height() int { return m.img.Rect.Dy() }

// Size returns the mirror dimensions as floats for view math.
func (m *Mirror) Size() Size { return Size{W: float64(m.Width()), H: float64(m.Height())} }

// Ready reports whether a full snapshot has been applied.
func (m *Mirror) Ready() bool { return m.Width() > 0 && m.Height() > 0 }

// Image exposes the backing buffer for painting and export. Callers must not
// retain it across a full snapshot, which replaces the buffer.
func (m *Mirror) Image() *image.RGBA { return m.img }

// DecodeBlob decodes a base64 RGBA blob and checks that it covers a w×h area.
func DecodeBlob(w, h int, blob string) ([]byte, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrBlobSize, w, h)
	}
	if w > 0 && h > math.MaxInt/4/w {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrBlobSize, w, h)
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode pixel blob: %w", err)
	}
	if len(raw) != w*h*4 {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrBlobSize, len(raw), w, h)
	}
	return raw, nil
}

// EncodeBlob is the inverse of DecodeBlob for a packed RGBA buffer.
func EncodeBlob(rgba []byte) string {
	return base64.StdEncoding.EncodeToString(rgba)
}

// ApplyFullSnapshot replaces the buffer with a new w×h image. The previous
// buffer is discarded whatever its size. On error the mirror is unchanged.
func (m *Mirror) ApplyFullSnapshot(w, h int, blob string) error {
	raw, err := DecodeBlob(w, h, blob)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copyOpaque(img.Pix, raw)
	m.img = img
	return nil
}

// Region is a decoded patch ready to be written into the mirror.
type Region struct {
	X, Y, W, H int
	Pix        []byte // packed RGBA, W*H*4 bytes
}

// DecodeRegion validates a wire region without touching the mirror.
func DecodeRegion(x, y, w, h int, blob string) (Region, error) {
	raw, err := DecodeBlob(w, h, blob)
	if err != nil {
		return Region{}, err
	}
	return Region{X: x, Y: y, W: w, H: h, Pix: raw}, nil
}

// ApplyRegion decodes blob and writes it into the rectangle at (x, y). A
// rectangle reaching outside the mirror is rejected with ErrOutOfBounds.
func (m *Mirror) ApplyRegion(x, y, w, h int, blob string) error {
	r, err := DecodeRegion(x, y, w, h, blob)
	if err != nil {
		return err
	}
	return m.WriteRegions(r)
}

// WriteRegions writes already decoded regions in order. Every region is
// checked against the mirror before the first write, so a bad batch leaves
// the mirror untouched.
func (m *Mirror) WriteRegions(rs ...Region) error {
	if !m.Ready() {
		return ErrNoSnapshot
	}
	for _, r := range rs {
		if !image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).In(m.img.Rect) {
			return fmt.Errorf("%w: %dx%d at (%d,%d)", ErrOutOfBounds, r.W, r.H, r.X, r.Y)
		}
	}
	for _, r := range rs {
		for row := 0; row < r.H; row++ {
			dst := m.img.PixOffset(r.X, r.Y+row)
			src := row * r.W * 4
			copyOpaque(m.img.Pix[dst:dst+r.W*4], r.Pix[src:src+r.W*4])
		}
	}
	return nil
}

// ApplyPixel writes one cell. Coordinates outside the mirror are ignored.
func (m *Mirror) ApplyPixel(x, y int, c RGB) {
	if !image.Pt(x, y).In(m.img.Rect) {
		return
	}
	i := m.img.PixOffset(x, y)
	m.img.Pix[i+0] = c.R
	m.img.Pix[i+1] = c.G
	m.img.Pix[i+2] = c.B
	m.img.Pix[i+3] = 0xff
}

// ReadPixel returns the cell at (x, y), or false when it is outside the mirror.
func (m *Mirror) ReadPixel(x, y int) (RGB, bool) {
	if !image.Pt(x, y).In(m.img.Rect) {
		return RGB{}, false
	}
	i := m.img.PixOffset(x, y)
	return RGB{m.img.Pix[i], m.img.Pix[i+1], m.img.Pix[i+2]}, true
}

func copyOpaque(dst, src []byte) {
	copy(dst, src)
	for i := 3; i < len(dst); i += 4 {
		dst[i] = 0xff
	}
}
