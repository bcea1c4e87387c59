// Package matrix holds the 8-bit pixel matrices the analysis operates on.
//
// A Matrix is an H×W×C array of intensities in [0,255] stored row-major with
// channels interleaved, so the value at row y, column x, channel c lives at
// index (y*W+x)*C+c. C is 1 for grayscale and 3 for RGB.
//
// Matrices are immutable once built: every transform returns a new Matrix and
// accessors that expose raw storage return copies.
package matrix

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrShapeMismatch is returned when a matrix does not have the dimensions or
// channel count an operation requires.
var ErrShapeMismatch = errors.New("shape mismatch")

// Supported channel counts.
const (
	Gray = 1
	RGB  = 3
)

// Matrix is an immutable 8-bit pixel matrix.
type Matrix struct {
	height   int
	width    int
	channels int
	pix      []uint8
}

// New creates a zero-filled matrix.
func New(height, width, channels int) (*Matrix, error) {
	if err := checkShape(height, width, channels); err != nil {
		return nil, err
	}
	return &Matrix{
		height:   height,
		width:    width,
		channels: channels,
		pix:      make([]uint8, height*width*channels),
	}, nil
}

// FromSlice builds a matrix from interleaved row-major values. The slice is copied.
func FromSlice(height, width, channels int, pix []uint8) (*Matrix, error) {
	if err := checkShape(height, width, channels); err != nil {
		return nil, err
	}
	if len(pix) != height*width*channels {
		return nil, fmt.Errorf("%w: %d values for %dx%dx%d matrix",
			ErrShapeMismatch, len(pix), height, width, channels)
	}
	out := make([]uint8, len(pix))
	copy(out, pix)
	return &Matrix{height: height, width: width, channels: channels, pix: out}, nil
}

// FromImage materializes img as a matrix with the requested channel count.
//
// RGB matrices take the non-premultiplied red, green and blue components and
// drop alpha. Gray matrices use the ITU-R BT.601 luma of the RGB components;
// an *image.Gray source is copied as is.
func FromImage(img image.Image, channels int) (*Matrix, error) {
	b := img.Bounds()
	m, err := New(b.Dy(), b.Dx(), channels)
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok && channels == Gray {
		for y := 0; y < m.height; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+m.width]
			copy(m.pix[y*m.width:], row)
		}
		return m, nil
	}

	var src *image.NRGBA
	if channels == Gray {
		src = imaging.Grayscale(img)
	} else {
		src = imaging.Clone(img)
	}

	// imaging always returns images anchored at (0,0).
	i := 0
	for y := 0; y < m.height; y++ {
		off := y * src.Stride
		for x := 0; x < m.width; x++ {
			p := src.Pix[off+x*4 : off+x*4+3]
			if channels == Gray {
				m.pix[i] = p[0]
				i++
				continue
			}
			m.pix[i], m.pix[i+1], m.pix[i+2] = p[0], p[1], p[2]
			i += 3
		}
	}
	return m, nil
}

// Stack combines single-channel planes into one matrix, plane k becoming
// channel k. Every plane must hold height*width values.
func Stack(height, width int, planes ...[]uint8) (*Matrix, error) {
	m, err := New(height, width, len(planes))
	if err != nil {
		return nil, err
	}
	n := height * width
	for c, plane := range planes {
		if len(plane) != n {
			return nil, fmt.Errorf("%w: plane %d has %d values, want %d",
				ErrShapeMismatch, c, len(plane), n)
		}
		for i, v := range plane {
			m.pix[i*m.channels+c] = v
		}
	}
	return m, nil
}

// Height returns the number of rows.
func (m *Matrix) Height() int { return m.height }

// Width returns the number of columns.
func (m *Matrix) Width() int { return m.width }

// Channels returns the channel count (1 or 3).
func (m *Matrix) Channels() int { return m.channels }

// Shape returns height, width and channel count.
func (m *Matrix) Shape() (height, width, channels int) {
	return m.height, m.width, m.channels
}

// Len returns the number of pixels (height*width).
func (m *Matrix) Len() int { return m.height * m.width }

// At returns the value at row y, column x, channel c.
func (m *Matrix) At(y, x, c int) uint8 {
	return m.pix[(y*m.width+x)*m.channels+c]
}

// Pix returns a copy of the interleaved storage.
func (m *Matrix) Pix() []uint8 {
	out := make([]uint8, len(m.pix))
	copy(out, m.pix)
	return out
}

// Channel returns a copy of channel c as a row-major plane.
func (m *Matrix) Channel(c int) ([]uint8, error) {
	if c < 0 || c >= m.channels {
		return nil, fmt.Errorf("%w: channel %d of %d-channel matrix", ErrShapeMismatch, c, m.channels)
	}
	plane := make([]uint8, m.Len())
	for i := range plane {
		plane[i] = m.pix[i*m.channels+c]
	}
	return plane, nil
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{height: m.height, width: m.width, channels: m.channels, pix: m.Pix()}
}

// SameShape reports whether o has the same dimensions and channel count.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.height == o.height && m.width == o.width && m.channels == o.channels
}

// Equal reports whether o has the same shape and values.
func (m *Matrix) Equal(o *Matrix) bool {
	if !m.SameShape(o) {
		return false
	}
	for i, v := range m.pix {
		if o.pix[i] != v {
			return false
		}
	}
	return true
}

// ZeroChannels returns a copy with every value of the listed channels set to 0.
// All indices are checked before the copy is made.
func (m *Matrix) ZeroChannels(indices ...int) (*Matrix, error) {
	for _, c := range indices {
		if c < 0 || c >= m.channels {
			return nil, fmt.Errorf("%w: channel %d of %d-channel matrix", ErrShapeMismatch, c, m.channels)
		}
	}
	out := m.Clone()
	for _, c := range indices {
		for i := c; i < len(out.pix); i += out.channels {
			out.pix[i] = 0
		}
	}
	return out, nil
}

// Image returns the matrix as an *image.Gray (1 channel) or an opaque
// *image.NRGBA (3 channels).
func (m *Matrix) Image() image.Image {
	rect := image.Rect(0, 0, m.width, m.height)
	if m.channels == Gray {
		img := image.NewGray(rect)
		for y := 0; y < m.height; y++ {
			copy(img.Pix[y*img.Stride:], m.pix[y*m.width:(y+1)*m.width])
		}
		return img
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			i := (y*m.width + x) * 3
			img.SetNRGBA(x, y, color.NRGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: 255})
		}
	}
	return img
}

// String describes the shape, e.g. "2x2x3".
func (m *Matrix) String() string {
	return fmt.Sprintf("%dx%dx%d", m.height, m.width, m.channels)
}

func checkShape(height, width, channels int) error {
	if height <= 0 || width <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrShapeMismatch, height, width)
	}
	if channels != Gray && channels != RGB {
		return fmt.Errorf("%w: unsupported channel count %d", ErrShapeMismatch, channels)
	}
	return nil
}
