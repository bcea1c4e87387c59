// Package equalize implements histogram equalization of 8-bit intensity planes.
//
// Every method follows the same pipeline: a 256-bin histogram of the plane, a
// 256-entry lookup table derived from it, and an element-wise application of
// the table. Multi-channel matrices are equalized one channel at a time with
// no cross-channel coupling, and the results are stacked back in channel order.
package equalize

import (
	"fmt"

	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
)

// Levels is the number of representable intensities.
const Levels = 256

// Method selects how a histogram becomes a lookup table.
type Method int

const (
	// MethodCDF stretches the cumulative distribution so the smallest nonzero
	// CDF value maps to 0 and the largest to 255. Bins whose CDF is zero map to 0.
	MethodCDF Method = iota

	// MethodStep spreads the histogram over 256 equal-population steps, rounding
	// each step to its midpoint, as classic imaging toolkits do.
	MethodStep
)

// String returns the method name used in tool arguments.
func (m Method) String() string {
	switch m {
	case MethodCDF:
		return "cdf"
	case MethodStep:
		return "step"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "cdf" or "step" to a Method. The empty string selects MethodCDF.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "cdf":
		return MethodCDF, nil
	case "step":
		return MethodStep, nil
	default:
		return 0, fmt.Errorf("unknown equalization method %q (use cdf or step)", name)
	}
}

// Histogram counts the occurrences of each intensity in plane.
func Histogram(plane []uint8) [Levels]int {
	var h [Levels]int
	for _, v := range plane {
		h[v]++
	}
	return h
}

// Cumulative returns the running sum of h.
func Cumulative(h [Levels]int) [Levels]int {
	var cdf [Levels]int
	sum := 0
	for i, n := range h {
		sum += n
		cdf[i] = sum
	}
	return cdf
}

// Identity returns the lookup table that leaves every intensity unchanged.
func Identity() [Levels]uint8 {
	var lut [Levels]uint8
	for i := range lut {
		lut[i] = uint8(i)
	}
	return lut
}

// LUT derives the lookup table for h using method.
func LUT(h [Levels]int, method Method) ([Levels]uint8, error) {
	switch method {
	case MethodCDF:
		return cdfLUT(h), nil
	case MethodStep:
		return stepLUT(h), nil
	default:
		return [Levels]uint8{}, fmt.Errorf("unknown equalization method %v", method)
	}
}

// cdfLUT computes floor((cdf-cdfMin)*255/(cdfMax-cdfMin)) in integer arithmetic.
// A plane with a single intensity has a zero denominator and gets the identity table.
func cdfLUT(h [Levels]int) [Levels]uint8 {
	cdf := Cumulative(h)
	cdfMax := cdf[Levels-1]

	cdfMin := 0
	for _, c := range cdf {
		if c > 0 {
			cdfMin = c
			break
		}
	}

	span := cdfMax - cdfMin
	if span == 0 {
		return Identity()
	}

	var lut [Levels]uint8
	for i, c := range cdf {
		if c == 0 {
			continue
		}
		lut[i] = uint8((c - cdfMin) * (Levels - 1) / span)
	}
	return lut
}

func stepLUT(h [Levels]int) [Levels]uint8 {
	total, last, nonzero := 0, 0, 0
	for _, n := range h {
		if n == 0 {
			continue
		}
		total += n
		last = n
		nonzero++
	}
	if nonzero <= 1 {
		return Identity()
	}

	step := (total - last) / Levels
	if step == 0 {
		return Identity()
	}

	var lut [Levels]uint8
	n := step / 2
	for i := range lut {
		v := n / step
		if v > Levels-1 {
			v = Levels - 1
		}
		lut[i] = uint8(v)
		n += h[i]
	}
	return lut
}

// Apply maps every value of plane through lut into a new slice.
func Apply(plane []uint8, lut [Levels]uint8) []uint8 {
	out := make([]uint8, len(plane))
	for i, v := range plane {
		out[i] = lut[v]
	}
	return out
}

// Channel equalizes a single plane and returns the new plane with the table used.
func Channel(plane []uint8, method Method) ([]uint8, [Levels]uint8, error) {
	lut, err := LUT(Histogram(plane), method)
	if err != nil {
		return nil, lut, err
	}
	return Apply(plane, lut), lut, nil
}

// Result is an equalized matrix together with the per-channel tables that produced it.
type Result struct {
	Matrix *matrix.Matrix
	LUTs   [][Levels]uint8
	Method Method
}

// Matrix equalizes each channel of m independently. m must have exactly
// channels channels; a mismatch returns matrix.ErrShapeMismatch. m is not modified.
func Matrix(m *matrix.Matrix, channels int, method Method) (*Result, error) {
	if m.Channels() != channels {
		return nil, fmt.Errorf("%w: expected %d-channel matrix, got %s",
			matrix.ErrShapeMismatch, channels, m)
	}

	planes := make([][]uint8, channels)
	luts := make([][Levels]uint8, channels)
	for c := 0; c < channels; c++ {
		plane, err := m.Channel(c)
		if err != nil {
			return nil, err
		}
		planes[c], luts[c], err = Channel(plane, method)
		if err != nil {
			return nil, err
		}
	}

	out, err := matrix.Stack(m.Height(), m.Width(), planes...)
	if err != nil {
		return nil, err
	}
	return &Result{Matrix: out, LUTs: luts, Method: method}, nil
}
