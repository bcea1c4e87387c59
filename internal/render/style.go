package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxBins is the largest bin count a histogram panel accepts.
const MaxBins = 4096

// HistogramStyle controls binning and bar colouring.
type HistogramStyle struct {
	// Bins is the number of equal-width bins across Range, at most MaxBins.
	Bins int

	// Range is the [lo, hi] value window that is binned. Values outside it are dropped.
	Range [2]float64

	// Colors lists bar colours by name ("red", "gray", ...) or hex ("#RRGGBB").
	// Colour histograms need one per channel; grayscale uses the first.
	Colors []string

	// Alpha is the bar opacity in (0,1]. Zero means opaque.
	Alpha float64

	// ShowImage appends an image panel under colour channel histograms.
	ShowImage bool
}

// DefaultHistogramStyle returns 256 bins over [0,255], opaque, with no colours;
// callers fill Colors for their channel model.
func DefaultHistogramStyle() HistogramStyle {
	return HistogramStyle{
		Bins:  256,
		Range: [2]float64{0, 255},
		Alpha: 1,
	}
}

// withDefaults fills unset fields; colors is used when s.Colors is empty.
func (s HistogramStyle) withDefaults(colors ...string) HistogramStyle {
	d := DefaultHistogramStyle()
	if s.Bins == 0 {
		s.Bins = d.Bins
	}
	if s.Range == [2]float64{} {
		s.Range = d.Range
	}
	if s.Alpha == 0 {
		s.Alpha = d.Alpha
	}
	if len(s.Colors) == 0 {
		s.Colors = colors
	}
	return s
}

func (s HistogramStyle) validate() error {
	if s.Bins <= 0 || s.Bins > MaxBins {
		return fmt.Errorf("%w: bins must be in [1, %d], got %d", ErrInvalidStyle, MaxBins, s.Bins)
	}
	if s.Range[0] >= s.Range[1] {
		return fmt.Errorf("%w: range [%g, %g] must be increasing", ErrInvalidStyle, s.Range[0], s.Range[1])
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return fmt.Errorf("%w: alpha %g outside [0,1]", ErrInvalidStyle, s.Alpha)
	}
	return nil
}

// namedColors covers the basic colour names accepted by common plotting tools.
var namedColors = map[string]string{
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"black":   "#000000",
	"white":   "#ffffff",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"yellow":  "#ffff00",
}

// ParseColor resolves a colour name or hex string and applies alpha.
func ParseColor(name string, alpha float64) (color.NRGBA, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}

	c, err := colorful.Hex(key)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: unknown colour %q", ErrInvalidStyle, name)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}, nil
}
