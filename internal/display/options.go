// Package display holds the per-image figure configuration.
//
// An Options value is fixed when an image model is constructed and reused by
// every rendering call on that model.
package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidOptions is returned when an Options value cannot describe a figure.
var ErrInvalidOptions = errors.New("invalid display options")

// Options configures figure size, labelling and the histogram x-axis window.
type Options struct {
	// Width is the figure width in inches.
	Width float64 `toml:"width" json:"width"`

	// Height is the figure height in inches. Stacked layouts multiply it.
	Height float64 `toml:"height" json:"height"`

	// Title is drawn as the figure header when non-empty.
	Title string `toml:"title" json:"title"`

	// XLabel and YLabel label every histogram panel.
	XLabel string `toml:"x_label" json:"x_label"`
	YLabel string `toml:"y_label" json:"y_label"`

	// Lim is the [min, max] x-axis window shared by histogram panels.
	Lim [2]float64 `toml:"lim" json:"lim"`
}

// Defaults returns the stock configuration.
func Defaults() Options {
	return Options{
		Width:  10,
		Height: 5,
		Title:  "Untitled",
		XLabel: "Pixel Intensity",
		YLabel: "Number of Pixels",
		Lim:    [2]float64{0, 255},
	}
}

// WithDefaults fills zero-valued fields from Defaults. A zero Lim ([0,0]) is
// replaced as a whole.
func (o Options) WithDefaults() Options {
	d := Defaults()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.XLabel == "" {
		o.XLabel = d.XLabel
	}
	if o.YLabel == "" {
		o.YLabel = d.YLabel
	}
	if o.Lim == [2]float64{} {
		o.Lim = d.Lim
	}
	return o
}

// Validate checks that the figure has a positive size and an increasing window.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: figure size %gx%g must be positive", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.Lim[0] >= o.Lim[1] {
		return fmt.Errorf("%w: lim [%g, %g] must be increasing", ErrInvalidOptions, o.Lim[0], o.Lim[1])
	}
	return nil
}

// Load reads Options from a TOML file. Keys left out keep their default value;
// keys outside the recognized set are rejected.
//
//	width = 12.0
//	height = 4.0
//	title = "Harbour at dusk"
//	x_label = "Pixel Intensity"
//	y_label = "Number of Pixels"
//	lim = [0.0, 255.0]
func Load(path string) (Options, error) {
	opts := Defaults()
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read display options: %w", err)
	}
	return finish(md, opts)
}

// Parse is Load for in-memory TOML.
func Parse(data string) (Options, error) {
	opts := Defaults()
	md, err := toml.Decode(data, &opts)
	if err != nil {
		return Options{}, fmt.Errorf("failed to parse display options: %w", err)
	}
	return finish(md, opts)
}

func finish(md toml.MetaData, opts Options) (Options, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, fmt.Errorf("%w: unrecognized keys %s", ErrInvalidOptions, strings.Join(keys, ", "))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
