package imaging

import (
	"fmt"
	"strings"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
	"github.com/ironsheep/histogram-tools-mcp/internal/render"
)

// channelIndex maps the recognized channel names to RGB channel positions.
var channelIndex = map[string]int{
	"red":   0,
	"green": 1,
	"blue":  2,
}

// ChannelIndex returns the RGB position of a channel name, ignoring case.
func ChannelIndex(name string) (int, error) {
	idx, ok := channelIndex[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: channel %q (channels must be red, green or blue)", ErrInvalidArgument, name)
	}
	return idx, nil
}

// ColorImage is an RGB image model.
type ColorImage struct {
	base
}

var _ ImageModel = (*ColorImage)(nil)

// NewColorImage decodes path as RGB. Zero-valued fields of opts take their
// defaults from display.Defaults.
//
// # Errors
//
//   - *DecodeError if the file cannot be read or decoded
//   - display.ErrInvalidOptions if opts describes an unusable figure
func NewColorImage(path string, opts display.Options) (*ColorImage, error) {
	b, err := newBase(ModeColor, matrix.RGB, path, opts)
	if err != nil {
		return nil, err
	}
	return &ColorImage{base: b}, nil
}

// CancelChannels returns a copy of the source matrix with the named channels
// zeroed. Names are matched case-insensitively against red, green and blue.
// Every name is validated before anything is copied: on error no channel is
// cancelled. The source matrix and the cached equalization are untouched.
func (img *ColorImage) CancelChannels(names ...string) (*matrix.Matrix, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx, err := ChannelIndex(name)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}
	return img.source.ZeroChannels(indices...)
}

// DrawHistogram renders one figure per image with a histogram panel for each
// of the red, green and blue channels, plus the image itself when
// style.ShowImage is set.
func (img *ColorImage) DrawHistogram(style render.HistogramStyle, images ...*matrix.Matrix) ([]*render.Figure, error) {
	ms, err := img.resolve(images)
	if err != nil {
		return nil, err
	}

	figs := make([]*render.Figure, 0, len(ms))
	for _, m := range ms {
		fig, err := render.ChannelHistograms(img.opts, style, m)
		if err != nil {
			return nil, err
		}
		figs = append(figs, fig)
	}
	return figs, nil
}
