package imaging

import (
	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
	"github.com/ironsheep/histogram-tools-mcp/internal/render"
)

// GrayImage is a single-channel image model. Colour sources are converted
// with ITU-R BT.601 luma weights.
type GrayImage struct {
	base
}

var _ ImageModel = (*GrayImage)(nil)

// NewGrayImage decodes path as grayscale. Errors are as for NewColorImage.
func NewGrayImage(path string, opts display.Options) (*GrayImage, error) {
	b, err := newBase(ModeGray, matrix.Gray, path, opts)
	if err != nil {
		return nil, err
	}
	return &GrayImage{base: b}, nil
}

// DrawHistogram renders a single figure with one histogram panel per image.
func (img *GrayImage) DrawHistogram(style render.HistogramStyle, images ...*matrix.Matrix) ([]*render.Figure, error) {
	ms, err := img.resolve(images)
	if err != nil {
		return nil, err
	}
	fig, err := render.StackedHistograms(img.opts, style, ms)
	if err != nil {
		return nil, err
	}
	return []*render.Figure{fig}, nil
}
