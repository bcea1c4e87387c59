package imaging

import (
	"fmt"
	"sync"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/equalize"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
	"github.com/ironsheep/histogram-tools-mcp/internal/render"
)

// Mode names a channel model.
type Mode string

const (
	ModeColor Mode = "color"
	ModeGray  Mode = "gray"
)

// ParseMode maps "color" or "gray" to a Mode. The empty string selects ModeColor.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeColor):
		return ModeColor, nil
	case string(ModeGray):
		return ModeGray, nil
	default:
		return "", fmt.Errorf("%w: mode %q (use color or gray)", ErrInvalidArgument, s)
	}
}

// ImageModel is the contract shared by ColorImage and GrayImage.
type ImageModel interface {
	// Path returns the file the model was loaded from.
	Path() string

	// Mode returns ModeColor or ModeGray.
	Mode() Mode

	// Channels returns the channel count of every matrix the model accepts.
	Channels() int

	// Options returns the display configuration fixed at construction.
	Options() display.Options

	// Matrix returns the source matrix.
	Matrix() *matrix.Matrix

	// Equalize equalizes the source with equalize.MethodCDF, caches and returns the result.
	Equalize() (*matrix.Matrix, error)

	// EqualizeWith is Equalize with an explicit method; the result carries the tables used.
	EqualizeWith(method equalize.Method) (*equalize.Result, error)

	// Equalized returns the most recent equalization, or nil before the first one.
	Equalized() *matrix.Matrix

	// DrawHistogram renders intensity histograms of images, or of the source
	// matrix when images is empty.
	DrawHistogram(style render.HistogramStyle, images ...*matrix.Matrix) ([]*render.Figure, error)

	// DrawImages renders images, or the source matrix when images is empty,
	// as stacked image panels.
	DrawImages(images ...*matrix.Matrix) (*render.Figure, error)
}

// Load constructs the model for mode from the image at path.
func Load(mode Mode, path string, opts display.Options) (ImageModel, error) {
	switch mode {
	case ModeColor:
		return NewColorImage(path, opts)
	case ModeGray:
		return NewGrayImage(path, opts)
	default:
		return nil, fmt.Errorf("%w: mode %q (use color or gray)", ErrInvalidArgument, mode)
	}
}

// base carries the state and behaviour common to both channel models.
type base struct {
	path     string
	mode     Mode
	channels int
	opts     display.Options
	source   *matrix.Matrix

	mu        *sync.Mutex // guards equalized; models are shared through Cache
	equalized *matrix.Matrix
}

func newBase(mode Mode, channels int, path string, opts display.Options) (base, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return base{}, err
	}
	m, err := Decode(path, channels)
	if err != nil {
		return base{}, err
	}
	return base{path: path, mode: mode, channels: channels, opts: opts, source: m, mu: new(sync.Mutex)}, nil
}

func (b *base) Path() string             { return b.path }
func (b *base) Mode() Mode               { return b.mode }
func (b *base) Channels() int            { return b.channels }
func (b *base) Options() display.Options { return b.opts }
func (b *base) Matrix() *matrix.Matrix   { return b.source }

func (b *base) Equalized() *matrix.Matrix {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.equalized
}

func (b *base) Equalize() (*matrix.Matrix, error) {
	res, err := b.EqualizeWith(equalize.MethodCDF)
	if err != nil {
		return nil, err
	}
	return res.Matrix, nil
}

func (b *base) EqualizeWith(method equalize.Method) (*equalize.Result, error) {
	res, err := equalize.Matrix(b.source, b.channels, method)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.equalized = res.Matrix
	b.mu.Unlock()
	return res, nil
}

func (b *base) DrawImages(images ...*matrix.Matrix) (*render.Figure, error) {
	ms, err := b.resolve(images)
	if err != nil {
		return nil, err
	}
	return render.Images(b.opts, ms)
}

// resolve defaults images to the source matrix and checks channel counts.
func (b *base) resolve(images []*matrix.Matrix) ([]*matrix.Matrix, error) {
	if len(images) == 0 {
		return []*matrix.Matrix{b.source}, nil
	}
	for i, m := range images {
		if m == nil {
			return nil, fmt.Errorf("%w: image %d is nil", ErrInvalidArgument, i+1)
		}
		if m.Channels() != b.channels {
			return nil, fmt.Errorf("%w: image %d is %s, %s model needs %d channels",
				matrix.ErrShapeMismatch, i+1, m, b.mode, b.channels)
		}
	}
	return images, nil
}
