package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
)

// Images draws each matrix as an image panel titled "Image i", one above the
// other, with axes hidden. Single-channel matrices render in gray levels and
// RGB matrices render their colours directly; values are not rescaled.
func Images(opts display.Options, ms []*matrix.Matrix) (*Figure, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: no matrices to draw", ErrInvalidStyle)
	}

	plots := make([]*plot.Plot, len(ms))
	for i, m := range ms {
		plots[i] = imagePanel(fmt.Sprintf("Image %d", i+1), m)
	}

	fig, err := NewFigure(opts.Width, opts.Height*float64(len(ms)))
	if err != nil {
		return nil, err
	}
	fig.draw(opts.Title, plots)
	return fig, nil
}

func imagePanel(title string, m *matrix.Matrix) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewImage(m.Image(), 0, 0, float64(m.Width()), float64(m.Height())))
	p.HideAxes()
	return p
}
