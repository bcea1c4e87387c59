package render

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
)

// BinCounts splits [lo, hi] into n equal-width bins and counts values per bin.
// The last bin is closed on the right; values outside [lo, hi] are dropped.
func BinCounts(values []uint8, n int, lo, hi float64) []plotter.HistogramBin {
	bins := make([]plotter.HistogramBin, n)
	width := (hi - lo) / float64(n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	bins[n-1].Max = hi

	for _, v := range values {
		f := float64(v)
		if f < lo || f > hi {
			continue
		}
		k := int((f - lo) / (hi - lo) * float64(n))
		if k >= n {
			k = n - 1
		}
		bins[k].Weight++
	}
	return bins
}

// ChannelHistograms draws one histogram panel per RGB channel of m, tinted
// with the matching entry of style.Colors, and optionally the image itself
// as a fourth panel.
func ChannelHistograms(opts display.Options, style HistogramStyle, m *matrix.Matrix) (*Figure, error) {
	if m.Channels() != matrix.RGB {
		return nil, fmt.Errorf("%w: channel histograms need an RGB matrix, got %s", matrix.ErrShapeMismatch, m)
	}
	style = style.withDefaults("red", "green", "blue")
	if err := style.validate(); err != nil {
		return nil, err
	}
	if len(style.Colors) != matrix.RGB {
		return nil, fmt.Errorf("%w: need %d colours, got %d", ErrInvalidStyle, matrix.RGB, len(style.Colors))
	}

	plots := make([]*plot.Plot, 0, 4)
	for c, name := range style.Colors {
		plane, err := m.Channel(c)
		if err != nil {
			return nil, err
		}
		fill, err := ParseColor(name, style.Alpha)
		if err != nil {
			return nil, err
		}
		title := strings.ToUpper(name) + " Channel Histogram"
		plots = append(plots, histogramPanel(opts, style, title, plane, fill))
	}

	height := opts.Height
	if style.ShowImage {
		plots = append(plots, imagePanel("Image", m))
		height += opts.Height
	}

	fig, err := NewFigure(opts.Width, height)
	if err != nil {
		return nil, err
	}
	fig.draw(opts.Title, plots)
	return fig, nil
}

// StackedHistograms draws one grayscale histogram panel per matrix in ms,
// titled by position.
func StackedHistograms(opts display.Options, style HistogramStyle, ms []*matrix.Matrix) (*Figure, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: no matrices to draw", ErrInvalidStyle)
	}
	style = style.withDefaults("gray")
	if err := style.validate(); err != nil {
		return nil, err
	}
	fill, err := ParseColor(style.Colors[0], style.Alpha)
	if err != nil {
		return nil, err
	}

	plots := make([]*plot.Plot, len(ms))
	for i, m := range ms {
		if m.Channels() != matrix.Gray {
			return nil, fmt.Errorf("%w: image %d is %s, want a single channel", matrix.ErrShapeMismatch, i+1, m)
		}
		plane, err := m.Channel(0)
		if err != nil {
			return nil, err
		}
		plots[i] = histogramPanel(opts, style, fmt.Sprintf("Histogram of Image %d", i+1), plane, fill)
	}

	fig, err := NewFigure(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	fig.draw(opts.Title, plots)
	return fig, nil
}

func histogramPanel(opts display.Options, style HistogramStyle, title string, plane []uint8, fill color.Color) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	h := &plotter.Histogram{
		Bins:      BinCounts(plane, style.Bins, style.Range[0], style.Range[1]),
		Width:     (style.Range[1] - style.Range[0]) / float64(style.Bins),
		FillColor: fill,
		LineStyle: draw.LineStyle{Color: fill, Width: vg.Points(0.25)},
	}
	p.Add(h)

	p.X.Min = opts.Lim[0]
	p.X.Max = opts.Lim[1]
	p.Y.Min = 0
	return p
}
