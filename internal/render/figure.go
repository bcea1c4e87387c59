// Package render draws pixel matrices as histogram and image figures.
//
// Every drawing call returns a *Figure: an explicit raster canvas that the
// caller encodes, saves or inspects. There is no process-wide current figure.
// Plotting is delegated to gonum.org/v1/plot; panels are stacked vertically
// in a single column.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrInvalidStyle is returned for unusable rendering parameters.
var ErrInvalidStyle = errors.New("invalid render style")

const (
	headerHeight = 28 // points
	headerSize   = 16 // points
	panelPad     = 4  // millimetres
)

// Figure is a rendered raster canvas.
type Figure struct {
	canvas *vgimg.Canvas
	title  string
	panels int
	body   vg.Rectangle // area the panels were laid out in
}

// NewFigure allocates a blank white canvas of widthIn × heightIn inches.
func NewFigure(widthIn, heightIn float64) (*Figure, error) {
	if widthIn <= 0 || heightIn <= 0 {
		return nil, fmt.Errorf("%w: figure size %gx%g must be positive", ErrInvalidStyle, widthIn, heightIn)
	}
	return &Figure{
		canvas: vgimg.New(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
	}, nil
}

// Image returns the rendered raster.
func (f *Figure) Image() image.Image {
	return f.canvas.Image()
}

// Panels returns the number of panels drawn on the figure.
func (f *Figure) Panels() int {
	return f.panels
}

// Title returns the header drawn on the figure, if any.
func (f *Figure) Title() string {
	return f.title
}

// WriteTo encodes the figure as PNG.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	return vgimg.PngCanvas{Canvas: f.canvas}.WriteTo(w)
}

// Base64 returns the figure as a base64-encoded PNG.
func (f *Figure) Base64() (string, error) {
	return EncodePNG(f.Image())
}

// EncodePNG encodes img as a base64 PNG string.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Save writes the figure to path; the format follows the file extension.
func (f *Figure) Save(path string) error {
	if err := imaging.Save(f.Image(), path); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}
	return nil
}

// draw lays plots out in one column under an optional header.
func (f *Figure) draw(title string, plots []*plot.Plot) {
	dc := draw.New(f.canvas)

	if title != "" {
		sty := text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, headerSize),
			XAlign:  text.XCenter,
			YAlign:  text.YTop,
			Handler: plot.DefaultTextHandler,
		}
		top := vg.Point{
			X: (dc.Min.X + dc.Max.X) / 2,
			Y: dc.Max.Y - vg.Points(4),
		}
		dc.FillText(sty, top, title)
		dc = draw.Crop(dc, 0, 0, 0, -vg.Points(headerHeight))
		f.title = title
	}

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter * panelPad,
		PadY:      vg.Millimeter * panelPad,
		PadTop:    vg.Millimeter * panelPad,
		PadBottom: vg.Millimeter * panelPad,
		PadLeft:   vg.Millimeter * panelPad,
		PadRight:  vg.Millimeter * panelPad,
	}

	f.body = dc.Rectangle
	canvases := plot.Align(grid, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}
	f.panels = len(plots)
}
