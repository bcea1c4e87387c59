package server

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/histogram-tools-mcp/internal/equalize"
	"github.com/ironsheep/histogram-tools-mcp/internal/imaging"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
	"github.com/ironsheep/histogram-tools-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_equalize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// invalidArgs marks argument decoding failures so they map to -32602.
type invalidArgs struct{ err error }

func (e *invalidArgs) Error() string { return e.err.Error() }
func (e *invalidArgs) Unwrap() error { return e.err }

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return -32602; tool execution errors return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	log := s.logger.WithFields(logrus.Fields{
		"tool":     params.Name,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		log.WithError(err).Warn("Tool call failed")
		if _, ok := err.(*invalidArgs); ok {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	log.Debug("Tool call completed")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Processing
	case "image_equalize":
		return s.handleImageEqualize(args)
	case "image_cancel_channels":
		return s.handleImageCancelChannels(args)

	// Rendering
	case "image_draw_histogram":
		return s.handleImageDrawHistogram(args)
	case "image_draw_images":
		return s.handleImageDrawImages(args)
	case "image_histogram_bins":
		return s.handleImageHistogramBins(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals args into v.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &invalidArgs{err}
	}
	return nil
}

// === Result Types ===

// EncodedImage is a matrix or figure returned inline as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels,omitempty"`
	Panels      int    `json:"panels,omitempty"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	SavedTo     string `json:"saved_to,omitempty"`
}

// EqualizeResult is returned by image_equalize.
type EqualizeResult struct {
	EncodedImage
	Method string                   `json:"method"`
	LUTs   [][equalize.Levels]uint8 `json:"luts"`
}

// FiguresResult is returned by image_draw_histogram.
type FiguresResult struct {
	Figures []EncodedImage `json:"figures"`
}

// BinsResult is returned by image_histogram_bins.
type BinsResult struct {
	Source   string        `json:"source"`
	Channels []ChannelBins `json:"channels"`
}

// ChannelBins holds 256 intensity counts for one channel of one matrix.
type ChannelBins struct {
	Image   int    `json:"image"`
	Channel string `json:"channel"`
	Bins    []int  `json:"bins"`
}

func encodeMatrix(m *matrix.Matrix) (*EncodedImage, error) {
	b64, err := render.EncodePNG(m.Image())
	if err != nil {
		return nil, err
	}
	return &EncodedImage{
		Width:       m.Width(),
		Height:      m.Height(),
		Channels:    m.Channels(),
		ImageBase64: b64,
		MimeType:    "image/png",
	}, nil
}

func encodeFigure(fig *render.Figure, savePath string) (*EncodedImage, error) {
	b64, err := fig.Base64()
	if err != nil {
		return nil, err
	}
	if savePath != "" {
		if err := fig.Save(savePath); err != nil {
			return nil, err
		}
	}
	b := fig.Image().Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Panels:      fig.Panels(),
		ImageBase64: b64,
		MimeType:    "image/png",
		SavedTo:     savePath,
	}, nil
}

// numberedPath returns path with "-n" inserted before its extension.
func numberedPath(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}

// === Model Access ===

type imageArgs struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
}

func (s *Server) model(a imageArgs) (imaging.ImageModel, error) {
	if a.Path == "" {
		return nil, &invalidArgs{fmt.Errorf("%w: path is required", imaging.ErrInvalidArgument)}
	}
	mode, err := imaging.ParseMode(a.Mode)
	if err != nil {
		return nil, &invalidArgs{err}
	}
	return s.cache.Load(mode, a.Path)
}

// sources resolves a source selector against m. "equalized" and "both"
// equalize on demand when m has no cached result.
func sources(m imaging.ImageModel, source string) ([]*matrix.Matrix, error) {
	equalized := func() (*matrix.Matrix, error) {
		if eq := m.Equalized(); eq != nil {
			return eq, nil
		}
		return m.Equalize()
	}

	switch strings.ToLower(source) {
	case "", "original":
		return []*matrix.Matrix{m.Matrix()}, nil
	case "equalized":
		eq, err := equalized()
		if err != nil {
			return nil, err
		}
		return []*matrix.Matrix{eq}, nil
	case "both":
		eq, err := equalized()
		if err != nil {
			return nil, err
		}
		return []*matrix.Matrix{m.Matrix(), eq}, nil
	default:
		return nil, &invalidArgs{fmt.Errorf("%w: unknown source %q", imaging.ErrInvalidArgument, source)}
	}
}

// === Tool Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := s.model(a)
	if err != nil {
		return nil, err
	}
	return imaging.Describe(m)
}

type imageEqualizeArgs struct {
	imageArgs
	Method string `json:"method"`
}

func (s *Server) handleImageEqualize(args json.RawMessage) (interface{}, error) {
	var a imageEqualizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	method, err := equalize.ParseMethod(a.Method)
	if err != nil {
		return nil, &invalidArgs{err}
	}
	m, err := s.model(a.imageArgs)
	if err != nil {
		return nil, err
	}

	res, err := m.EqualizeWith(method)
	if err != nil {
		return nil, err
	}
	enc, err := encodeMatrix(res.Matrix)
	if err != nil {
		return nil, err
	}
	return &EqualizeResult{
		EncodedImage: *enc,
		Method:       res.Method.String(),
		LUTs:         res.LUTs,
	}, nil
}

type imageCancelChannelsArgs struct {
	Path     string   `json:"path"`
	Channels []string `json:"channels"`
}

func (s *Server) handleImageCancelChannels(args json.RawMessage) (interface{}, error) {
	var a imageCancelChannelsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := s.model(imageArgs{Path: a.Path, Mode: string(imaging.ModeColor)})
	if err != nil {
		return nil, err
	}
	img, ok := m.(*imaging.ColorImage)
	if !ok {
		return nil, fmt.Errorf("%w: channel cancellation needs a colour image", imaging.ErrInvalidArgument)
	}

	out, err := img.CancelChannels(a.Channels...)
	if err != nil {
		return nil, err
	}
	return encodeMatrix(out)
}

type imageDrawHistogramArgs struct {
	imageArgs
	Source     string   `json:"source"`
	Bins       int      `json:"bins"`
	RangeMin   float64  `json:"range_min"`
	RangeMax   float64  `json:"range_max"`
	Colors     []string `json:"colors"`
	Alpha      float64  `json:"alpha"`
	ShowImage  bool     `json:"show_image"`
	OutputPath string   `json:"output_path"`
}

func (s *Server) handleImageDrawHistogram(args json.RawMessage) (interface{}, error) {
	var a imageDrawHistogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := s.model(a.imageArgs)
	if err != nil {
		return nil, err
	}
	images, err := sources(m, a.Source)
	if err != nil {
		return nil, err
	}

	if a.RangeMax == 0 {
		a.RangeMax = 255
	}
	style := render.HistogramStyle{
		Bins:      a.Bins,
		Range:     [2]float64{a.RangeMin, a.RangeMax},
		Colors:    a.Colors,
		Alpha:     a.Alpha,
		ShowImage: a.ShowImage,
	}
	figs, err := m.DrawHistogram(style, images...)
	if err != nil {
		return nil, err
	}

	result := &FiguresResult{Figures: make([]EncodedImage, 0, len(figs))}
	for i, fig := range figs {
		path := a.OutputPath
		if path != "" && len(figs) > 1 {
			path = numberedPath(path, i+1)
		}
		enc, err := encodeFigure(fig, path)
		if err != nil {
			return nil, err
		}
		result.Figures = append(result.Figures, *enc)
	}
	return result, nil
}

type imageDrawImagesArgs struct {
	imageArgs
	Source     string `json:"source"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImageDrawImages(args json.RawMessage) (interface{}, error) {
	var a imageDrawImagesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := s.model(a.imageArgs)
	if err != nil {
		return nil, err
	}
	images, err := sources(m, a.Source)
	if err != nil {
		return nil, err
	}

	fig, err := m.DrawImages(images...)
	if err != nil {
		return nil, err
	}
	return encodeFigure(fig, a.OutputPath)
}

type imageHistogramBinsArgs struct {
	imageArgs
	Source string `json:"source"`
}

func (s *Server) handleImageHistogramBins(args json.RawMessage) (interface{}, error) {
	var a imageHistogramBinsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	m, err := s.model(a.imageArgs)
	if err != nil {
		return nil, err
	}
	images, err := sources(m, a.Source)
	if err != nil {
		return nil, err
	}

	source := strings.ToLower(a.Source)
	if source == "" {
		source = "original"
	}
	result := &BinsResult{Source: source}
	for i, img := range images {
		h := histogram.NewRGBAHistogram(img.Image())
		if img.Channels() == matrix.Gray {
			result.Channels = append(result.Channels, ChannelBins{Image: i + 1, Channel: "gray", Bins: h.R.Bins})
			continue
		}
		result.Channels = append(result.Channels,
			ChannelBins{Image: i + 1, Channel: "red", Bins: h.R.Bins},
			ChannelBins{Image: i + 1, Channel: "green", Bins: h.G.Bins},
			ChannelBins{Image: i + 1, Channel: "blue", Bins: h.B.Bins},
		)
	}
	return result, nil
}
