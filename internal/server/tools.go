package server

import "github.com/ironsheep/histogram-tools-mcp/internal/render"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func modeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"color", "gray"},
		"description": "Load the image as 3-channel RGB or single-channel grayscale. Default color",
		"default":     "color",
	}
}

func sourceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"original", "equalized", "both"},
		"description": "Which matrices to use: the decoded image, its equalization, or both in that order. Default original",
		"default":     "original",
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional file to save the figure to (.png, .jpg, .gif, .tif, .bmp)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image as a colour or grayscale model and return its dimensions, channel count and format. The model is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Processing
		{
			Name:        "image_equalize",
			Description: "Histogram-equalize every channel independently and return the result as base64-encoded PNG together with the 256-entry lookup table applied to each channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mode": modeProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"cdf", "step"},
						"description": "cdf stretches the cumulative histogram to 0-255; step uses bucketed equalization. Default cdf",
						"default":     "cdf",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_cancel_channels",
			Description: "Zero the named channels of a colour image and return the result as base64-encoded PNG. The loaded image is not modified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"channels": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "string",
							"enum": []string{"red", "green", "blue"},
						},
						"description": "Channels to cancel (case-insensitive)",
					},
				},
				"required": []string{"path", "channels"},
			},
		},

		// Rendering
		{
			Name:        "image_draw_histogram",
			Description: "Draw intensity histograms. Colour images get one figure per matrix with red, green and blue panels; grayscale images get one figure with a panel per matrix.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"mode":   modeProperty(),
					"source": sourceProperty(),
					"bins": map[string]interface{}{
						"type":        "integer",
						"description": "Number of histogram bins. Default 256",
						"default":     256,
						"minimum":     1,
						"maximum":     render.MaxBins,
					},
					"range_min": map[string]interface{}{
						"type":        "number",
						"description": "Lower edge of the binned range. Default 0",
					},
					"range_max": map[string]interface{}{
						"type":        "number",
						"description": "Upper edge of the binned range. Default 255",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Bar colours as names or #RRGGBB. Colour images need exactly three",
					},
					"alpha": map[string]interface{}{
						"type":        "number",
						"description": "Bar opacity in (0, 1]. Default 1",
					},
					"show_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Colour mode only: append the image below its histograms",
						"default":     false,
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_draw_images",
			Description: "Render the selected matrices stacked vertically in one figure and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"mode":        modeProperty(),
					"source":      sourceProperty(),
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_histogram_bins",
			Description: "Return the raw 256-bin intensity counts for each channel of the selected matrices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"mode":   modeProperty(),
					"source": sourceProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}
