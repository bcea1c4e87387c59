package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
)

// Decode opens the image at path and materializes it as a matrix with the
// requested channel count (matrix.RGB or matrix.Gray).
//
// The file is read once and closed before Decode returns; no handle outlives
// the call. Supported formats are those of github.com/disintegration/imaging:
// PNG, JPEG, GIF, TIFF and BMP.
//
// # Errors
//
//   - *DecodeError if the file cannot be opened or is not a supported image
func Decode(path string, channels int) (*matrix.Matrix, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	m, err := matrix.FromImage(img, channels)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return m, nil
}

// Cache keeps loaded image models so that repeated calls for the same file
// and mode reuse the decoded matrix and its cached equalization.
//
// Models are keyed by mode and the exact path string. Cache is safe for
// concurrent use.
//
// # Memory Management
//
// Cached models remain in memory until explicitly removed via Evict() or
// Clear(). Each model may hold two matrices: the source and its latest
// equalization.
type Cache struct {
	mu     sync.RWMutex
	opts   display.Options
	models map[cacheKey]ImageModel
}

type cacheKey struct {
	mode Mode
	path string
}

// NewCache creates an empty cache whose models are constructed with opts.
func NewCache(opts display.Options) *Cache {
	return &Cache{
		opts:   opts,
		models: make(map[cacheKey]ImageModel),
	}
}

// Load returns the cached model for (mode, path), loading it on first use.
func (c *Cache) Load(mode Mode, path string) (ImageModel, error) {
	key := cacheKey{mode: mode, path: path}

	c.mu.RLock()
	if m, ok := c.models[key]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	m, err := Load(mode, path, c.opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.models[key] = m
	c.mu.Unlock()

	return m, nil
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.models)
}

// Clear removes every cached model.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.models = make(map[cacheKey]ImageModel)
	c.mu.Unlock()
}

// Evict removes the models loaded from path in every mode.
// If the path is not cached, this method does nothing.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.models, cacheKey{mode: ModeColor, path: path})
	delete(c.models, cacheKey{mode: ModeGray, path: path})
	c.mu.Unlock()
}

// ImageInfo describes a loaded model.
type ImageInfo struct {
	// Path is the file the model was loaded from.
	Path string `json:"path"`

	// Mode is "color" or "gray".
	Mode Mode `json:"mode"`

	// Width and Height are the matrix dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Channels is 3 for colour models and 1 for grayscale models.
	Channels int `json:"channels"`

	// Format is "png", "jpeg", "gif", "tiff", "bmp" or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Equalized reports whether the model holds a cached equalization.
	Equalized bool `json:"equalized"`
}

// Describe returns metadata about m and its source file.
func Describe(m ImageModel) (*ImageInfo, error) {
	stat, err := os.Stat(m.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(m.Path())) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".tif", ".tiff":
		format = "tiff"
	case ".bmp":
		format = "bmp"
	}

	h, w, c := m.Matrix().Shape()
	return &ImageInfo{
		Path:          m.Path(),
		Mode:          m.Mode(),
		Width:         w,
		Height:        h,
		Channels:      c,
		Format:        format,
		FileSizeBytes: stat.Size(),
		Equalized:     m.Equalized() != nil,
	}, nil
}
