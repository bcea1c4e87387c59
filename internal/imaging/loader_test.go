package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/histogram-tools-mcp/internal/display"
	"github.com/ironsheep/histogram-tools-mcp/internal/matrix"
)

// writePNG encodes img into a temp file and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// createGoldenColorImage writes the 2x2 RGB fixture
// [[(0,0,0),(255,255,255)],[(128,128,128),(64,64,64)]].
func createGoldenColorImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})
	img.Set(0, 1, color.RGBA{128, 128, 128, 255})
	img.Set(1, 1, color.RGBA{64, 64, 64, 255})
	return writePNG(t, img)
}

// createGoldenGrayImage writes the 1x3 grayscale fixture [10, 10, 245].
func createGoldenGrayImage(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix = []uint8{10, 10, 245}
	return writePNG(t, img)
}

// createPatternImage writes an image with red, green, blue and white quadrants.
func createPatternImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

func TestDecode_Color(t *testing.T) {
	m, err := Decode(createGoldenColorImage(t), matrix.RGB)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if h, w, c := m.Shape(); h != 2 || w != 2 || c != 3 {
		t.Fatalf("shape: got %dx%dx%d, want 2x2x3", h, w, c)
	}
	if m.At(1, 0, 1) != 128 || m.At(1, 1, 2) != 64 || m.At(0, 1, 0) != 255 {
		t.Errorf("unexpected values: %v", m.Pix())
	}
}

func TestDecode_GrayFromColor(t *testing.T) {
	m, err := Decode(createPatternImage(t, 4, 4), matrix.Gray)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	// BT.601 luma: red 76, green 150, blue 29, white 255.
	tests := []struct {
		y, x int
		want uint8
	}{
		{0, 0, 76},
		{0, 3, 150},
		{3, 0, 29},
		{3, 3, 255},
	}
	for _, tt := range tests {
		if got := m.At(tt.y, tt.x, 0); got != tt.want {
			t.Errorf("At(%d,%d): got %d, want %d", tt.y, tt.x, got, tt.want)
		}
	}
}

func TestDecode_NonExistent(t *testing.T) {
	_, err := Decode("/nonexistent/path/to/image.png", matrix.RGB)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want *DecodeError", err)
	}
	if de.Path != "/nonexistent/path/to/image.png" {
		t.Errorf("Path: got %s", de.Path)
	}
}

func TestDecode_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid-image.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Decode(path, matrix.RGB)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("got %v, want *DecodeError", err)
	}
}

func TestNewCache(t *testing.T) {
	cache := NewCache(display.Defaults())
	if cache == nil {
		t.Fatal("NewCache returned nil")
	}
	if cache.models == nil {
		t.Fatal("NewCache did not initialize models map")
	}
}

func TestCache_Load(t *testing.T) {
	cache := NewCache(display.Defaults())
	path := createGoldenColorImage(t)

	m1, err := cache.Load(ModeColor, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m2, err := cache.Load(ModeColor, path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if m1 != m2 {
		t.Error("second Load did not return cached model")
	}

	g, err := cache.Load(ModeGray, path)
	if err != nil {
		t.Fatalf("gray Load failed: %v", err)
	}
	if g.Channels() != 1 {
		t.Errorf("gray model channels: got %d, want 1", g.Channels())
	}
	if cache.Len() != 2 {
		t.Errorf("Len: got %d, want 2", cache.Len())
	}
}

func TestCache_Load_NonExistent(t *testing.T) {
	cache := NewCache(display.Defaults())
	if _, err := cache.Load(ModeColor, "/nonexistent/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}
	if cache.Len() != 0 {
		t.Error("failed Load left an entry in the cache")
	}
}

func TestCache_EvictAndClear(t *testing.T) {
	cache := NewCache(display.Defaults())
	path := createGoldenColorImage(t)
	other := createGoldenGrayImage(t)

	for _, mode := range []Mode{ModeColor, ModeGray} {
		if _, err := cache.Load(mode, path); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if _, err := cache.Load(ModeGray, other); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(path)
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d models, want 1", cache.Len())
	}

	cache.Evict("/nonexistent/path")

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear did not empty cache: %d models remain", cache.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache(display.Defaults())
	path := createPatternImage(t, 16, 16)

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(ModeColor, path); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	img, err := NewColorImage(createPatternImage(t, 20, 10), display.Options{})
	if err != nil {
		t.Fatalf("NewColorImage failed: %v", err)
	}

	info, err := Describe(img)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if info.Width != 20 || info.Height != 10 || info.Channels != 3 {
		t.Errorf("dimensions: got %dx%dx%d, want 20x10x3", info.Width, info.Height, info.Channels)
	}
	if info.Format != "png" || info.Mode != ModeColor {
		t.Errorf("Format/Mode: got %s/%s", info.Format, info.Mode)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
	if info.Equalized {
		t.Error("Equalized should be false before equalization")
	}

	if _, err := img.Equalize(); err != nil {
		t.Fatalf("Equalize failed: %v", err)
	}
	info, _ = Describe(img)
	if !info.Equalized {
		t.Error("Equalized should be true after equalization")
	}
}
