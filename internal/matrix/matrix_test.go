package matrix

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNew_InvalidShape(t *testing.T) {
	tests := []struct {
		name                    string
		height, width, channels int
	}{
		{"zero height", 0, 4, 3},
		{"negative width", 2, -1, 1},
		{"two channels", 2, 2, 2},
		{"four channels", 2, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.height, tt.width, tt.channels)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("New(%d,%d,%d): got %v, want ErrShapeMismatch", tt.height, tt.width, tt.channels, err)
			}
		})
	}
}

func TestFromSlice_CopiesInput(t *testing.T) {
	pix := []uint8{1, 2, 3, 4}
	m, err := FromSlice(2, 2, Gray, pix)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	pix[0] = 99
	if m.At(0, 0, 0) != 1 {
		t.Errorf("matrix aliases caller slice: At(0,0,0) = %d", m.At(0, 0, 0))
	}
}

func TestFromSlice_WrongLength(t *testing.T) {
	_, err := FromSlice(2, 2, RGB, []uint8{1, 2, 3})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestFromImage_RGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})
	img.Set(1, 0, color.RGBA{200, 100, 50, 255})

	m, err := FromImage(img, RGB)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if h, w, c := m.Shape(); h != 1 || w != 2 || c != 3 {
		t.Fatalf("shape: got %dx%dx%d, want 1x2x3", h, w, c)
	}
	want := []uint8{10, 20, 30, 200, 100, 50}
	for i, v := range m.Pix() {
		if v != want[i] {
			t.Errorf("pix[%d]: got %d, want %d", i, v, want[i])
		}
	}
}

func TestFromImage_GraySource(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix = []uint8{10, 10, 245}

	m, err := FromImage(img, Gray)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	want := []uint8{10, 10, 245}
	for i, v := range m.Pix() {
		if v != want[i] {
			t.Errorf("pix[%d]: got %d, want %d", i, v, want[i])
		}
	}
}

func TestFromImage_ColorToGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})
	img.Set(2, 0, color.RGBA{128, 128, 128, 255})

	m, err := FromImage(img, Gray)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if m.Channels() != Gray {
		t.Fatalf("channels: got %d, want 1", m.Channels())
	}
	want := []uint8{0, 255, 128}
	for i, v := range m.Pix() {
		if v != want[i] {
			t.Errorf("pix[%d]: got %d, want %d", i, v, want[i])
		}
	}
}

func TestStack(t *testing.T) {
	r := []uint8{1, 2}
	g := []uint8{3, 4}
	b := []uint8{5, 6}

	m, err := Stack(1, 2, r, g, b)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	want := []uint8{1, 3, 5, 2, 4, 6}
	for i, v := range m.Pix() {
		if v != want[i] {
			t.Errorf("pix[%d]: got %d, want %d", i, v, want[i])
		}
	}

	plane, err := m.Channel(1)
	if err != nil {
		t.Fatalf("Channel failed: %v", err)
	}
	if plane[0] != 3 || plane[1] != 4 {
		t.Errorf("Channel(1): got %v, want [3 4]", plane)
	}
}

func TestStack_BadPlane(t *testing.T) {
	_, err := Stack(2, 2, []uint8{1, 2, 3, 4}, []uint8{1}, []uint8{1, 2, 3, 4})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestChannel_OutOfRange(t *testing.T) {
	m, _ := New(1, 1, Gray)
	if _, err := m.Channel(1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestZeroChannels(t *testing.T) {
	m, _ := FromSlice(1, 2, RGB, []uint8{1, 2, 3, 4, 5, 6})

	out, err := m.ZeroChannels(0, 2)
	if err != nil {
		t.Fatalf("ZeroChannels failed: %v", err)
	}
	want := []uint8{0, 2, 0, 0, 5, 0}
	for i, v := range out.Pix() {
		if v != want[i] {
			t.Errorf("pix[%d]: got %d, want %d", i, v, want[i])
		}
	}
	if m.At(0, 0, 0) != 1 {
		t.Error("ZeroChannels mutated its receiver")
	}
}

func TestZeroChannels_InvalidIndexLeavesNothingChanged(t *testing.T) {
	m, _ := FromSlice(1, 1, RGB, []uint8{7, 8, 9})
	if _, err := m.ZeroChannels(0, 5); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("got %v, want ErrShapeMismatch", err)
	}
	if m.At(0, 0, 0) != 7 {
		t.Error("receiver changed after failed ZeroChannels")
	}
}

func TestImage_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		pix      []uint8
	}{
		{"gray", Gray, []uint8{0, 64, 128, 255}},
		{"rgb", RGB, []uint8{0, 0, 0, 255, 255, 255, 128, 128, 128, 64, 64, 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromSlice(2, 2, tt.channels, tt.pix)
			if err != nil {
				t.Fatalf("FromSlice failed: %v", err)
			}
			back, err := FromImage(m.Image(), tt.channels)
			if err != nil {
				t.Fatalf("FromImage failed: %v", err)
			}
			if !back.Equal(m) {
				t.Errorf("round trip changed values: got %v, want %v", back.Pix(), m.Pix())
			}
		})
	}
}

func TestImage_Types(t *testing.T) {
	g, _ := New(1, 1, Gray)
	if _, ok := g.Image().(*image.Gray); !ok {
		t.Errorf("gray matrix Image(): got %T, want *image.Gray", g.Image())
	}
	c, _ := New(1, 1, RGB)
	if _, ok := c.Image().(*image.NRGBA); !ok {
		t.Errorf("rgb matrix Image(): got %T, want *image.NRGBA", c.Image())
	}
}
