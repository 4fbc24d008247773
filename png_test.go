package vinyl

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-import", "after-import"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
		{"café", "caf_"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWritePreviewPNG(t *testing.T) {
	s := NewShape(squareData(Identity{CategoryPrimitives, 1}))
	s.SetScale(16, 8)
	s.SetColor(Color{0, 128, 255, 255})
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := WritePreviewPNG(path, s); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("bounds = %v", b)
	}
}

func TestWriteHitBufferPNG(t *testing.T) {
	l := seededLayout()
	l.Insert(0, unitShape(0, 0, 10, 10))
	h := NewHitTester(l)
	path := filepath.Join(t.TempDir(), "hit.png")

	if err := WriteHitBufferPNG(path, h); err == nil {
		t.Error("expected error before any query")
	}
	h.Region(Rect{0, 0, 20, 20})
	if err := WriteHitBufferPNG(path, h); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestStraightAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 5, 4))
	src.SetRGBA(2, 3, color.RGBA{128, 0, 128, 128})
	src.SetRGBA(3, 3, color.RGBA{10, 20, 30, 255})

	got := straightAlpha(src)
	if got.Rect != src.Rect {
		t.Fatalf("bounds = %v, want %v", got.Rect, src.Rect)
	}
	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{2, color.NRGBA{255, 0, 255, 128}},
		{3, color.NRGBA{10, 20, 30, 255}},
		{4, color.NRGBA{}},
	}
	for _, tt := range tests {
		if c := got.NRGBAAt(tt.x, 3); c != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, c, tt.want)
		}
	}
}
