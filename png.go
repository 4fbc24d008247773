package vinyl

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
)

// SaveScreenshot reads back the rendered canvas and writes it to dir as
// <label>-<timestamp>.png. It returns the path written. It must be called
// from ebiten's Draw, after drawing.
func SaveScreenshot(screen *ebiten.Image, dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("vinyl: screenshot: %w", err)
	}
	b := screen.Bounds()
	canvas := &image.RGBA{
		Pix:    make([]byte, 4*b.Dx()*b.Dy()),
		Stride: 4 * b.Dx(),
		Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
	}
	screen.ReadPixels(canvas.Pix)

	name := sanitizeLabel(label) + "-" + time.Now().Format("20060102-150405") + ".png"
	path := filepath.Join(dir, name)
	if err := writePNG(path, straightAlpha(canvas)); err != nil {
		return "", fmt.Errorf("vinyl: screenshot: %w", err)
	}
	return path, nil
}

// WritePreviewPNG writes the preview of s to path.
func WritePreviewPNG(path string, s *Shape) error {
	return writePNG(path, s.Preview())
}

// WriteHitBufferPNG writes the buffer of the last hit test to path.
func WriteHitBufferPNG(path string, h *HitTester) error {
	buf := h.Buffer()
	if buf == nil {
		return fmt.Errorf("vinyl: no hit test has run")
	}
	return writePNG(path, straightAlpha(buf))
}

// straightAlpha converts premultiplied pixels, as ebiten and the hit buffer
// hold them, to the straight alpha PNG stores.
func straightAlpha(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, dst.Rect, src, src.Rect.Min, draw.Src)
	return dst
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', and turns every
// other rune into '_'. An empty label becomes "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, label)
}
