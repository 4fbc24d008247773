package vinyl

import (
	"image"
	"math"
)

// Preview returns an image of the shape in its composited colors, with
// per-vertex alpha interpolated across each triangle. The image bounds are
// the shape's bounding box in canvas coordinates, rounded outward, so it can
// be drawn at its Bounds().Min directly.
//
// The image is rendered on first use after a geometry or color change and
// cached until the next one. It is owned by the shape.
func (s *Shape) Preview() *image.NRGBA {
	if s.preview != nil && !s.previewDirty {
		return s.preview
	}
	s.preview = renderPreview(s.mapped, s.data.Indices, s.colors, s.color)
	s.previewDirty = false
	return s.preview
}

// InvalidatePreview drops the cached preview.
func (s *Shape) InvalidatePreview() {
	s.previewDirty = true
}

func renderPreview(pts []Vec2, indices []uint16, colors []Color, base Color) *image.NRGBA {
	clip := clipRect(computeAABB(pts))
	img := image.NewNRGBA(clip)

	var r maskRasterizer
	mask := r.coverage(pts, indices, clip)
	if mask == nil {
		return img
	}

	w, h := clip.Dx(), clip.Dy()
	alpha := gouraudAlpha(pts, indices, colors, clip)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cov := mask.Pix[y*mask.Stride+x]
			if cov == 0 {
				continue
			}
			a := float64(cov) / 255 * alpha[y*w+x]
			if a <= 0 {
				continue
			}
			off := img.PixOffset(clip.Min.X+x, clip.Min.Y+y)
			img.Pix[off+0] = base.R
			img.Pix[off+1] = base.G
			img.Pix[off+2] = base.B
			img.Pix[off+3] = uint8(math.Round(a))
		}
	}
	return img
}

// gouraudAlpha interpolates vertex alpha at every pixel center of clip. A
// pixel takes its value from the triangle it lies deepest inside, which
// also gives anti-aliased edge pixels just outside every triangle the value
// of the nearest one.
func gouraudAlpha(pts []Vec2, indices []uint16, colors []Color, clip image.Rectangle) []float64 {
	w, h := clip.Dx(), clip.Dy()
	alpha := make([]float64, w*h)
	depth := make([]float64, w*h)
	for i := range depth {
		depth[i] = math.Inf(-1)
	}

	n := len(pts)
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= n || i1 >= n || i2 >= n || i0 >= len(colors) || i1 >= len(colors) || i2 >= len(colors) {
			continue
		}
		p0, p1, p2 := pts[i0], pts[i1], pts[i2]
		area := (p1.X-p0.X)*(p2.Y-p0.Y) - (p2.X-p0.X)*(p1.Y-p0.Y)
		if area == 0 || math.IsNaN(area) {
			continue
		}
		a0, a1, a2 := float64(colors[i0].A), float64(colors[i1].A), float64(colors[i2].A)

		// Pixel range of the triangle, one pixel wider for edge coverage.
		tb := computeAABB([]Vec2{p0, p1, p2})
		x0 := max(int(math.Floor(tb.X))-1-clip.Min.X, 0)
		y0 := max(int(math.Floor(tb.Y))-1-clip.Min.Y, 0)
		x1 := min(int(math.Ceil(tb.Right()))+1-clip.Min.X, w)
		y1 := min(int(math.Ceil(tb.Bottom()))+1-clip.Min.Y, h)

		for y := y0; y < y1; y++ {
			cy := float64(clip.Min.Y+y) + 0.5
			for x := x0; x < x1; x++ {
				cx := float64(clip.Min.X+x) + 0.5
				l1 := ((p1.X-cx)*(p2.Y-cy) - (p2.X-cx)*(p1.Y-cy)) / area
				l2 := ((p2.X-cx)*(p0.Y-cy) - (p0.X-cx)*(p2.Y-cy)) / area
				l3 := 1 - l1 - l2
				d := math.Min(l1, math.Min(l2, l3))
				k := y*w + x
				if d <= depth[k] {
					continue
				}
				depth[k] = d
				l1, l2, l3 = clamp(l1, 0, 1), clamp(l2, 0, 1), clamp(l3, 0, 1)
				if sum := l1 + l2 + l3; sum > 0 {
					alpha[k] = (l1*a0 + l2*a1 + l3*a2) / sum
				}
			}
		}
	}
	return alpha
}
