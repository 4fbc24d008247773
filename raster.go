package vinyl

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// coverageThreshold is the minimum mask coverage (of 255) at which a pixel
// counts as inside a shape for hit testing.
const coverageThreshold = 128

// maskRasterizer rasterizes triangle lists into coverage masks on the CPU.
// The rasterizer and mask are reused across calls; the returned mask is only
// valid until the next call.
type maskRasterizer struct {
	z    vector.Rasterizer
	mask *image.Alpha
}

// coverage rasterizes the triangles of pts/indices that fall inside clip
// and returns a mask the size of clip, where mask (0, 0) is clip.Min.
//
// Every triangle is added with the same winding so overlapping triangles of
// one shape accumulate rather than cancel. Degenerate triangles and indices
// out of range are skipped.
func (r *maskRasterizer) coverage(pts []Vec2, indices []uint16, clip image.Rectangle) *image.Alpha {
	w, h := clip.Dx(), clip.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	r.z.Reset(w, h)
	r.z.DrawOp = draw.Src

	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	n := len(pts)
	added := false
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		p0, p1, p2 := pts[i0], pts[i1], pts[i2]
		area := (p1.X-p0.X)*(p2.Y-p0.Y) - (p2.X-p0.X)*(p1.Y-p0.Y)
		if area == 0 || math.IsNaN(area) {
			continue
		}
		if area < 0 {
			p1, p2 = p2, p1
		}
		r.z.MoveTo(float32(p0.X-ox), float32(p0.Y-oy))
		r.z.LineTo(float32(p1.X-ox), float32(p1.Y-oy))
		r.z.LineTo(float32(p2.X-ox), float32(p2.Y-oy))
		r.z.ClosePath()
		added = true
	}

	if r.mask == nil || r.mask.Rect.Dx() != w || r.mask.Rect.Dy() != h {
		r.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	} else {
		clear(r.mask.Pix)
	}
	if added {
		r.z.Draw(r.mask, r.mask.Bounds(), image.Opaque, image.Point{})
	}
	return r.mask
}

// clipRect converts a device-space rectangle into the pixel rectangle that
// covers it: origin floored, size rounded up and at least 1x1.
func clipRect(r Rect) image.Rectangle {
	r = r.Standardized()
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	x1 := int(math.Ceil(r.Right()))
	y1 := int(math.Ceil(r.Bottom()))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1)
}

// pixelRect converts a pixel rectangle back into a Rect.
func pixelRect(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), Width: float64(r.Dx()), Height: float64(r.Dy())}
}
