package vinyl

import "image"

// HitTester resolves which shapes of a layout occupy a region by drawing
// every visible shape in its flat hit color into an offscreen buffer, then
// reading the colors back.
//
// The buffer is redrawn from the shapes' current placement on every
// query, so edits between queries never produce stale hits. A HitTester
// holds scratch buffers and is not safe for concurrent use.
type HitTester struct {
	layout *Layout

	raster maskRasterizer
	buf    *image.RGBA
	pts    []Vec2
	seen   map[uint32]bool
}

// NewHitTester creates a hit tester for l.
func NewHitTester(l *Layout) *HitTester {
	return &HitTester{layout: l, seen: make(map[uint32]bool)}
}

// Point returns the topmost visible shape at the canvas point (x, y), or nil.
func (h *HitTester) Point(x, y float64) *Shape {
	hits := h.Region(Rect{X: x, Y: y})
	if len(hits) == 0 {
		return nil
	}
	return hits[0]
}

// Region returns every visible shape with at least one pixel inside the
// canvas rectangle r, deduplicated, in the order their pixels are first met
// scanning the device-space buffer row by row.
//
// r is mapped through the layout's view. The device rectangle is
// standardized, its origin floored and its size made at least 1x1.
func (h *HitTester) Region(r Rect) []*Shape {
	l := h.layout
	view := l.View.Matrix()
	clip := clipRect(transformRect(view, r.Standardized()))
	h.render(view, clip)
	return h.scan()
}

// PaintAt sets the base color of the topmost shape at (x, y) and returns it,
// or nil when there is none.
func (h *HitTester) PaintAt(x, y float64, c Color) *Shape {
	s := h.Point(x, y)
	if s != nil {
		s.SetColor(c)
	}
	return s
}

// Buffer returns the hit buffer of the last query. Its bounds are the
// device-space clip rectangle. It is nil before the first query.
func (h *HitTester) Buffer() *image.RGBA { return h.buf }

// render clears the buffer to black and draws every shape that DrawLayout
// would draw and whose device bounds touch clip, back to front, in its hit
// color.
func (h *HitTester) render(view [6]float64, clip image.Rectangle) {
	if h.buf == nil || h.buf.Rect != clip {
		h.buf = image.NewRGBA(clip)
	}
	pix := h.buf.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0xff
	}

	clipArea := pixelRect(clip)
	shapes := h.layout.shapes
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		if !s.visible || !s.drawable {
			continue
		}
		if !transformRect(view, s.bounds).Intersects(clipArea) {
			continue
		}
		m := multiplyAffine(view, s.transform)
		h.pts = h.pts[:0]
		for _, v := range s.data.Vertices {
			x, y := transformPoint(m, v.X, v.Y)
			h.pts = append(h.pts, Vec2{x, y})
		}
		mask := h.raster.coverage(h.pts, s.data.Indices, clip)
		if mask == nil {
			continue
		}
		hc := s.hitColor
		w, ht := clip.Dx(), clip.Dy()
		for y := 0; y < ht; y++ {
			row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
			for x, cov := range row {
				if cov < coverageThreshold {
					continue
				}
				off := y*h.buf.Stride + x*4
				pix[off+0], pix[off+1], pix[off+2], pix[off+3] = hc.R, hc.G, hc.B, 0xff
			}
		}
	}
}

func (h *HitTester) scan() []*Shape {
	l := h.layout
	clear(h.seen)
	var hits []*Shape
	pix := h.buf.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		c := Color{R: pix[i], G: pix[i+1], B: pix[i+2], A: 0xff}
		if c.SameRGB(ColorBlack) || c.SameRGB(l.background) {
			continue
		}
		key := c.rgbKey()
		if h.seen[key] {
			continue
		}
		s := l.hitColors[key]
		if s == nil || !s.visible || !s.drawable {
			continue
		}
		h.seen[key] = true
		hits = append(hits, s)
	}
	return hits
}
