package vinyl

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits applied by ZoomAt and ScrollTo.
const (
	MinZoom = 1.0 / 64
	MaxZoom = 64
)

// viewAnim holds active tweens for an animated view move.
type viewAnim struct {
	tweenX, tweenY, tweenZoom *gween.Tween
	doneX, doneY, doneZoom    bool
}

// View maps canvas (world) coordinates to device pixels:
//
//	screen = world*Zoom + (OffsetX, OffsetY)
//
// The editor only pans and zooms, so the view has no rotation.
type View struct {
	// OffsetX and OffsetY are the screen position of the world origin.
	OffsetX, OffsetY float64
	// Zoom is the scale factor (1.0 = one pixel per canvas unit).
	Zoom float64
	// Viewport is the screen-space rectangle the canvas is shown in.
	Viewport Rect

	anim *viewAnim
}

// NewView creates a view of the given viewport with the world origin at its
// center.
func NewView(viewport Rect) *View {
	c := viewport.Center()
	return &View{OffsetX: c.X, OffsetY: c.Y, Zoom: 1, Viewport: viewport}
}

// Matrix returns the view as an affine matrix [a, b, c, d, tx, ty].
func (v *View) Matrix() [6]float64 {
	return [6]float64{v.Zoom, 0, 0, v.Zoom, v.OffsetX, v.OffsetY}
}

// WorldToScreen converts canvas coordinates to screen coordinates.
func (v *View) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(v.Matrix(), wx, wy)
}

// ScreenToWorld converts screen coordinates to canvas coordinates.
func (v *View) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return transformPoint(invertAffine(v.Matrix()), sx, sy)
}

// WorldRectToScreen maps a canvas rectangle to screen space, standardized.
func (v *View) WorldRectToScreen(r Rect) Rect {
	return transformRect(v.Matrix(), r.Standardized())
}

// VisibleBounds returns the canvas-space rectangle shown in the viewport.
func (v *View) VisibleBounds() Rect {
	return transformRect(invertAffine(v.Matrix()), v.Viewport)
}

// Pan moves the canvas by (dx, dy) screen pixels.
func (v *View) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomAt multiplies the zoom by scale, keeping the screen point (sx, sy)
// fixed. The result is clamped to [MinZoom, MaxZoom].
func (v *View) ZoomAt(scale, sx, sy float64) {
	z := clamp(v.Zoom*scale, MinZoom, MaxZoom)
	if v.Zoom == 0 || z == v.Zoom {
		return
	}
	s := z / v.Zoom
	v.OffsetX = s*(v.OffsetX-sx) + sx
	v.OffsetY = s*(v.OffsetY-sy) + sy
	v.Zoom = z
}

// ScrollTo animates the view so the canvas point (wx, wy) ends up at the
// viewport center at the given zoom. A zero duration jumps immediately.
// Any animation in progress is replaced.
func (v *View) ScrollTo(wx, wy, zoom float64, duration float32, easeFn ease.TweenFunc) {
	zoom = clamp(zoom, MinZoom, MaxZoom)
	c := v.Viewport.Center()
	ox := c.X - wx*zoom
	oy := c.Y - wy*zoom
	if duration <= 0 {
		v.OffsetX, v.OffsetY, v.Zoom = ox, oy, zoom
		v.anim = nil
		return
	}
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	v.anim = &viewAnim{
		tweenX:    gween.New(float32(v.OffsetX), float32(ox), duration, easeFn),
		tweenY:    gween.New(float32(v.OffsetY), float32(oy), duration, easeFn),
		tweenZoom: gween.New(float32(v.Zoom), float32(zoom), duration, easeFn),
	}
}

// FocusOn animates the view to fit r in the viewport with a margin.
func (v *View) FocusOn(r Rect, duration float32, easeFn ease.TweenFunc) {
	r = r.Standardized()
	zoom := v.Zoom
	if r.Width > 0 && r.Height > 0 && v.Viewport.Width > 0 && v.Viewport.Height > 0 {
		zoom = 0.8 * math.Min(v.Viewport.Width/r.Width, v.Viewport.Height/r.Height)
	}
	c := r.Center()
	v.ScrollTo(c.X, c.Y, zoom, duration, easeFn)
}

// Animating reports whether a ScrollTo animation is in progress.
func (v *View) Animating() bool {
	return v.anim != nil
}

// Update advances an animation in progress by dt seconds.
func (v *View) Update(dt float32) {
	a := v.anim
	if a == nil {
		return
	}
	if !a.doneX {
		val, done := a.tweenX.Update(dt)
		v.OffsetX = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(dt)
		v.OffsetY = float64(val)
		a.doneY = done
	}
	if !a.doneZoom {
		val, done := a.tweenZoom.Update(dt)
		v.Zoom = float64(val)
		a.doneZoom = done
	}
	if a.doneX && a.doneY && a.doneZoom {
		v.anim = nil
	}
}
