package vinyl

import (
	"fmt"
	"image"
)

// Shape is one placed instance of a RenderData on a Layout.
//
// Placement parameters are written through setters. Every setter recomputes
// the state derived from it before returning, so MappedVertices, Bounds and
// Colors are always consistent with the parameters. The shared RenderData
// is never modified.
type Shape struct {
	data *RenderData

	x, y           float64
	scaleX, scaleY float64
	angle          float64 // degrees, clockwise on the canvas
	skew           float64 // raw shear factor

	color    Color
	visible  bool
	selected bool
	mask     bool

	hitColor Color

	// drawable is false when data fails Validate; such shapes are kept but
	// never sent to the GPU.
	drawable bool

	// derived
	transform [6]float64
	mapped    []Vec2
	bounds    Rect
	colors    []Color

	preview      *image.NRGBA
	previewDirty bool
}

// NewShape places data at the origin with unit scale, opaque white color and
// no rotation or skew. The shape has no hit color until it is inserted into
// a Layout.
func NewShape(data *RenderData) *Shape {
	if data == nil {
		panic("vinyl: NewShape called with nil RenderData")
	}
	s := &Shape{
		data:    data,
		scaleX:  1,
		scaleY:  1,
		color:   ColorWhite,
		visible: true,
		mapped:  make([]Vec2, len(data.Vertices)),
		colors:  make([]Color, len(data.Vertices)),

		drawable: data.Validate() == nil,
	}
	s.InvalidateMappedVertices()
	s.InvalidateMappedColors()
	return s
}

// Data returns the shared base geometry.
func (s *Shape) Data() *RenderData { return s.data }

// ID returns the identity of the shape's geometry.
func (s *Shape) ID() Identity { return s.data.ID }

// Position returns the translation.
func (s *Shape) Position() (x, y float64) { return s.x, s.y }

// Scale returns the scale factors.
func (s *Shape) Scale() (sx, sy float64) { return s.scaleX, s.scaleY }

// Angle returns the rotation in degrees.
func (s *Shape) Angle() float64 { return s.angle }

// Skew returns the horizontal shear factor.
func (s *Shape) Skew() float64 { return s.skew }

// Color returns the base color.
func (s *Shape) Color() Color { return s.color }

// Visible reports whether the shape is drawn and hit-testable.
func (s *Shape) Visible() bool { return s.visible }

// Selected reports whether the shape is part of the selection.
func (s *Shape) Selected() bool { return s.selected }

// Mask reports whether the shape is a mask layer in the game.
func (s *Shape) Mask() bool { return s.mask }

// HitColor returns the synthetic color used to identify the shape in the
// hit buffer. It is the zero Color before the shape joins a Layout.
func (s *Shape) HitColor() Color { return s.hitColor }

// Transform returns the composite affine matrix [a, b, c, d, tx, ty].
func (s *Shape) Transform() [6]float64 { return s.transform }

// MappedVertices returns the base vertices mapped through Transform. The
// slice is owned by the shape and overwritten by the next geometry change.
func (s *Shape) MappedVertices() []Vec2 { return s.mapped }

// Bounds returns the axis-aligned bounding box of the mapped vertices.
func (s *Shape) Bounds() Rect { return s.bounds }

// Colors returns the per-vertex composited colors: base RGB with alpha
// min(vertex alpha, base alpha). The slice is owned by the shape.
func (s *Shape) Colors() []Color { return s.colors }

func (s *Shape) String() string {
	return fmt.Sprintf("%v at %.2f,%.2f scale %.2f,%.2f angle %.1f skew %.2f",
		s.data.ID, s.x, s.y, s.scaleX, s.scaleY, s.angle, s.skew)
}

// --- Placement setters ---

// SetPosition sets the translation.
func (s *Shape) SetPosition(x, y float64) {
	s.x, s.y = x, y
	s.InvalidateMappedVertices()
}

// Move translates the shape by (dx, dy).
func (s *Shape) Move(dx, dy float64) {
	s.SetPosition(s.x+dx, s.y+dy)
}

// SetScale sets the scale factors. Negative values mirror the shape.
func (s *Shape) SetScale(sx, sy float64) {
	s.scaleX, s.scaleY = sx, sy
	s.InvalidateMappedVertices()
}

// SetAngle sets the rotation in degrees.
func (s *Shape) SetAngle(deg float64) {
	s.angle = deg
	s.InvalidateMappedVertices()
}

// SetSkew sets the horizontal shear factor.
func (s *Shape) SetSkew(k float64) {
	s.skew = k
	s.InvalidateMappedVertices()
}

// SetPlacement sets every placement parameter at once.
func (s *Shape) SetPlacement(x, y, sx, sy, deg, skew float64) {
	s.x, s.y = x, y
	s.scaleX, s.scaleY = sx, sy
	s.angle = deg
	s.skew = skew
	s.InvalidateMappedVertices()
}

// SetColor sets the base color.
func (s *Shape) SetColor(c Color) {
	s.color = c
	s.InvalidateMappedColors()
}

// SetVisible shows or hides the shape.
func (s *Shape) SetVisible(v bool) {
	s.visible = v
}

// SetSelected sets the selection flag. Use the Layout selection methods to
// keep the layout's current selection in step.
func (s *Shape) SetSelected(v bool) {
	s.selected = v
	s.InvalidateMappedColors()
}

// SetMask sets the mask flag.
func (s *Shape) SetMask(v bool) {
	s.mask = v
}

// --- Derived state ---

// InvalidateMappedVertices recomputes the matrix, mapped vertices and bounds
// from the placement parameters and drops the preview.
func (s *Shape) InvalidateMappedVertices() {
	s.transform = computeShapeTransform(s.x, s.y, s.scaleX, s.scaleY, s.angle, s.skew)
	for i, v := range s.data.Vertices {
		x, y := transformPoint(s.transform, v.X, v.Y)
		s.mapped[i] = Vec2{x, y}
	}
	s.bounds = computeAABB(s.mapped)
	s.previewDirty = true
}

// InvalidateMappedColors recomputes the per-vertex composited colors from
// the base color and drops the preview.
func (s *Shape) InvalidateMappedColors() {
	for i := range s.colors {
		a := s.color.A
		if i < len(s.data.Alpha) && s.data.Alpha[i] < a {
			a = s.data.Alpha[i]
		}
		s.colors[i] = s.color.WithAlpha(a)
	}
	s.previewDirty = true
}

// ContainsPoint reports whether (x, y) lies inside one of the shape's mapped
// triangles. Edges count as inside.
func (s *Shape) ContainsPoint(x, y float64) bool {
	if !s.bounds.Contains(x, y) {
		return false
	}
	idx := s.data.Indices
	n := len(s.mapped)
	for i := 0; i+2 < len(idx); i += 3 {
		i0, i1, i2 := int(idx[i]), int(idx[i+1]), int(idx[i+2])
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		if pointInTriangle(Vec2{x, y}, s.mapped[i0], s.mapped[i1], s.mapped[i2]) {
			return true
		}
	}
	return false
}

func pointInTriangle(p, a, b, c Vec2) bool {
	d1 := edgeSign(p, a, b)
	d2 := edgeSign(p, b, c)
	d3 := edgeSign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edgeSign(p, a, b Vec2) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}
