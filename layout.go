package vinyl

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"
)

// Default layout settings.
const (
	DefaultName = "Untitled"

	// handleRadius is the on-screen radius of a selection handle in pixels.
	handleRadius = 10

	// scaleDragDivisor converts a handle drag distance into a scale step.
	scaleDragDivisor = 128
)

// Layout is a vinyl group: an ordered list of shapes, index 0 topmost, plus
// the view and background it is edited with.
//
// The layout tracks at most one current selection, which is always one of
// its shapes. Any number of shapes may have their selected flag set.
//
// A Layout is not safe for concurrent use.
type Layout struct {
	Name string
	View *View

	background Color
	shapes     []*Shape
	current    *Shape
	hitColors  map[uint32]*Shape

	rand *rand.Rand
	log  *zap.Logger
}

// NewLayout creates an empty layout named DefaultName with the default
// background and a view whose origin is at (0, 0) on screen.
func NewLayout(opts ...Option) *Layout {
	o := newOptions(opts)
	return &Layout{
		Name:       DefaultName,
		View:       &View{Zoom: 1},
		background: o.background,
		hitColors:  make(map[uint32]*Shape),
		rand:       o.rand,
		log:        o.logger,
	}
}

// Background returns the canvas color.
func (l *Layout) Background() Color { return l.background }

// SetBackground changes the canvas color. Shapes whose hit color matches the
// new background get a fresh one.
func (l *Layout) SetBackground(c Color) {
	l.background = c
	for _, s := range l.shapes {
		if s.hitColor.SameRGB(c) {
			delete(l.hitColors, s.hitColor.rgbKey())
			l.assignHitColor(s)
		}
	}
}

// Len returns the number of shapes.
func (l *Layout) Len() int { return len(l.shapes) }

// At returns the shape at index i (0 is topmost).
func (l *Layout) At(i int) *Shape { return l.shapes[i] }

// Shapes returns the shapes in z-order, topmost first. The slice is owned by
// the layout and must not be modified.
func (l *Layout) Shapes() []*Shape { return l.shapes }

// Index returns the position of s, or -1 if s is not in the layout.
func (l *Layout) Index(s *Shape) int {
	return slices.Index(l.shapes, s)
}

// ShapeByHitColor returns the shape whose hit color has the RGB of c.
func (l *Layout) ShapeByHitColor(c Color) *Shape {
	return l.hitColors[c.rgbKey()]
}

// Insert places s at index i, shifting shapes at i and below down by one.
// s gets a hit color unique within the layout if it has none or its current
// one is taken. It panics if s is nil, already in the layout, or i is out of
// range.
func (l *Layout) Insert(i int, s *Shape) {
	if s == nil {
		panic("vinyl: Insert called with nil shape")
	}
	if i < 0 || i > len(l.shapes) {
		panic(fmt.Sprintf("vinyl: Insert index %d out of range [0, %d]", i, len(l.shapes)))
	}
	if l.Index(s) >= 0 {
		panic("vinyl: shape is already in the layout")
	}
	if s.hitColor.A == 0 || s.hitColor.SameRGB(ColorBlack) || s.hitColor.SameRGB(l.background) || l.hitColors[s.hitColor.rgbKey()] != nil {
		l.assignHitColor(s)
	} else {
		l.hitColors[s.hitColor.rgbKey()] = s
	}
	l.shapes = slices.Insert(l.shapes, i, s)
}

func (l *Layout) assignHitColor(s *Shape) {
	s.hitColor = newHitColor(l.rand, l.background, func(key uint32) bool {
		return l.hitColors[key] != nil
	})
	l.hitColors[s.hitColor.rgbKey()] = s
}

// AddShape inserts s directly above the current selection, or at the top if
// nothing is selected, and makes it the only selected shape.
func (l *Layout) AddShape(s *Shape) {
	i := 0
	if l.current != nil {
		i = l.Index(l.current)
	}
	l.Insert(i, s)
	l.SelectOnly(s)
}

// PlaceShape creates a shape from data at (x, y) in color c and adds it with
// AddShape.
func (l *Layout) PlaceShape(data *RenderData, x, y float64, c Color) *Shape {
	s := NewShape(data)
	s.SetPosition(x, y)
	s.SetColor(c)
	l.AddShape(s)
	return s
}

// Remove takes s out of the layout and reports whether it was present.
func (l *Layout) Remove(s *Shape) bool {
	i := l.Index(s)
	if i < 0 {
		return false
	}
	l.removeAt(i)
	if l.current == s {
		l.current = l.firstSelected()
	}
	return true
}

func (l *Layout) removeAt(i int) {
	s := l.shapes[i]
	if l.hitColors[s.hitColor.rgbKey()] == s {
		delete(l.hitColors, s.hitColor.rgbKey())
	}
	l.shapes = slices.Delete(l.shapes, i, i+1)
}

// Clear removes every shape.
func (l *Layout) Clear() {
	l.shapes = nil
	l.current = nil
	clear(l.hitColors)
}

// --- Selection ---

// Selected returns the current selection, or nil.
func (l *Layout) Selected() *Shape { return l.current }

func (l *Layout) firstSelected() *Shape {
	for _, s := range l.shapes {
		if s.selected {
			return s
		}
	}
	return nil
}

// SelectOnly deselects everything and selects s. A nil s clears the
// selection.
func (l *Layout) SelectOnly(s *Shape) {
	l.ClearSelection()
	if s == nil {
		return
	}
	s.SetSelected(true)
	l.current = s
}

// ToggleSelected flips the selected flag of s. A newly selected s becomes
// the current selection; deselecting the current selection moves it to the
// topmost remaining selected shape.
func (l *Layout) ToggleSelected(s *Shape) {
	s.SetSelected(!s.selected)
	switch {
	case s.selected:
		l.current = s
	case l.current == s:
		l.current = l.firstSelected()
	}
}

// ClearSelection deselects every shape.
func (l *Layout) ClearSelection() {
	for _, s := range l.shapes {
		if s.selected {
			s.SetSelected(false)
		}
	}
	l.current = nil
}

// SelectShapes adds shapes to the selection. The first becomes the current
// selection. An empty list changes nothing.
func (l *Layout) SelectShapes(shapes []*Shape) {
	if len(shapes) == 0 {
		return
	}
	for _, s := range shapes {
		s.SetSelected(true)
	}
	l.current = shapes[0]
}

// SelectedShapes returns the selected shapes in z-order, topmost first.
func (l *Layout) SelectedShapes() []*Shape {
	var out []*Shape
	for _, s := range l.shapes {
		if s.selected {
			out = append(out, s)
		}
	}
	return out
}

// SelectionBounds returns the union of the selected shapes' bounding boxes.
// ok is false when nothing is selected.
func (l *Layout) SelectionBounds() (r Rect, ok bool) {
	for _, s := range l.shapes {
		if !s.selected {
			continue
		}
		if !ok {
			r, ok = s.bounds, true
			continue
		}
		r = r.Union(s.bounds)
	}
	return r, ok
}

// TransformHandles returns the corners of SelectionBounds in the order
// top-left, top-right, bottom-right, bottom-left.
func (l *Layout) TransformHandles() ([4]Vec2, bool) {
	r, ok := l.SelectionBounds()
	if !ok {
		return [4]Vec2{}, false
	}
	return [4]Vec2{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}, true
}

// HandleRadius returns the radius of a transform handle in canvas units, so
// handles keep a constant size on screen.
func (l *Layout) HandleRadius() float64 {
	return handleRadius / l.View.Zoom
}

// HandleAt returns the index into TransformHandles of the handle within
// HandleRadius of the canvas point (x, y), or -1.
func (l *Layout) HandleAt(x, y float64) int {
	handles, ok := l.TransformHandles()
	if !ok {
		return -1
	}
	r := l.HandleRadius()
	for i, h := range handles {
		dx, dy := h.X-x, h.Y-y
		if dx*dx+dy*dy <= r*r {
			return i
		}
	}
	return -1
}

// MoveSelected translates every selected shape.
func (l *Layout) MoveSelected(dx, dy float64) {
	for _, s := range l.shapes {
		if s.selected {
			s.Move(dx, dy)
		}
	}
}

// ScaleSelected grows (positive delta) or shrinks every selected shape.
// delta is a drag distance in canvas units; each scale factor moves away
// from zero by delta/128, so mirrored shapes stay mirrored.
func (l *Layout) ScaleSelected(delta float64) {
	f := delta / scaleDragDivisor
	for _, s := range l.shapes {
		if !s.selected {
			continue
		}
		sx, sy := s.Scale()
		if sx < 0 {
			sx -= f
		} else {
			sx += f
		}
		if sy < 0 {
			sy -= f
		} else {
			sy += f
		}
		s.SetScale(sx, sy)
	}
}

// RotateSelected adds deg to the angle of every selected shape.
func (l *Layout) RotateSelected(deg float64) {
	for _, s := range l.shapes {
		if s.selected {
			s.SetAngle(s.angle + deg)
		}
	}
}

// DeleteSelected removes every selected shape, clears the current selection
// and returns the number removed.
func (l *Layout) DeleteSelected() int {
	n := 0
	for i := len(l.shapes) - 1; i >= 0; i-- {
		if l.shapes[i].selected {
			l.removeAt(i)
			n++
		}
	}
	l.current = nil
	return n
}

// MoveUp swaps the current selection with the shape above it and reports
// whether anything moved.
func (l *Layout) MoveUp() bool {
	i := l.Index(l.current)
	if i < 1 {
		return false
	}
	l.shapes[i-1], l.shapes[i] = l.shapes[i], l.shapes[i-1]
	return true
}

// MoveDown swaps the current selection with the shape below it and reports
// whether anything moved.
func (l *Layout) MoveDown() bool {
	i := l.Index(l.current)
	if i < 0 || i >= len(l.shapes)-1 {
		return false
	}
	l.shapes[i+1], l.shapes[i] = l.shapes[i], l.shapes[i+1]
	return true
}

// InvalidatePreviews drops every shape's cached preview.
func (l *Layout) InvalidatePreviews() {
	for _, s := range l.shapes {
		s.InvalidatePreview()
	}
}
