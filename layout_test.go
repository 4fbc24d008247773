package vinyl

import (
	"math/rand/v2"
	"testing"
)

func seededLayout() *Layout {
	return NewLayout(WithRand(rand.New(rand.NewPCG(1, 2))))
}

// unitShape returns a w x h square at (x, y).
func unitShape(x, y, w, h float64) *Shape {
	s := NewShape(squareData(Identity{CategoryPrimitives, 1}))
	s.SetScale(w, h)
	s.SetPosition(x, y)
	return s
}

func TestNewLayout(t *testing.T) {
	l := NewLayout()
	if l.Name != DefaultName || l.Len() != 0 || l.Selected() != nil {
		t.Errorf("unexpected new layout: %q len=%d", l.Name, l.Len())
	}
	if l.Background() != DefaultBackground {
		t.Errorf("Background = %v", l.Background())
	}
	if l.View.Zoom != 1 {
		t.Errorf("Zoom = %v", l.View.Zoom)
	}

	bg := Color{1, 2, 3, 255}
	if got := NewLayout(WithBackground(bg)).Background(); got != bg {
		t.Errorf("WithBackground: %v", got)
	}
}

func TestLayoutInsertOrder(t *testing.T) {
	l := seededLayout()
	a, b, c := unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1)
	l.Insert(0, a)
	l.Insert(0, b)
	l.Insert(1, c)
	want := []*Shape{b, c, a}
	for i, s := range want {
		if l.At(i) != s {
			t.Errorf("At(%d) wrong shape", i)
		}
		if l.Index(s) != i {
			t.Errorf("Index = %d, want %d", l.Index(s), i)
		}
	}
	if l.Index(unitShape(0, 0, 1, 1)) != -1 {
		t.Error("Index of foreign shape")
	}
}

func TestLayoutInsertPanics(t *testing.T) {
	tests := []struct {
		name string
		f    func(l *Layout)
	}{
		{"nil", func(l *Layout) { l.Insert(0, nil) }},
		{"negative", func(l *Layout) { l.Insert(-1, unitShape(0, 0, 1, 1)) }},
		{"past end", func(l *Layout) { l.Insert(1, unitShape(0, 0, 1, 1)) }},
		{"twice", func(l *Layout) {
			s := unitShape(0, 0, 1, 1)
			l.Insert(0, s)
			l.Insert(0, s)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.f(seededLayout())
		})
	}
}

func TestLayoutHitColorsUnique(t *testing.T) {
	l := seededLayout()
	for range 500 {
		l.Insert(0, unitShape(0, 0, 1, 1))
	}
	seen := make(map[uint32]bool)
	for _, s := range l.Shapes() {
		hc := s.HitColor()
		if hc.A != 255 {
			t.Fatalf("hit color %v not opaque", hc)
		}
		if hc.SameRGB(ColorBlack) || hc.SameRGB(l.Background()) {
			t.Fatalf("hit color %v is reserved", hc)
		}
		if seen[hc.rgbKey()] {
			t.Fatalf("hit color %v used twice", hc)
		}
		seen[hc.rgbKey()] = true
		if l.ShapeByHitColor(hc) != s {
			t.Fatal("ShapeByHitColor does not find the shape")
		}
	}
}

func TestLayoutHitColorsReproducible(t *testing.T) {
	a, b := seededLayout(), seededLayout()
	for range 10 {
		a.Insert(0, unitShape(0, 0, 1, 1))
		b.Insert(0, unitShape(0, 0, 1, 1))
	}
	for i := range 10 {
		if a.At(i).HitColor() != b.At(i).HitColor() {
			t.Fatalf("shape %d: %v != %v", i, a.At(i).HitColor(), b.At(i).HitColor())
		}
	}
}

func TestLayoutInsertKeepsFreeHitColor(t *testing.T) {
	a := seededLayout()
	s := unitShape(0, 0, 1, 1)
	a.Insert(0, s)
	hc := s.HitColor()
	a.Remove(s)

	b := NewLayout(WithRand(rand.New(rand.NewPCG(7, 7))))
	b.Insert(0, s)
	if s.HitColor() != hc {
		t.Errorf("hit color changed to %v, want %v", s.HitColor(), hc)
	}
}

func TestLayoutInsertReassignsTakenHitColor(t *testing.T) {
	l := seededLayout()
	a := unitShape(0, 0, 1, 1)
	l.Insert(0, a)

	b := unitShape(0, 0, 1, 1)
	b.hitColor = a.HitColor()
	l.Insert(0, b)
	if b.HitColor().SameRGB(a.HitColor()) {
		t.Error("clashing hit color kept")
	}
	if l.ShapeByHitColor(a.HitColor()) != a {
		t.Error("original owner lost its hit color")
	}
}

func TestNewHitColorSkipsReserved(t *testing.T) {
	none := func(uint32) bool { return false }
	first := newHitColor(rand.New(rand.NewPCG(3, 4)), ColorBlack, none)

	// Same stream, but the first draw is now the background.
	got := newHitColor(rand.New(rand.NewPCG(3, 4)), first, none)
	if got.SameRGB(first) {
		t.Errorf("background %v returned as hit color", first)
	}

	// Same stream, but the first draw is taken.
	calls := 0
	got = newHitColor(rand.New(rand.NewPCG(3, 4)), ColorBlack, func(key uint32) bool {
		calls++
		return key == first.rgbKey()
	})
	if got.SameRGB(first) || calls < 2 {
		t.Errorf("taken color %v returned after %d checks", got, calls)
	}
}

func TestLayoutSetBackgroundReassigns(t *testing.T) {
	l := seededLayout()
	s := unitShape(0, 0, 1, 1)
	l.Insert(0, s)
	old := s.HitColor()

	l.SetBackground(old)
	if s.HitColor().SameRGB(old) {
		t.Error("hit color equal to the new background")
	}
	if l.ShapeByHitColor(old) != nil {
		t.Error("stale hit color entry")
	}
	if l.ShapeByHitColor(s.HitColor()) != s {
		t.Error("new hit color not registered")
	}
}

func TestLayoutAddShapeAboveSelection(t *testing.T) {
	l := seededLayout()
	a := unitShape(0, 0, 1, 1)
	l.AddShape(a)
	if l.Selected() != a || !a.Selected() {
		t.Fatal("added shape not selected")
	}

	b := unitShape(0, 0, 1, 1)
	l.Insert(l.Len(), b) // bottom
	l.SelectOnly(b)

	c := unitShape(0, 0, 1, 1)
	l.AddShape(c)
	if got := l.Index(c); got != 1 {
		t.Errorf("Index(c) = %d, want 1 (directly above b)", got)
	}
	if l.Selected() != c || b.Selected() || a.Selected() {
		t.Error("AddShape did not select only the new shape")
	}

	l.ClearSelection()
	d := l.PlaceShape(squareData(Identity{CategoryFlames, 2}), 4, 5, Color{9, 9, 9, 255})
	if l.Index(d) != 0 {
		t.Errorf("with no selection, Index = %d, want 0", l.Index(d))
	}
	if x, y := d.Position(); x != 4 || y != 5 || d.Color() != (Color{9, 9, 9, 255}) {
		t.Errorf("PlaceShape placement: %v,%v %v", x, y, d.Color())
	}
}

func TestLayoutSelection(t *testing.T) {
	l := seededLayout()
	a, b, c := unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1)
	l.Insert(0, c)
	l.Insert(0, b)
	l.Insert(0, a) // a, b, c top to bottom

	l.SelectOnly(b)
	l.ToggleSelected(c)
	if l.Selected() != c {
		t.Error("toggled-on shape is not current")
	}
	if got := l.SelectedShapes(); len(got) != 2 || got[0] != b || got[1] != c {
		t.Errorf("SelectedShapes = %v", got)
	}

	l.ToggleSelected(c)
	if l.Selected() != b || c.Selected() {
		t.Error("toggling off the current selection did not fall back to b")
	}

	l.SelectShapes([]*Shape{c, a})
	if l.Selected() != c || !a.Selected() || !b.Selected() {
		t.Error("SelectShapes is additive with the first as current")
	}
	l.SelectShapes(nil)
	if l.Selected() != c {
		t.Error("empty SelectShapes changed the current selection")
	}

	l.ClearSelection()
	if l.Selected() != nil || len(l.SelectedShapes()) != 0 {
		t.Error("ClearSelection left shapes selected")
	}
	l.SelectOnly(nil)
	if l.Selected() != nil {
		t.Error("SelectOnly(nil) selected something")
	}
}

func TestLayoutSelectedColorsRecomputed(t *testing.T) {
	l := seededLayout()
	s := unitShape(0, 0, 1, 1)
	l.Insert(0, s)
	s.SetColor(Color{10, 20, 30, 40})
	before := s.Colors()[0]
	l.SelectOnly(s)
	if s.Colors()[0] != before {
		t.Errorf("colors changed on select: %v -> %v", before, s.Colors()[0])
	}
}

func TestLayoutRemove(t *testing.T) {
	l := seededLayout()
	a, b := unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1)
	l.Insert(0, a)
	l.Insert(0, b)
	l.SelectOnly(a)
	l.ToggleSelected(b)
	l.SelectShapes([]*Shape{a})

	if !l.Remove(a) {
		t.Fatal("Remove returned false")
	}
	if l.Remove(a) {
		t.Error("second Remove returned true")
	}
	if l.Selected() != b {
		t.Error("current selection not moved to remaining selected shape")
	}
	if l.ShapeByHitColor(a.HitColor()) != nil {
		t.Error("removed shape still registered")
	}

	l.Clear()
	if l.Len() != 0 || l.Selected() != nil || l.ShapeByHitColor(b.HitColor()) != nil {
		t.Error("Clear left state behind")
	}
}

func TestLayoutDeleteSelected(t *testing.T) {
	l := seededLayout()
	shapes := make([]*Shape, 5)
	for i := range shapes {
		shapes[i] = unitShape(float64(i), 0, 1, 1)
		l.Insert(i, shapes[i])
	}
	l.SelectOnly(shapes[1])
	l.ToggleSelected(shapes[3])

	if n := l.DeleteSelected(); n != 2 {
		t.Errorf("DeleteSelected = %d, want 2", n)
	}
	if l.Selected() != nil {
		t.Error("current selection survived delete")
	}
	want := []*Shape{shapes[0], shapes[2], shapes[4]}
	if l.Len() != len(want) {
		t.Fatalf("Len = %d", l.Len())
	}
	for i, s := range want {
		if l.At(i) != s {
			t.Errorf("At(%d) wrong shape", i)
		}
	}
	if l.DeleteSelected() != 0 {
		t.Error("second delete removed shapes")
	}
}

func TestLayoutMoveUpDown(t *testing.T) {
	l := seededLayout()
	a, b, c := unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1)
	l.Insert(0, c)
	l.Insert(0, b)
	l.Insert(0, a)

	if l.MoveUp() {
		t.Error("MoveUp with no selection")
	}
	l.SelectOnly(b)
	if !l.MoveUp() || l.Index(b) != 0 || l.Index(a) != 1 {
		t.Error("MoveUp did not swap b above a")
	}
	if l.MoveUp() {
		t.Error("MoveUp past the top")
	}
	if !l.MoveDown() || !l.MoveDown() || l.Index(b) != 2 {
		t.Errorf("MoveDown twice: Index(b) = %d", l.Index(b))
	}
	if l.MoveDown() {
		t.Error("MoveDown past the bottom")
	}
}

func TestLayoutEditSelected(t *testing.T) {
	l := seededLayout()
	a, b := unitShape(0, 0, 1, 1), unitShape(0, 0, 1, 1)
	l.Insert(0, a)
	l.Insert(0, b)
	a.SetScale(2, -1)
	l.SelectOnly(a)

	l.MoveSelected(3, 4)
	if x, y := a.Position(); x != 3 || y != 4 {
		t.Errorf("moved to %v,%v", x, y)
	}
	if x, y := b.Position(); x != 0 || y != 0 {
		t.Error("unselected shape moved")
	}

	l.ScaleSelected(64)
	sx, sy := a.Scale()
	assertNear(t, "sx", sx, 2.5)
	assertNear(t, "sy", sy, -1.5)

	l.ScaleSelected(-128)
	sx, sy = a.Scale()
	assertNear(t, "sx shrink", sx, 1.5)
	assertNear(t, "sy shrink", sy, -0.5)

	l.RotateSelected(5)
	l.RotateSelected(5)
	assertNear(t, "angle", a.Angle(), 10)
	assertNear(t, "unselected angle", b.Angle(), 0)
}

func TestLayoutSelectionBoundsAndHandles(t *testing.T) {
	l := seededLayout()
	a, b := unitShape(0, 0, 10, 10), unitShape(20, 30, 10, 10)
	l.Insert(0, a)
	l.Insert(0, b)

	if _, ok := l.SelectionBounds(); ok {
		t.Error("bounds with empty selection")
	}
	if l.HandleAt(0, 0) != -1 {
		t.Error("handle with empty selection")
	}

	l.SelectShapes([]*Shape{a, b})
	r, ok := l.SelectionBounds()
	if !ok || r != (Rect{0, 0, 30, 40}) {
		t.Errorf("SelectionBounds = %+v, %v", r, ok)
	}
	handles, _ := l.TransformHandles()
	want := [4]Vec2{{0, 0}, {30, 0}, {30, 40}, {0, 40}}
	if handles != want {
		t.Errorf("TransformHandles = %v", handles)
	}

	assertNear(t, "radius", l.HandleRadius(), 10)
	if got := l.HandleAt(29, 39); got != 2 {
		t.Errorf("HandleAt(29, 39) = %d, want 2", got)
	}
	if got := l.HandleAt(15, 20); got != -1 {
		t.Errorf("HandleAt(15, 20) = %d, want -1", got)
	}

	l.View.Zoom = 4
	assertNear(t, "zoomed radius", l.HandleRadius(), 2.5)
	if got := l.HandleAt(27, 37); got != -1 {
		t.Errorf("zoomed HandleAt(27, 37) = %d, want -1", got)
	}
}

func TestLayoutInvalidatePreviews(t *testing.T) {
	l := seededLayout()
	a, b := unitShape(0, 0, 8, 8), unitShape(20, 0, 8, 8)
	l.Insert(0, a)
	l.Insert(0, b)
	pa, pb := a.Preview(), b.Preview()
	l.InvalidatePreviews()
	if a.Preview() == pa || b.Preview() == pb {
		t.Error("previews not rebuilt")
	}
}
