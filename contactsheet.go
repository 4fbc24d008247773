package vinyl

// Contact sheet layout, in canvas units.
const (
	sheetGap      = 20
	sheetRowPitch = 255
)

// ContactSheet adds one shape per entry of datas to l, laid out left to
// right in rows of SheetSize, each in its own hue. Later entries end up on
// top. It returns the shapes added, in datas order.
func ContactSheet(l *Layout, datas []*RenderData) []*Shape {
	shapes := make([]*Shape, 0, len(datas))
	var x, y float64
	for i, d := range datas {
		if i > 0 && i%SheetSize == 0 {
			x = 0
			y += sheetRowPitch
		}
		s := NewShape(d)
		b := s.Bounds()
		s.SetPosition(x-b.X, y)
		s.SetColor(ColorFromHSV(float64(i)/float64(len(datas))*360, 100, 100))
		l.Insert(0, s)
		shapes = append(shapes, s)
		x += b.Width + sheetGap
	}
	return shapes
}
