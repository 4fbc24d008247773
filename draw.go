package vinyl

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// Canvas paints.
var (
	hoverColor     = withAlpha(colornames.Cornflowerblue, 200)
	selectionColor = withAlpha(colornames.Cornflowerblue, 128)
	outlineColor   = colornames.Black
	vertexColor    = withAlpha(colornames.Blue, 128)
	gridColor      = withAlpha(colornames.Gray, 128)
	axisColor      = withAlpha(colornames.Black, 128)
	debugBackdrop  = withAlpha(colornames.Black, 160)
)

const (
	gridStep       = 64
	vertexMarkSize = 3.0
	debugLineStep  = 16
)

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	// colornames values are opaque; scale to premultiplied.
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}

// DrawOptions controls what DrawLayout paints besides the shapes.
type DrawOptions struct {
	Settings

	// Grid draws canvas grid lines every 64 units.
	Grid bool
	// Hover is drawn in the highlight color instead of its own.
	Hover *Shape
	// Marquee is a selection rectangle being dragged, in canvas space.
	Marquee *Rect
	// Handles draws the selection bounds with its transform handles.
	Handles bool
	// Cursor is the pointer in canvas space; handles under it are filled.
	Cursor Vec2
	// Ghost is geometry drawn translucent at Cursor, as a placement preview.
	Ghost *RenderData
	// HitTester supplies the buffer shown by DrawHitTestSurface.
	HitTester *HitTester
	// DebugLines are appended to the DrawDebugStrings output.
	DebugLines []string
}

// Canvas draws layouts onto ebiten images. It keeps vertex scratch buffers
// between frames and is not safe for concurrent use.
type Canvas struct {
	verts []ebiten.Vertex
	white *ebiten.Image
}

// NewCanvas creates a Canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// DrawLayout draws l onto dst through the layout's view: background, shapes
// back to front, then the overlays selected in opts.
func (c *Canvas) DrawLayout(dst *ebiten.Image, l *Layout, opts DrawOptions) {
	dst.Fill(l.background)
	view := l.View.Matrix()

	for i := len(l.shapes) - 1; i >= 0; i-- {
		s := l.shapes[i]
		if !s.visible || !s.drawable {
			continue
		}
		if s == opts.Hover {
			c.drawShape(dst, view, s.mapped, s.data.Indices, nil, hoverColor)
		} else {
			c.drawShape(dst, view, s.mapped, s.data.Indices, s.colors, color.RGBA{})
		}
		if s.selected {
			c.drawSelected(dst, l.View, s, opts.DrawShapeVertices)
		}
	}

	if opts.Ghost != nil && opts.Ghost.Validate() == nil {
		pts := make([]Vec2, len(opts.Ghost.Vertices))
		for i, v := range opts.Ghost.Vertices {
			pts[i] = Vec2{v.X + opts.Cursor.X, v.Y + opts.Cursor.Y}
		}
		c.drawShape(dst, view, pts, opts.Ghost.Indices, nil, selectionColor)
	}

	if opts.Grid {
		drawGrid(dst, l.View)
	}

	if opts.Marquee != nil {
		r := l.View.WorldRectToScreen(*opts.Marquee)
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), selectionColor, false)
	}

	if opts.Handles {
		c.drawHandles(dst, l, opts.Cursor)
	}

	if opts.DrawHitTestSurface && opts.HitTester != nil {
		if buf := opts.HitTester.Buffer(); buf != nil {
			img := ebiten.NewImageFromImage(buf)
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(float64(buf.Rect.Min.X), float64(buf.Rect.Min.Y))
			op.ColorScale.ScaleAlpha(0.5)
			dst.DrawImage(img, &op)
			img.Deallocate()
		}
	}

	if opts.DrawDebugStrings {
		drawDebugStrings(dst, l, opts)
	}
}

// DrawLayout draws l with a throwaway Canvas.
func DrawLayout(dst *ebiten.Image, l *Layout, opts DrawOptions) {
	NewCanvas().DrawLayout(dst, l, opts)
}

// drawShape submits one triangle list. With colors nil every vertex gets
// flat, which is premultiplied; otherwise colors are the straight-alpha
// per-vertex colors.
func (c *Canvas) drawShape(dst *ebiten.Image, view [6]float64, pts []Vec2, indices []uint16, colors []Color, flat color.RGBA) {
	if len(pts) == 0 || len(indices) == 0 {
		return
	}
	if cap(c.verts) < len(pts) {
		c.verts = make([]ebiten.Vertex, len(pts))
	}
	verts := c.verts[:len(pts)]

	var fr, fg, fb, fa float32
	if colors == nil {
		fa = float32(flat.A) / 255
		if fa > 0 {
			fr = float32(flat.R) / 255 / fa
			fg = float32(flat.G) / 255 / fa
			fb = float32(flat.B) / 255 / fa
		}
	}
	for i, p := range pts {
		x, y := transformPoint(view, p.X, p.Y)
		v := ebiten.Vertex{DstX: float32(x), DstY: float32(y), SrcX: 0.5, SrcY: 0.5}
		if colors != nil {
			v.ColorR, v.ColorG, v.ColorB, v.ColorA = colors[i].floats()
		} else {
			v.ColorR, v.ColorG, v.ColorB, v.ColorA = fr, fg, fb, fa
		}
		verts[i] = v
	}

	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	op.AntiAlias = true
	dst.DrawTriangles(verts, indices, c.whitePixel(), &op)
}

// whitePixel returns a lazily created 1x1 white image used as the texture
// of untextured triangles.
func (c *Canvas) whitePixel() *ebiten.Image {
	if c.white == nil {
		c.white = ebiten.NewImage(1, 1)
		c.white.Fill(colornames.White)
	}
	return c.white
}

func (c *Canvas) drawSelected(dst *ebiten.Image, v *View, s *Shape, vertices bool) {
	if vertices {
		for _, p := range s.mapped {
			x, y := v.WorldToScreen(p.X, p.Y)
			vector.DrawFilledRect(dst, float32(x)-vertexMarkSize/2, float32(y)-vertexMarkSize/2,
				vertexMarkSize, vertexMarkSize, vertexColor, false)
		}
	}
	r := v.WorldRectToScreen(s.bounds)
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, outlineColor, false)

	// Origin marker, sized with the shape.
	cx, cy := v.WorldToScreen(s.x, s.y)
	radius := 5 * (math.Abs(s.scaleX) + math.Abs(s.scaleY)) * v.Zoom
	vector.StrokeCircle(dst, float32(cx), float32(cy), float32(radius), 1, outlineColor, true)
}

func (c *Canvas) drawHandles(dst *ebiten.Image, l *Layout, cursor Vec2) {
	bounds, ok := l.SelectionBounds()
	if !ok {
		return
	}
	r := l.View.WorldRectToScreen(bounds)
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, outlineColor, false)

	handles, _ := l.TransformHandles()
	hovered := l.HandleAt(cursor.X, cursor.Y)
	for i, h := range handles {
		x, y := l.View.WorldToScreen(h.X, h.Y)
		fill := colornames.White
		if i == hovered {
			fill = selectionColor
		}
		vector.DrawFilledCircle(dst, float32(x), float32(y), handleRadius, fill, true)
		vector.StrokeCircle(dst, float32(x), float32(y), handleRadius, 1, outlineColor, true)
	}
}

func drawGrid(dst *ebiten.Image, v *View) {
	if v.Zoom <= 0 {
		return
	}
	b := dst.Bounds()
	wb := transformRect(invertAffine(v.Matrix()), Rect{
		X: float64(b.Min.X), Y: float64(b.Min.Y),
		Width: float64(b.Dx()), Height: float64(b.Dy()),
	})
	step := float64(gridStep)
	// Skip grid levels that would be denser than 4 px on screen.
	for step*v.Zoom < 4 {
		step *= 2
	}
	for x := math.Floor(wb.X/step) * step; x <= wb.Right(); x += step {
		sx, _ := v.WorldToScreen(x, 0)
		clr := gridColor
		if x == 0 {
			clr = axisColor
		}
		vector.StrokeLine(dst, float32(sx), float32(b.Min.Y), float32(sx), float32(b.Max.Y), 1, clr, false)
	}
	for y := math.Floor(wb.Y/step) * step; y <= wb.Bottom(); y += step {
		_, sy := v.WorldToScreen(0, y)
		clr := gridColor
		if y == 0 {
			clr = axisColor
		}
		vector.StrokeLine(dst, float32(b.Min.X), float32(sy), float32(b.Max.X), float32(sy), 1, clr, false)
	}
}

func drawDebugStrings(dst *ebiten.Image, l *Layout, opts DrawOptions) {
	lines := []string{
		fmt.Sprintf("fps: %.1f  tps: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("view: %v", l.View.Matrix()),
		fmt.Sprintf("cursor: %.2f,%.2f", opts.Cursor.X, opts.Cursor.Y),
		fmt.Sprintf("shapes: %d  selected: %d", l.Len(), len(l.SelectedShapes())),
	}
	if opts.Marquee != nil {
		lines = append(lines, fmt.Sprintf("marquee: %+v", *opts.Marquee))
	}
	if s := opts.Hover; s != nil {
		lines = append(lines, "hover", s.data.String(), s.String(),
			fmt.Sprintf("matrix: %+v", DecomposeTransform(s.transform)))
	}
	lines = append(lines, opts.DebugLines...)

	vector.DrawFilledRect(dst, 0, 0, 420, float32(len(lines)*debugLineStep+4), debugBackdrop, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(dst, line, 4, 2+i*debugLineStep)
	}
}
