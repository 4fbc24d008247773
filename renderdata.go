package vinyl

import "fmt"

// RenderData is the base geometry of one shape asset: vertex positions, a
// triangle list indexing into them, and one alpha byte per vertex.
//
// A RenderData is shared by every Shape placed from the same asset. It is
// never mutated after it has been constructed; the slices MUST NOT be
// modified by callers.
type RenderData struct {
	ID       Identity
	Vertices []Vec2
	Indices  []uint16
	Alpha    []uint8
}

// Validate checks the geometry invariants: a non-empty triangle list, every
// index in range and one alpha value per vertex.
func (d *RenderData) Validate() error {
	if len(d.Indices) == 0 || len(d.Indices)%3 != 0 {
		return fmt.Errorf("%w: %v: %d indices is not a triangle list", ErrInvalidRenderData, d.ID, len(d.Indices))
	}
	n := len(d.Vertices)
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: %v: index %d @ %d out of range (%d vertices)", ErrInvalidRenderData, d.ID, idx, i, n)
		}
	}
	if len(d.Alpha) != n {
		return fmt.Errorf("%w: %v: %d alpha values for %d vertices", ErrInvalidRenderData, d.ID, len(d.Alpha), n)
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the base vertices.
func (d *RenderData) Bounds() Rect {
	return computeAABB(d.Vertices)
}

func (d *RenderData) String() string {
	return fmt.Sprintf("%v: %d vertices, %d indices", d.ID, len(d.Vertices), len(d.Indices))
}

// computeAABB returns the axis-aligned bounding box of pts.
func computeAABB(pts []Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return RectFromBounds(minX, minY, maxX, maxY)
}
