package vinyl

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeShapeTransform composes a shape's placement parameters into one
// affine matrix. Returns [a, b, c, d, tx, ty].
//
// Composition order, each step post-concatenated onto the previous:
//
//	Scale -> Skew(k, 0) -> Rotate(deg) -> Translate(X, Y)
//
// Skew is a raw shear factor (x' = x + k*y), not an angle. Positive angles
// rotate clockwise on the y-down canvas.
func computeShapeTransform(x, y, sx, sy, angleDeg, skew float64) [6]float64 {
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)

	// After Skew * Scale:
	//   a=sx, b=0, c=k*sy, d=sy
	a := sx
	c := skew * sy
	d := sy

	// After Rotate (b is zero before this step):
	ra := cos * a
	rb := sin * a
	rc := cos*c - sin*d
	rd := sin*c + cos*d

	// After Translate(X, Y):
	return [6]float64{ra, rb, rc, rd, x, y}
}

// Decomposed holds the placement parameters recovered from a shape matrix.
type Decomposed struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Angle          float64 // degrees in (-180, 180]
	Skew           float64
}

// DecomposeTransform recovers the placement parameters of a matrix built by
// the scale, skew, rotate, translate composition. ScaleX is assumed
// positive; a mirrored X axis comes back as a 180 degree turn with negated
// ScaleY and the same Skew. Skew is 0 when ScaleY is 0.
func DecomposeTransform(m [6]float64) Decomposed {
	sx := math.Hypot(m[0], m[1])
	rad := math.Atan2(m[1], m[0])
	sin, cos := math.Sincos(rad)

	// Undo the rotation on the second column: (k*sy, sy).
	ksy := cos*m[2] + sin*m[3]
	sy := -sin*m[2] + cos*m[3]

	var skew float64
	if sy != 0 {
		skew = ksy / sy
	}
	return Decomposed{
		X: m[4], Y: m[5],
		ScaleX: sx, ScaleY: sy,
		Angle: rad * 180 / math.Pi,
		Skew:  skew,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformRect maps r through m and returns the axis-aligned bounds of the
// result.
func transformRect(m [6]float64, r Rect) Rect {
	var pts [4]Vec2
	corners := [4][2]float64{{r.X, r.Y}, {r.Right(), r.Y}, {r.X, r.Bottom()}, {r.Right(), r.Bottom()}}
	for i, c := range corners {
		pts[i].X, pts[i].Y = transformPoint(m, c[0], c[1])
	}
	return computeAABB(pts[:])
}
