package core

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Transform is a 4x4 affine matrix in row-major order: t[4*r + c] is the
// element in row r, column c. The last column holds the translation.
//
// Transforms compose by multiplication: a.Mul(b) applies b first, then a.
type Transform f64.Mat4

// Identity returns the identity transform
func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewAffine builds a transform from the top three rows of an affine matrix
func NewAffine(
	m00, m01, m02, m03,
	m10, m11, m12, m13,
	m20, m21, m22, m23 float64,
) Transform {
	return Transform{
		m00, m01, m02, m03,
		m10, m11, m12, m13,
		m20, m21, m22, m23,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that offsets points by delta
func Translation(delta Vec3) Transform {
	return NewAffine(
		1, 0, 0, delta.X,
		0, 1, 0, delta.Y,
		0, 0, 1, delta.Z,
	)
}

// Scale returns a transform that scales each axis independently
func Scale(factors Vec3) Transform {
	return NewAffine(
		factors.X, 0, 0, 0,
		0, factors.Y, 0, 0,
		0, 0, factors.Z, 0,
	)
}

// Rotation returns a right-handed rotation of angle radians about an axis
// through the origin (Rodrigues' formula). The axis need not be normalized.
func Rotation(axis Vec3, angle float64) Transform {
	n := axis.Normalize()
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1.0 - c
	x, y, z := n.X, n.Y, n.Z

	return NewAffine(
		t*x*x+c, t*x*y-z*s, t*x*z+y*s, 0,
		t*x*y+z*s, t*y*y+c, t*y*z-x*s, 0,
		t*x*z-y*s, t*y*z+x*s, t*z*z+c, 0,
	)
}

// RotationX rotates about the X axis
func RotationX(angle float64) Transform { return Rotation(UnitX, angle) }

// RotationY rotates about the Y axis
func RotationY(angle float64) Transform { return Rotation(UnitY, angle) }

// RotationZ rotates about the Z axis
func RotationZ(angle float64) Transform { return Rotation(UnitZ, angle) }

// Mul returns the composition t*other (other is applied first)
func (t Transform) Mul(other Transform) Transform {
	var out Transform
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[4*r+c] = t[4*r]*other[c] +
				t[4*r+1]*other[4+c] +
				t[4*r+2]*other[8+c] +
				t[4*r+3]*other[12+c]
		}
	}
	return out
}

// Apply transforms a point, including translation
func (t Transform) Apply(p Vec3) Vec3 {
	return Vec3{
		X: t[0]*p.X + t[1]*p.Y + t[2]*p.Z + t[3],
		Y: t[4]*p.X + t[5]*p.Y + t[6]*p.Z + t[7],
		Z: t[8]*p.X + t[9]*p.Y + t[10]*p.Z + t[11],
	}
}

// ApplyDirection transforms a direction by the linear part only
func (t Transform) ApplyDirection(d Vec3) Vec3 {
	return Vec3{
		X: t[0]*d.X + t[1]*d.Y + t[2]*d.Z,
		Y: t[4]*d.X + t[5]*d.Y + t[6]*d.Z,
		Z: t[8]*d.X + t[9]*d.Y + t[10]*d.Z,
	}
}

// TranslationPart returns the translation column
func (t Transform) TranslationPart() Vec3 {
	return Vec3{t[3], t[7], t[11]}
}

// Determinant returns the determinant of the full 4x4 matrix
func (t Transform) Determinant() float64 {
	adj := t.adjugate()
	return t[0]*adj[0] + t[1]*adj[4] + t[2]*adj[8] + t[3]*adj[12]
}

// Inverse returns the inverse transform. A singular transform yields the identity.
func (t Transform) Inverse() Transform {
	inv, _ := t.TryInverse()
	return inv
}

// TryInverse returns the inverse transform and whether t was invertible
func (t Transform) TryInverse() (Transform, bool) {
	adj := t.adjugate()
	det := t[0]*adj[0] + t[1]*adj[4] + t[2]*adj[8] + t[3]*adj[12]
	if det == 0 || math.IsNaN(det) {
		return Identity(), false
	}
	inv := 1 / det
	for i := range adj {
		adj[i] *= inv
	}
	return adj, true
}

// adjugate returns the transposed cofactor matrix
// http://www.euclideanspace.com/maths/algebra/matrix/functions/inverse/fourD/index.htm
func (t Transform) adjugate() Transform {
	var r Transform

	r[0] = t[5]*t[10]*t[15] - t[5]*t[11]*t[14] - t[9]*t[6]*t[15] + t[9]*t[7]*t[14] + t[13]*t[6]*t[11] - t[13]*t[7]*t[10]
	r[4] = -t[4]*t[10]*t[15] + t[4]*t[11]*t[14] + t[8]*t[6]*t[15] - t[8]*t[7]*t[14] - t[12]*t[6]*t[11] + t[12]*t[7]*t[10]
	r[8] = t[4]*t[9]*t[15] - t[4]*t[11]*t[13] - t[8]*t[5]*t[15] + t[8]*t[7]*t[13] + t[12]*t[5]*t[11] - t[12]*t[7]*t[9]
	r[12] = -t[4]*t[9]*t[14] + t[4]*t[10]*t[13] + t[8]*t[5]*t[14] - t[8]*t[6]*t[13] - t[12]*t[5]*t[10] + t[12]*t[6]*t[9]
	r[1] = -t[1]*t[10]*t[15] + t[1]*t[11]*t[14] + t[9]*t[2]*t[15] - t[9]*t[3]*t[14] - t[13]*t[2]*t[11] + t[13]*t[3]*t[10]
	r[5] = t[0]*t[10]*t[15] - t[0]*t[11]*t[14] - t[8]*t[2]*t[15] + t[8]*t[3]*t[14] + t[12]*t[2]*t[11] - t[12]*t[3]*t[10]
	r[9] = -t[0]*t[9]*t[15] + t[0]*t[11]*t[13] + t[8]*t[1]*t[15] - t[8]*t[3]*t[13] - t[12]*t[1]*t[11] + t[12]*t[3]*t[9]
	r[13] = t[0]*t[9]*t[14] - t[0]*t[10]*t[13] - t[8]*t[1]*t[14] + t[8]*t[2]*t[13] + t[12]*t[1]*t[10] - t[12]*t[2]*t[9]
	r[2] = t[1]*t[6]*t[15] - t[1]*t[7]*t[14] - t[5]*t[2]*t[15] + t[5]*t[3]*t[14] + t[13]*t[2]*t[7] - t[13]*t[3]*t[6]
	r[6] = -t[0]*t[6]*t[15] + t[0]*t[7]*t[14] + t[4]*t[2]*t[15] - t[4]*t[3]*t[14] - t[12]*t[2]*t[7] + t[12]*t[3]*t[6]
	r[10] = t[0]*t[5]*t[15] - t[0]*t[7]*t[13] - t[4]*t[1]*t[15] + t[4]*t[3]*t[13] + t[12]*t[1]*t[7] - t[12]*t[3]*t[5]
	r[14] = -t[0]*t[5]*t[14] + t[0]*t[6]*t[13] + t[4]*t[1]*t[14] - t[4]*t[2]*t[13] - t[12]*t[1]*t[6] + t[12]*t[2]*t[5]
	r[3] = -t[1]*t[6]*t[11] + t[1]*t[7]*t[10] + t[5]*t[2]*t[11] - t[5]*t[3]*t[10] - t[9]*t[2]*t[7] + t[9]*t[3]*t[6]
	r[7] = t[0]*t[6]*t[11] - t[0]*t[7]*t[10] - t[4]*t[2]*t[11] + t[4]*t[3]*t[10] + t[8]*t[2]*t[7] - t[8]*t[3]*t[6]
	r[11] = -t[0]*t[5]*t[11] + t[0]*t[7]*t[9] + t[4]*t[1]*t[11] - t[4]*t[3]*t[9] - t[8]*t[1]*t[7] + t[8]*t[3]*t[5]
	r[15] = t[0]*t[5]*t[10] - t[0]*t[6]*t[9] - t[4]*t[1]*t[10] + t[4]*t[2]*t[9] + t[8]*t[1]*t[6] - t[8]*t[2]*t[5]

	return r
}

// ApproxEquals reports whether every element differs by at most tolerance
func (t Transform) ApproxEquals(other Transform, tolerance float64) bool {
	for i := range t {
		if math.Abs(t[i]-other[i]) > tolerance {
			return false
		}
	}
	return true
}

func (t Transform) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f %.3f | %.3f %.3f %.3f %.3f | %.3f %.3f %.3f %.3f | %.3f %.3f %.3f %.3f]",
		t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7],
		t[8], t[9], t[10], t[11], t[12], t[13], t[14], t[15])
}
