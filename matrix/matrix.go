// Package matrix owns every affine 3×4 transformation matrix created while
// lowering a CSG tree. Matrices are produced by combining two existing
// matrices (or a matrix and an operator's parameters); none is ever mutated
// after construction, and all live in an Arena for the lifetime of one
// Lower() call.
package matrix

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Matrix is a 3×4 affine transform: a linear part (rotation/scale/shear)
// plus a translation, with the sign of the linear part's determinant
// cached at construction time since downstream winding decisions (tower
// construction, mirror parity) only ever need the sign.
type Matrix struct {
	Linear      mgl64.Mat3
	Translation mgl64.Vec3
	detSign     int // -1, 0, or +1
}

// DetSign returns the cached sign of det(Linear). Zero means singular.
func (m *Matrix) DetSign() int {
	if m == nil {
		return 1
	}
	return m.detSign
}

// IsPureRotation reports whether the linear part is a rectangular rotation
// (orthogonal, determinant +1): no scale, shear, or mirror component. Used
// downstream as an STL-writer optimization hint.
func (m *Matrix) IsPureRotation() bool {
	if m == nil {
		return true
	}
	if m.detSign != 1 {
		return false
	}
	t := m.Linear.Transpose()
	prod := m.Linear.Mul3(t)
	ident := mgl64.Ident3()
	const eps = 1e-9
	for i := 0; i < 9; i++ {
		if math.Abs(prod[i]-ident[i]) > eps {
			return false
		}
	}
	return true
}

// Apply transforms a point by this matrix: Linear*p + Translation.
func (m *Matrix) Apply(p mgl64.Vec3) mgl64.Vec3 {
	if m == nil {
		return p
	}
	return m.Linear.Mul3x1(p).Add(m.Translation)
}

// ApplyLinear applies only the linear part, for transforming direction
// vectors (e.g. normals, before re-normalizing) rather than points.
func (m *Matrix) ApplyLinear(v mgl64.Vec3) mgl64.Vec3 {
	if m == nil {
		return v
	}
	return m.Linear.Mul3x1(v)
}

func detSign(d float64) int {
	switch {
	case d > 1e-12:
		return 1
	case d < -1e-12:
		return -1
	default:
		return 0
	}
}

func newMatrix(linear mgl64.Mat3, translation mgl64.Vec3) *Matrix {
	return &Matrix{
		Linear:      linear,
		Translation: translation,
		detSign:     detSign(linear.Det()),
	}
}

// Arena owns every Matrix created while lowering one CSG tree. Operations
// produce a new Matrix from two inputs rather than mutating either.
type Arena struct {
	matrices []*Matrix
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) own(m *Matrix) *Matrix {
	a.matrices = append(a.matrices, m)
	return m
}

// Identity returns the identity transform, owned by this arena.
func (a *Arena) Identity() *Matrix {
	return a.own(newMatrix(mgl64.Ident3(), mgl64.Vec3{}))
}

// combine post-multiplies current by operator, in standard column-vector
// convention: result = current · operator.
func (a *Arena) combine(current *Matrix, opLinear mgl64.Mat3, opTranslation mgl64.Vec3) *Matrix {
	if current == nil {
		return a.own(newMatrix(opLinear, opTranslation))
	}
	linear := current.Linear.Mul3(opLinear)
	translation := current.Linear.Mul3x1(opTranslation).Add(current.Translation)
	return a.own(newMatrix(linear, translation))
}

// Translate post-multiplies by a translation. A zero vector is elided: the
// input matrix is returned unchanged (no new matrix is allocated).
func (a *Arena) Translate(current *Matrix, v mgl64.Vec3) *Matrix {
	if v == (mgl64.Vec3{}) {
		return current
	}
	return a.combine(current, mgl64.Ident3(), v)
}

// Scale post-multiplies by a diagonal scale matrix. A zero component is a
// user-input "empty geometry" error at the configured severity; the caller
// decides (via diag.Emit) whether that is fatal.
func (a *Arena) Scale(current *Matrix, v mgl64.Vec3) (*Matrix, error) {
	if v.X() == 0 || v.Y() == 0 || v.Z() == 0 {
		return current, fmt.Errorf("scale vector has a zero component: %v", v)
	}
	return a.combine(current, mgl64.Diag3(v), mgl64.Vec3{}), nil
}

// Mirror post-multiplies by a Householder reflection across the plane
// through the origin perpendicular to v. A zero vector is always fatal
// (spec: "a mirror by a zero vector fails fatally").
func (a *Arena) Mirror(current *Matrix, v mgl64.Vec3) (*Matrix, error) {
	n := v.Len()
	if n < 1e-12 {
		return current, fmt.Errorf("mirror vector is zero")
	}
	u := v.Mul(1.0 / n)
	// Householder reflection: I - 2*u*u^T
	var refl mgl64.Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			ident := 0.0
			if row == col {
				ident = 1.0
			}
			refl[col*3+row] = ident - 2*u[row]*u[col]
		}
	}
	return a.combine(current, refl, mgl64.Vec3{}), nil
}

// MultMatrix post-multiplies by an arbitrary affine matrix supplied as its
// linear part and translation. A non-invertible operator is a "collapse"
// error at the configured severity.
func (a *Arena) MultMatrix(current *Matrix, linear mgl64.Mat3, translation mgl64.Vec3) (*Matrix, error) {
	if detSign(linear.Det()) == 0 {
		return current, fmt.Errorf("multmatrix operand is not invertible")
	}
	return a.combine(current, linear, translation), nil
}

// RotateAxisAngle post-multiplies by a rotation of angleDeg degrees around
// axis (which need not be pre-normalized), built the way actor/rigidbody.go
// builds its rotations: mgl64.QuatRotate, converted to a Mat3 via Mat4().
func (a *Arena) RotateAxisAngle(current *Matrix, axis mgl64.Vec3, angleDeg float64) *Matrix {
	n := axis.Len()
	if n < 1e-12 {
		return current
	}
	u := axis.Mul(1.0 / n)
	q := mgl64.QuatRotate(angleDeg*math.Pi/180, u)
	return a.combine(current, q.Mat4().Mat3(), mgl64.Vec3{})
}

// RotateEuler post-multiplies by the three-step Euler rotation Rz·Ry·Rx of
// the given (x,y,z) degree triple, composed from the same mgl64.QuatRotate
// building block as RotateAxisAngle rather than three hand-rolled
// per-axis matrices.
func (a *Arena) RotateEuler(current *Matrix, anglesDeg mgl64.Vec3) *Matrix {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	qz := mgl64.QuatRotate(rad(anglesDeg.Z()), mgl64.Vec3{0, 0, 1})
	qy := mgl64.QuatRotate(rad(anglesDeg.Y()), mgl64.Vec3{0, 1, 0})
	qx := mgl64.QuatRotate(rad(anglesDeg.X()), mgl64.Vec3{1, 0, 0})
	q := qz.Mul(qy).Mul(qx)
	return a.combine(current, q.Mat4().Mat3(), mgl64.Vec3{})
}
