package linalg

import "github.com/go-gl/mathgl/mgl64"

// Vec3, Mat3, and Quat are the three linear-algebra primitives the solver
// operates on. They alias mgl64 directly rather than wrapping it: every
// mgl64.Vec3/Mat3/Quat method (Add, Sub, Mul, Cross, Dot, Normalize,
// Inverse, Mat4, Mul3x1, ...) is available on these types unchanged.
type (
	Vec3 = mgl64.Vec3
	Mat3 = mgl64.Mat3
	Quat = mgl64.Quat
)

// Identity3 is the 3x3 identity matrix.
func Identity3() Mat3 {
	return mgl64.Ident3()
}

// IdentityQuat is the identity rotation.
func IdentityQuat() Quat {
	return mgl64.QuatIdent()
}

// FromAxisAngle builds a unit quaternion representing a rotation of angle
// radians about axis (axis need not be normalized).
func FromAxisAngle(angle float64, axis Vec3) Quat {
	return mgl64.QuatRotate(angle, axis)
}

// RotationMatrix returns the 3x3 rotation matrix a unit quaternion induces.
func RotationMatrix(q Quat) Mat3 {
	return q.Mat4().Mat3()
}

// Normalize returns q scaled to unit length. Idempotent to within floating
// point precision: normalizing an already-unit quaternion changes nothing
// beyond rounding.
func Normalize(q Quat) Quat {
	return q.Normalize()
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
