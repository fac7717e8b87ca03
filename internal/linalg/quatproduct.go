package linalg

import "github.com/go-gl/mathgl/mgl64"

// Mat4Quat is the 4x4 matrix representation of left/right quaternion
// multiplication, laid out column-major with columns/rows ordered
// (w, x, y, z).
type Mat4Quat [16]float64

// at returns M[row][col] for row, col in {0:w, 1:x, 2:y, 3:z}.
func (m Mat4Quat) at(row, col int) float64 {
	return m[col*4+row]
}

// L returns the matrix such that L(q)*p (p as a column vector ordered
// (w,x,y,z)) represents the Hamilton product q*p.
func L(q Quat) Mat4Quat {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()
	return newQuatMat(
		w, -x, -y, -z,
		x, w, -z, y,
		y, z, w, -x,
		z, -y, x, w,
	)
}

// R returns the matrix such that R(q)*p represents the Hamilton product
// p*q.
func R(q Quat) Mat4Quat {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()
	return newQuatMat(
		w, -x, -y, -z,
		x, w, z, -y,
		y, -z, w, x,
		z, y, -x, w,
	)
}

// newQuatMat builds a Mat4Quat from row-major entries for readability at
// the call site; storage remains column-major.
func newQuatMat(
	r0w, r0x, r0y, r0z,
	r1w, r1x, r1y, r1z,
	r2w, r2x, r2y, r2z,
	r3w, r3x, r3y, r3z float64,
) Mat4Quat {
	var m Mat4Quat
	rows := [4][4]float64{
		{r0w, r0x, r0y, r0z},
		{r1w, r1x, r1y, r1z},
		{r2w, r2x, r2y, r2z},
		{r3w, r3x, r3y, r3z},
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[col*4+row] = rows[row][col]
		}
	}
	return m
}

// Mul multiplies two Mat4Quat matrices.
func (m Mat4Quat) Mul(n Mat4Quat) Mat4Quat {
	var out Mat4Quat
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m.at(row, k) * n.at(k, col)
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Project extracts the bottom-right 3x3 block of a Mat4Quat: the rows and
// columns indexed by the imaginary components (x, y, z), dropping the w
// row and column entirely.
func Project(m Mat4Quat) Mat3 {
	return mgl64.Mat3{
		m.at(1, 1), m.at(2, 1), m.at(3, 1),
		m.at(1, 2), m.at(2, 2), m.at(3, 2),
		m.at(1, 3), m.at(2, 3), m.at(3, 3),
	}
}

// ProjectMultiplyLeftRight computes Project(L(a)*R(b)) via the closed-form
// bilinear expansion in the eight components of a and b, rather than by
// materializing and multiplying two 4x4 matrices. A numeric
// multiply-then-extract implementation ([naiveProjectMultiplyLeftRight]
// below) exists only as a cross-check in tests; it adds the same products
// in a different order, so the two agree to within rounding (the tests
// compare them at 1e-9) rather than bit for bit.
func ProjectMultiplyLeftRight(a, b Quat) Mat3 {
	aw, ax, ay, az := a.W, a.V.X(), a.V.Y(), a.V.Z()
	bw, bx, by, bz := b.W, b.V.X(), b.V.Y(), b.V.Z()

	m00 := aw*bw - ax*bx + ay*by + az*bz
	m01 := -ax*by - ay*bx + aw*bz - az*bw
	m02 := -ax*bz - az*bx + ay*bw - aw*by

	m10 := -ax*by - ay*bx - aw*bz + az*bw
	m11 := aw*bw + ax*bx - ay*by + az*bz
	m12 := -ay*bz - az*by + aw*bx - ax*bw

	m20 := -ax*bz - az*bx - ay*bw + aw*by
	m21 := -ay*bz - az*by - aw*bx + ax*bw
	m22 := aw*bw + ax*bx + ay*by - az*bz

	// mgl64.Mat3 literals are column-major: {col0, col1, col2}.
	return mgl64.Mat3{
		m00, m10, m20,
		m01, m11, m21,
		m02, m12, m22,
	}
}

// naiveProjectMultiplyLeftRight is the numeric multiply-then-extract
// alternative. Kept for test cross-checking only.
func naiveProjectMultiplyLeftRight(a, b Quat) Mat3 {
	return Project(L(a).Mul(R(b)))
}
