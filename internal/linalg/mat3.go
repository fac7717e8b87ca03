package linalg

// AddMat3 returns a+b elementwise. Constraint effective-mass assembly uses
// it to sum the per-body inverse-inertia contributions.
func AddMat3(a, b Mat3) Mat3 {
	var out Mat3
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// ScaleMat3 returns m scaled by s elementwise.
func ScaleMat3(m Mat3, s float64) Mat3 {
	var out Mat3
	for i := range out {
		out[i] = m[i] * s
	}
	return out
}

// DiagMat3 builds a diagonal matrix from its three entries.
func DiagMat3(x, y, z float64) Mat3 {
	return Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	}
}

// Mat3FromRows builds a matrix from three row vectors. mgl64.Mat3 literals
// are column-major, so this is the transpose of the naive literal.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0.X(), r1.X(), r2.X(),
		r0.Y(), r1.Y(), r2.Y(),
		r0.Z(), r1.Z(), r2.Z(),
	}
}

// Row extracts row i (0-indexed) of m.
func Row(m Mat3, i int) Vec3 {
	return Vec3{m[i], m[i+3], m[i+6]}
}

// Col extracts column i (0-indexed) of m.
func Col(m Mat3, i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// WithIdentityRowCol returns m with row i and column i replaced by the
// corresponding row/column of the identity matrix, used to decouple an
// inactive limit row from the effective-mass matrix.
func WithIdentityRowCol(m Mat3, i int) Mat3 {
	out := m
	for k := 0; k < 3; k++ {
		out[i*3+k] = 0
		out[k*3+i] = 0
	}
	out[i*3+i] = 1
	return out
}

// WithZeroCol returns m with column i zeroed.
func WithZeroCol(m Mat3, i int) Mat3 {
	out := m
	out[i*3] = 0
	out[i*3+1] = 0
	out[i*3+2] = 0
	return out
}

// OrthonormalBasis returns two unit vectors p0, p1 completing an
// orthonormal triad with a unit vector axis.
func OrthonormalBasis(axis Vec3) (Vec3, Vec3) {
	ref := Vec3{1, 0, 0}
	if math64Abs(axis.X()) > 0.9 {
		ref = Vec3{0, 1, 0}
	}
	p0 := axis.Cross(ref).Normalize()
	p1 := axis.Cross(p0).Normalize()
	return p0, p1
}

func math64Abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
