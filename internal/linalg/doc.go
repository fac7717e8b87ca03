// Package linalg provides the vector, matrix, and quaternion kernels that
// underlie the solver's rotational Jacobians.
//
// Vectors, 3x3 matrices, and unit quaternions are aliases of
// [github.com/go-gl/mathgl/mgl64] types so callers can mix this package's
// rotation-Jacobian helpers with the rest of mgl64's vector algebra without
// conversion. What this package adds on top is specific to the solver: the
// 4x4 quaternion left/right multiplication matrices L and R, and the
// closed-form [ProjectMultiplyLeftRight] bilinear form they combine into,
// which mgl64 has no equivalent for.
//
// # Convention
//
// Quaternions follow the Hamilton convention (ij = k). L and R are defined
// so that for quaternions p, q: L(q)*p represents the product q*p and
// R(q)*p represents p*q, with column vectors ordered (w, x, y, z).
package linalg
