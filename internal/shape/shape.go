// Package shape provides the minimal mass-properties stubs left at an
// interface boundary: shape geometry and narrowphase are out of scope,
// but bodies still need an inverse inertia tensor to integrate, and a
// constructor has to come from somewhere. Sphere and Box mirror the
// ComputeMass/ComputeInertia formulas of a full collision shape without
// any of the support/AABB/manifold machinery that would come with real
// narrowphase.
package shape

import "github.com/san-kum/rbsolve/internal/linalg"

// Shape computes the local inertia tensor of a uniform solid of the
// caller's mass.
type Shape interface {
	InertiaLocal(mass float64) linalg.Mat3
}

// Sphere is a solid sphere of the given radius.
type Sphere struct {
	Radius float64
}

// InertiaLocal returns I = (2/5) m r^2 on every axis.
func (s Sphere) InertiaLocal(mass float64) linalg.Mat3 {
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius
	return linalg.DiagMat3(i, i, i)
}

// Box is a solid box with the given half-extents.
type Box struct {
	HalfExtents linalg.Vec3
}

// InertiaLocal returns the standard box formula I_i = (m/12)(d_j^2 + d_k^2)
// for full dimensions d = 2*HalfExtents.
func (b Box) InertiaLocal(mass float64) linalg.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)
	return linalg.DiagMat3(ix, iy, iz)
}
