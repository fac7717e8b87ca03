package constraint

import (
	"math"

	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/rigid"
)

// Hinge is a hinge-angle constraint row: it drives the relative
// orientation of two bodies toward a reference orientation about a shared
// axis, within an angular limit on rotation about that axis.
type Hinge struct {
	Header

	axis   linalg.Vec3 // local hinge axis, body-2 frame
	p0, p1 linalg.Vec3 // orthonormal triad completing axis, body-2 frame
	q0     linalg.Quat // relative reference orientation

	MinAngle, MaxAngle float64 // stored as sin(theta/2)
	Softness           float64
	LimitSoftness      float64
	BiasFactor         float64
	LimitBias          float64

	AccumulatedImpulse linalg.Vec3
	bias               linalg.Vec3
	effectiveMass      linalg.Mat3
	jacobian           linalg.Mat3
	Clamp              int
}

// NewHinge builds a hinge row between two bodies about axisWorld (a
// world-space direction at construction time), with angular limits in
// radians. It resolves both bodies' current orientations from the arena
// to compute the relative reference orientation Q0, so the hinge starts
// with zero angular error.
func NewHinge(
	body1, body2 rigid.Handle,
	bodies *rigid.Arena[rigid.Body],
	axisWorld linalg.Vec3,
	minAngle, maxAngle float64,
	softness, limitSoftness, biasFactor, limitBias float64,
) (*Hinge, error) {
	b1, err := bodies.Get(body1)
	if err != nil {
		return nil, err
	}
	b2, err := bodies.Get(body2)
	if err != nil {
		return nil, err
	}

	localAxis := b2.Orientation.Inverse().Rotate(axisWorld.Normalize())
	p0, p1 := linalg.OrthonormalBasis(localAxis)

	q0 := b2.Orientation.Conjugate().Mul(b1.Orientation)

	return &Hinge{
		Header:        Header{Body1: body1, Body2: body2},
		axis:          localAxis,
		p0:            p0,
		p1:            p1,
		q0:            q0,
		MinAngle:      math.Sin(minAngle / 2),
		MaxAngle:      math.Sin(maxAngle / 2),
		Softness:      softness,
		LimitSoftness: limitSoftness,
		BiasFactor:    biasFactor,
		LimitBias:     limitBias,
	}, nil
}

// Prepare computes the hinge's angular error, Jacobian, and effective
// mass from the two bodies' current orientations and inertia, then warm
// starts by reapplying the row's accumulated impulse.
func (h *Hinge) Prepare(bodies *rigid.Arena[rigid.Body], invDt float64) error {
	b1, err := bodies.Get(h.Body1)
	if err != nil {
		return err
	}
	b2, err := bodies.Get(h.Body2)
	if err != nil {
		return err
	}

	q0q1c := h.q0.Mul(b1.Orientation.Conjugate())
	deltaQ := q0q1c.Mul(b2.Orientation)

	sign := 1.0
	if deltaQ.W < 0 {
		sign = -1.0
	}
	v := deltaQ.V.Mul(sign)

	errVec := linalg.Vec3{
		h.p0.Dot(v),
		h.p1.Dot(v),
		h.axis.Dot(v),
	}

	m0 := linalg.ScaleMat3(linalg.ProjectMultiplyLeftRight(q0q1c, b2.Orientation), -0.5*sign)
	m0T := m0.Transpose()
	// The three constraint directions are the Jacobian's columns, so the
	// projected velocity is Jᵀ·Δω and an impulse λ is applied as J·λ.
	h.jacobian = linalg.Mat3FromRows(
		m0T.Mul3x1(h.p0),
		m0T.Mul3x1(h.p1),
		m0T.Mul3x1(h.axis),
	).Transpose()

	sumInv := linalg.AddMat3(b1.InverseInertiaWorld, b2.InverseInertiaWorld)
	effMass := h.jacobian.Transpose().Mul3(sumInv).Mul3(h.jacobian)
	effMass = linalg.AddMat3(effMass, linalg.ScaleMat3(linalg.DiagMat3(h.Softness, h.Softness, h.LimitSoftness), invDt))

	code, shifted := clampLimit(errVec.Z(), h.MinAngle, h.MaxAngle)
	h.Clamp = code

	if code == clampFree {
		h.AccumulatedImpulse = linalg.Vec3{h.AccumulatedImpulse.X(), h.AccumulatedImpulse.Y(), 0}
		effMass = linalg.WithIdentityRowCol(effMass, 2)
		h.jacobian = linalg.WithZeroCol(h.jacobian, 2)
	}
	h.effectiveMass = effMass.Inv()

	h.bias = linalg.Vec3{
		errVec.X() * invDt * h.BiasFactor,
		errVec.Y() * invDt * h.BiasFactor,
		shifted * invDt * h.LimitBias,
	}

	impulse := h.jacobian.Mul3x1(h.AccumulatedImpulse)
	b1.AngularVelocity = b1.AngularVelocity.Add(b1.InverseInertiaWorld.Mul3x1(impulse))
	b2.AngularVelocity = b2.AngularVelocity.Sub(b2.InverseInertiaWorld.Mul3x1(impulse))
	return nil
}

// Iterate runs one Gauss-Seidel pass: compute the velocity error along
// the row's three axes, solve for the impulse correction, clamp the
// limit axis, and apply it to both bodies.
func (h *Hinge) Iterate(bodies *rigid.Arena[rigid.Body], invDt float64) error {
	b1, err := bodies.Get(h.Body1)
	if err != nil {
		return err
	}
	b2, err := bodies.Get(h.Body2)
	if err != nil {
		return err
	}

	deltaOmega := b1.AngularVelocity.Sub(b2.AngularVelocity)
	jv := h.jacobian.Transpose().Mul3x1(deltaOmega)

	softnessTerm := linalg.Vec3{
		h.AccumulatedImpulse.X() * invDt * h.Softness,
		h.AccumulatedImpulse.Y() * invDt * h.Softness,
		h.AccumulatedImpulse.Z() * invDt * h.LimitSoftness,
	}

	lambda := h.effectiveMass.Mul3x1(jv.Add(h.bias).Add(softnessTerm)).Mul(-1)

	old := h.AccumulatedImpulse
	next := old.Add(lambda)

	switch h.Clamp {
	case clampMax:
		if next.Z() > 0 {
			next = linalg.Vec3{next.X(), next.Y(), 0}
		}
	case clampMin:
		if next.Z() < 0 {
			next = linalg.Vec3{next.X(), next.Y(), 0}
		}
	case clampFree:
		next = linalg.Vec3{next.X(), next.Y(), 0}
	}
	h.AccumulatedImpulse = next

	actual := next.Sub(old)
	delta := h.jacobian.Mul3x1(actual)
	b1.AngularVelocity = b1.AngularVelocity.Add(b1.InverseInertiaWorld.Mul3x1(delta))
	b2.AngularVelocity = b2.AngularVelocity.Sub(b2.InverseInertiaWorld.Mul3x1(delta))
	return nil
}
