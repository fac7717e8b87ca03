package constraint

import (
	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/rigid"
)

// Spring is a small-constraint row: the same two-method contract as
// Hinge/PointOnPlane with a smaller fixed payload, used here for a
// soft-body-style distance spring between two anchor points. Unlike the
// point-on-plane row it never clamps or skips: the spring pulls in both
// directions and always contributes an impulse.
type Spring struct {
	Header

	r1, r2     linalg.Vec3 // local anchors
	RestLength float64
	Stiffness  float64
	Damping    float64

	axis               linalg.Vec3
	effectiveMass      float64
	bias               float64
	AccumulatedImpulse float64
}

// NewSpring builds a distance-spring row between two body-local anchors.
func NewSpring(body1, body2 rigid.Handle, localAnchor1, localAnchor2 linalg.Vec3, restLength, stiffness, damping float64) *Spring {
	return &Spring{
		Header:     Header{Body1: body1, Body2: body2},
		r1:         localAnchor1,
		r2:         localAnchor2,
		RestLength: restLength,
		Stiffness:  stiffness,
		Damping:    damping,
	}
}

// Prepare rebuilds the spring's Jacobian axis and effective mass from the
// bodies' current anchor separation, and warm-starts with the accumulated
// impulse from the previous step.
func (s *Spring) Prepare(bodies *rigid.Arena[rigid.Body], invDt float64) error {
	b1, err := bodies.Get(s.Body1)
	if err != nil {
		return err
	}
	b2, err := bodies.Get(s.Body2)
	if err != nil {
		return err
	}

	r1World := b1.Orientation.Rotate(s.r1)
	r2World := b2.Orientation.Rotate(s.r2)
	p1 := b1.Position.Add(r1World)
	p2 := b2.Position.Add(r2World)

	delta := p2.Sub(p1)
	length := delta.Len()
	axis := linalg.Vec3{1, 0, 0}
	if length > 1e-12 {
		axis = delta.Mul(1 / length)
	}
	s.axis = axis

	jw1 := r1World.Cross(axis).Mul(-1)
	jw2 := r2World.Cross(axis)

	invMassSum := b1.InverseMass + b2.InverseMass
	angular1 := b1.InverseInertiaWorld.Mul3x1(jw1).Dot(jw1)
	angular2 := b2.InverseInertiaWorld.Mul3x1(jw2).Dot(jw2)
	k := invMassSum + angular1 + angular2 + 1/(s.Stiffness*invDt)
	if k == 0 {
		s.effectiveMass = 0
	} else {
		s.effectiveMass = 1 / k
	}

	s.bias = (length - s.RestLength) * invDt * s.Damping

	impulse := s.AccumulatedImpulse
	b1.Velocity = b1.Velocity.Add(axis.Mul(-b1.InverseMass * impulse))
	b1.AngularVelocity = b1.AngularVelocity.Add(b1.InverseInertiaWorld.Mul3x1(jw1.Mul(impulse)))
	b2.Velocity = b2.Velocity.Add(axis.Mul(b2.InverseMass * impulse))
	b2.AngularVelocity = b2.AngularVelocity.Add(b2.InverseInertiaWorld.Mul3x1(jw2.Mul(impulse)))
	return nil
}

// Iterate applies one Gauss-Seidel update of the spring's impulse.
func (s *Spring) Iterate(bodies *rigid.Arena[rigid.Body], invDt float64) error {
	b1, err := bodies.Get(s.Body1)
	if err != nil {
		return err
	}
	b2, err := bodies.Get(s.Body2)
	if err != nil {
		return err
	}

	r1World := b1.Orientation.Rotate(s.r1)
	r2World := b2.Orientation.Rotate(s.r2)
	jw1 := r1World.Cross(s.axis).Mul(-1)
	jw2 := r2World.Cross(s.axis)

	jv := s.axis.Dot(b2.Velocity) - s.axis.Dot(b1.Velocity) + jw1.Dot(b1.AngularVelocity) + jw2.Dot(b2.AngularVelocity)
	lambda := -s.effectiveMass * (jv + s.bias)

	old := s.AccumulatedImpulse
	s.AccumulatedImpulse = old + lambda
	actual := lambda

	b1.Velocity = b1.Velocity.Add(s.axis.Mul(-b1.InverseMass * actual))
	b1.AngularVelocity = b1.AngularVelocity.Add(b1.InverseInertiaWorld.Mul3x1(jw1.Mul(actual)))
	b2.Velocity = b2.Velocity.Add(s.axis.Mul(b2.InverseMass * actual))
	b2.AngularVelocity = b2.AngularVelocity.Add(b2.InverseInertiaWorld.Mul3x1(jw2.Mul(actual)))
	return nil
}
