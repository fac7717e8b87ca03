package constraint

import (
	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/rigid"
)

// PointOnPlane is a point-on-plane constraint row: it constrains an
// anchor point on body 2 to lie within a linear distance range of a
// plane fixed to body 1, along an axis fixed in body 1's frame.
type PointOnPlane struct {
	Header

	axis linalg.Vec3 // local axis, body-1 frame
	r1   linalg.Vec3 // local anchor, body-1 frame
	r2   linalg.Vec3 // local anchor, body-2 frame

	Min, Max float64
	Softness float64
	BiasFactor float64

	jv1, jw1, jv2, jw2 linalg.Vec3
	effectiveMass      float64
	bias               float64
	AccumulatedImpulse float64
	Clamp              int
	skip               bool
}

// NewPointOnPlane builds a point-on-plane row. axisWorld, anchor1World and
// anchor2World are resolved to body-local frames at construction time.
func NewPointOnPlane(
	body1, body2 rigid.Handle,
	bodies *rigid.Arena[rigid.Body],
	axisWorld, anchor1World, anchor2World linalg.Vec3,
	min, max, softness, biasFactor float64,
) (*PointOnPlane, error) {
	b1, err := bodies.Get(body1)
	if err != nil {
		return nil, err
	}
	b2, err := bodies.Get(body2)
	if err != nil {
		return nil, err
	}

	axis := b1.Orientation.Inverse().Rotate(axisWorld.Normalize())
	r1 := b1.Orientation.Inverse().Rotate(anchor1World.Sub(b1.Position))
	r2 := b2.Orientation.Inverse().Rotate(anchor2World.Sub(b2.Position))

	return &PointOnPlane{
		Header:     Header{Body1: body1, Body2: body2},
		axis:       axis,
		r1:         r1,
		r2:         r2,
		Min:        min,
		Max:        max,
		Softness:   softness,
		BiasFactor: biasFactor,
	}, nil
}

// Prepare computes the row's Jacobian and effective mass from the two
// bodies' current anchors, classifies the plane-distance error against
// (Min, Max), and warm starts by reapplying the accumulated impulse.
func (c *PointOnPlane) Prepare(bodies *rigid.Arena[rigid.Body], invDt float64) error {
	b1, err := bodies.Get(c.Body1)
	if err != nil {
		return err
	}
	b2, err := bodies.Get(c.Body2)
	if err != nil {
		return err
	}

	axisWorld := b1.Orientation.Rotate(c.axis)
	r1World := b1.Orientation.Rotate(c.r1)
	r2World := b2.Orientation.Rotate(c.r2)
	p1 := b1.Position.Add(r1World)
	p2 := b2.Position.Add(r2World)
	u := p2.Sub(p1)

	c.jv1 = axisWorld.Mul(-1)
	c.jw1 = r1World.Add(u).Cross(axisWorld).Mul(-1)
	c.jv2 = axisWorld
	c.jw2 = r2World.Cross(axisWorld)

	errVal := u.Dot(axisWorld)
	code, shifted := clampLimit(errVal, c.Min, c.Max)
	c.Clamp = code

	if code == clampFree {
		c.AccumulatedImpulse = 0
		c.skip = true
		return nil
	}
	c.skip = false

	invMassSum := b1.InverseMass + b2.InverseMass
	angular1 := b1.InverseInertiaWorld.Mul3x1(c.jw1).Dot(c.jw1)
	angular2 := b2.InverseInertiaWorld.Mul3x1(c.jw2).Dot(c.jw2)
	k := invMassSum + angular1 + angular2 + c.Softness*invDt
	if k == 0 {
		c.effectiveMass = 0
	} else {
		c.effectiveMass = 1 / k
	}

	c.bias = shifted * c.BiasFactor * invDt

	impulse := c.AccumulatedImpulse
	b1.Velocity = b1.Velocity.Add(c.jv1.Mul(b1.InverseMass * impulse))
	b1.AngularVelocity = b1.AngularVelocity.Add(b1.InverseInertiaWorld.Mul3x1(c.jw1.Mul(impulse)))
	b2.Velocity = b2.Velocity.Add(c.jv2.Mul(b2.InverseMass * impulse))
	b2.AngularVelocity = b2.AngularVelocity.Add(b2.InverseInertiaWorld.Mul3x1(c.jw2.Mul(impulse)))
	return nil
}

// Iterate is the scalar analogue of the hinge iterate, with clamp == 1
// clamping to <= 0 and clamp == 2 to >= 0. A row that skipped limit
// activation in Prepare applies nothing here.
func (c *PointOnPlane) Iterate(bodies *rigid.Arena[rigid.Body], invDt float64) error {
	if c.skip {
		return nil
	}

	b1, err := bodies.Get(c.Body1)
	if err != nil {
		return err
	}
	b2, err := bodies.Get(c.Body2)
	if err != nil {
		return err
	}

	jv := c.jv1.Dot(b1.Velocity) + c.jw1.Dot(b1.AngularVelocity) +
		c.jv2.Dot(b2.Velocity) + c.jw2.Dot(b2.AngularVelocity)

	softnessTerm := c.AccumulatedImpulse * invDt * c.Softness
	lambda := -c.effectiveMass * (jv + c.bias + softnessTerm)

	old := c.AccumulatedImpulse
	next := old + lambda
	switch c.Clamp {
	case clampMax:
		if next > 0 {
			next = 0
		}
	case clampMin:
		if next < 0 {
			next = 0
		}
	}
	c.AccumulatedImpulse = next

	actual := next - old
	b1.Velocity = b1.Velocity.Add(c.jv1.Mul(b1.InverseMass * actual))
	b1.AngularVelocity = b1.AngularVelocity.Add(b1.InverseInertiaWorld.Mul3x1(c.jw1.Mul(actual)))
	b2.Velocity = b2.Velocity.Add(c.jv2.Mul(b2.InverseMass * actual))
	b2.AngularVelocity = b2.AngularVelocity.Add(b2.InverseInertiaWorld.Mul3x1(c.jw2.Mul(actual)))
	return nil
}
