package rigid

import (
	"math"

	"github.com/san-kum/rbsolve/internal/linalg"
)

// Body is the native rigid-body record the step pipeline integrates and
// every constraint row reads and writes. A body with InverseMass == 0 is
// kinematic/static: IntegrateForces and IntegratePosition never change its
// velocity or position, so such a body receives no velocity change from
// any step.
type Body struct {
	Position    linalg.Vec3
	Orientation linalg.Quat

	Velocity        linalg.Vec3
	AngularVelocity linalg.Vec3

	InverseMass float64

	InverseInertiaLocal linalg.Mat3
	InverseInertiaWorld linalg.Mat3

	AccumulatedForce  linalg.Vec3
	AccumulatedTorque linalg.Vec3

	SleepTime float64
	Active    bool
	IslandID  int32
}

// NewBody returns an inert dynamic body: zero velocities, identity
// orientation, active. Callers that want a static/kinematic body set
// InverseMass to 0 (and leave InverseInertiaLocal at its zero value)
// after construction.
func NewBody() Body {
	return Body{
		Orientation: linalg.IdentityQuat(),
		InverseMass: 1,
		Active:      true,
	}
}

// IsStatic reports whether the body has zero inverse mass.
func (b *Body) IsStatic() bool {
	return b.InverseMass == 0
}

// IntegrateForces applies accumulated force/torque and gravity to the
// body's velocities (step pipeline stage 1) and clears the accumulators.
// Static bodies are left untouched.
func (b *Body) IntegrateForces(dt float64, gravity linalg.Vec3) {
	if b.IsStatic() {
		b.AccumulatedForce = linalg.Vec3{}
		b.AccumulatedTorque = linalg.Vec3{}
		return
	}

	b.Velocity = b.Velocity.Add(gravity.Mul(dt)).Add(b.AccumulatedForce.Mul(dt * b.InverseMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.InverseInertiaWorld.Mul3x1(b.AccumulatedTorque).Mul(dt))

	b.AccumulatedForce = linalg.Vec3{}
	b.AccumulatedTorque = linalg.Vec3{}
}

// AddForce accumulates a world-space force applied at the center of mass.
func (b *Body) AddForce(f linalg.Vec3) {
	b.AccumulatedForce = b.AccumulatedForce.Add(f)
}

// AddTorque accumulates a world-space torque.
func (b *Body) AddTorque(t linalg.Vec3) {
	b.AccumulatedTorque = b.AccumulatedTorque.Add(t)
}

// IntegratePosition advances position and orientation from the current
// velocities (step pipeline stage 4), then renormalizes the orientation
// and recomputes the world-space inverse inertia tensor consumed by the
// next frame's constraint preparation.
func (b *Body) IntegratePosition(dt float64) {
	if b.IsStatic() {
		return
	}

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	omega := linalg.Quat{W: 0, V: b.AngularVelocity}
	qDot := omega.Mul(b.Orientation).Scale(0.5)
	b.Orientation = b.Orientation.Add(qDot.Scale(dt))
	b.NormalizeOrientation()
	b.RecomputeWorldInertia()
}

// NormalizeOrientation renormalizes the orientation quaternion to unit
// length. Idempotent: calling it twice in a row leaves the quaternion
// unchanged beyond rounding.
func (b *Body) NormalizeOrientation() {
	b.Orientation = b.Orientation.Normalize()
}

// RecomputeWorldInertia recomputes InverseInertiaWorld = R * I^-1_local *
// R^T from the current orientation. Static bodies get the zero matrix, so
// constraint rows that blindly multiply by it never inject energy into a
// static body.
func (b *Body) RecomputeWorldInertia() {
	if b.IsStatic() {
		b.InverseInertiaWorld = linalg.Mat3{}
		return
	}
	r := linalg.RotationMatrix(b.Orientation)
	b.InverseInertiaWorld = r.Mul3(b.InverseInertiaLocal).Mul3(r.Transpose())
}

// UpdateSleep advances the body's sleep timer given its current speed and
// puts it to sleep (Active = false, velocities zeroed) once it has stayed
// below the threshold speed for at least timeThreshold seconds. A static
// body (InverseMass == 0) is marked inactive on the first call. Returns
// whether the body is active after the update.
func (b *Body) UpdateSleep(dt, speedThreshold, timeThreshold float64) bool {
	if b.IsStatic() {
		b.Active = false
		return false
	}

	speed := b.Velocity.Len() + b.AngularVelocity.Len()
	if speed < speedThreshold {
		b.SleepTime += dt
		if b.SleepTime >= timeThreshold {
			b.Active = false
			b.Velocity = linalg.Vec3{}
			b.AngularVelocity = linalg.Vec3{}
		}
	} else {
		b.SleepTime = 0
		b.Active = true
	}
	return b.Active
}

// Wake resets the sleep timer and marks the body active.
func (b *Body) Wake() {
	b.SleepTime = 0
	b.Active = true
}

// OrientationNorm reports ||orientation|| for tests asserting the
// unit-quaternion invariant, ||orientation|| = 1 +/- 1e-6.
func (b *Body) OrientationNorm() float64 {
	q := b.Orientation
	return math.Sqrt(q.W*q.W + q.V.X()*q.V.X() + q.V.Y()*q.V.Y() + q.V.Z()*q.V.Z())
}
