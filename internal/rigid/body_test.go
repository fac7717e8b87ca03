package rigid

import (
	"math"
	"testing"

	"github.com/san-kum/rbsolve/internal/linalg"
)

func TestStaticBodyNeverMoves(t *testing.T) {
	b := NewBody()
	b.InverseMass = 0
	b.AddForce(linalg.Vec3{0, 100, 0})
	b.AddTorque(linalg.Vec3{10, 0, 0})

	b.IntegrateForces(1.0/60, linalg.Vec3{0, -9.81, 0})
	if b.Velocity != (linalg.Vec3{}) {
		t.Fatalf("static body velocity = %v, want zero", b.Velocity)
	}

	b.IntegratePosition(1.0 / 60)
	if b.Position != (linalg.Vec3{}) {
		t.Fatalf("static body moved to %v", b.Position)
	}
	if b.AngularVelocity != (linalg.Vec3{}) {
		t.Fatalf("static body angular velocity = %v, want zero", b.AngularVelocity)
	}
}

func TestOrientationStaysUnitAfterIntegration(t *testing.T) {
	b := NewBody()
	b.InverseInertiaLocal = linalg.Identity3()
	b.AngularVelocity = linalg.Vec3{1, 2, 3}

	for i := 0; i < 120; i++ {
		b.IntegratePosition(1.0 / 60)
	}

	if math.Abs(b.OrientationNorm()-1) > 1e-6 {
		t.Fatalf("||orientation|| = %v, want 1 +/- 1e-6", b.OrientationNorm())
	}
}

func TestNormalizeOrientationIdempotent(t *testing.T) {
	b := NewBody()
	b.Orientation = linalg.Quat{W: 2, V: linalg.Vec3{1, 1, 1}}
	b.NormalizeOrientation()
	first := b.Orientation
	b.NormalizeOrientation()
	second := b.Orientation

	if math.Abs(first.W-second.W) > 1e-12 ||
		first.V.Sub(second.V).Len() > 1e-12 {
		t.Fatalf("normalize not idempotent: %v vs %v", first, second)
	}
}

func TestUpdateSleepTransitionsAfterThreshold(t *testing.T) {
	b := NewBody()
	b.Velocity = linalg.Vec3{0.0001, 0, 0}

	const dt = 1.0 / 60
	const timeThreshold = 0.1
	for i := 0; i < 5; i++ {
		if !b.UpdateSleep(dt, 0.01, timeThreshold) {
			t.Fatalf("body slept too early at step %d", i)
		}
	}
	for i := 0; i < 10; i++ {
		b.UpdateSleep(dt, 0.01, timeThreshold)
	}
	if b.Active {
		t.Fatal("body never went to sleep")
	}
	if b.Velocity != (linalg.Vec3{}) {
		t.Fatalf("sleeping body velocity = %v, want zero", b.Velocity)
	}
}
