package constraint

import (
	"testing"

	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/rigid"
)

func newPlaneScenario(t *testing.T, height float64) (*rigid.Arena[rigid.Body], rigid.Handle, rigid.Handle, *PointOnPlane) {
	t.Helper()
	bodies := rigid.NewArena[rigid.Body](0, 2)

	h1, _ := bodies.Alloc()
	b1, _ := bodies.Get(h1)
	*b1 = rigid.NewBody()
	b1.InverseMass = 0
	b1.RecomputeWorldInertia()

	h2, _ := bodies.Alloc()
	b2, _ := bodies.Get(h2)
	*b2 = rigid.NewBody()
	b2.Position = linalg.Vec3{0, height, 0}
	b2.InverseMass = 1
	b2.InverseInertiaLocal = linalg.Identity3()
	b2.RecomputeWorldInertia()

	row, err := NewPointOnPlane(h1, h2, bodies,
		linalg.Vec3{0, 1, 0}, linalg.Vec3{0, 0, 0}, linalg.Vec3{0, height, 0},
		0, 0.5, 0, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	return bodies, h1, h2, row
}

// TestPointOnPlaneLimitPushesBodyUp checks that after one step at
// dt=1/60 under gravity, the clamped row pushes the body's vertical
// velocity back to non-negative.
func TestPointOnPlaneLimitPushesBodyUp(t *testing.T) {
	bodies, h1, h2, row := newPlaneScenario(t, 0.6)

	const dt = 1.0 / 60
	const invDt = 60.0
	gravity := linalg.Vec3{0, -9.81, 0}

	b1, _ := bodies.Get(h1)
	b2, _ := bodies.Get(h2)
	b1.IntegrateForces(dt, gravity)
	b2.IntegrateForces(dt, gravity)

	if err := row.Prepare(bodies, invDt); err != nil {
		t.Fatal(err)
	}
	if row.Clamp != clampMax {
		t.Fatalf("clamp = %d, want clampMax (body above the 0.5 limit)", row.Clamp)
	}
	for i := 0; i < 10; i++ {
		if err := row.Iterate(bodies, invDt); err != nil {
			t.Fatal(err)
		}
	}

	b2, _ = bodies.Get(h2)
	if b2.Velocity.Y() < 0 {
		t.Fatalf("vertical velocity = %v, want >= 0", b2.Velocity.Y())
	}
}

// TestPointOnPlaneFreeRowContributesNothing checks that clamp == 0 on
// entry means the row writes nothing.
func TestPointOnPlaneFreeRowContributesNothing(t *testing.T) {
	bodies, _, h2, row := newPlaneScenario(t, 0.2)

	b2, _ := bodies.Get(h2)
	b2.Velocity = linalg.Vec3{0, -1, 0}
	before := b2.Velocity

	if err := row.Prepare(bodies, 60); err != nil {
		t.Fatal(err)
	}
	if row.Clamp != clampFree {
		t.Fatalf("clamp = %d, want clampFree (height 0.2 is within [0, 0.5])", row.Clamp)
	}
	if row.AccumulatedImpulse != 0 {
		t.Fatalf("accumulated impulse = %v, want 0", row.AccumulatedImpulse)
	}

	if err := row.Iterate(bodies, 60); err != nil {
		t.Fatal(err)
	}

	b2, _ = bodies.Get(h2)
	if b2.Velocity != before {
		t.Fatalf("free row modified velocity: %v -> %v", before, b2.Velocity)
	}
	if row.AccumulatedImpulse != 0 {
		t.Fatalf("accumulated impulse after iterate = %v, want 0", row.AccumulatedImpulse)
	}
}
