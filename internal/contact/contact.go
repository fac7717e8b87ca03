// Package contact holds the fixed-capacity contact manifold arena a World
// allocates at its configured contact_count, each contact holding up to
// four points. Broadphase/narrowphase collision detection is out of
// scope: nothing in this module populates the arena, and World.Step does
// not read it.
package contact

import "github.com/san-kum/rbsolve/internal/rigid"

// MaxPoints is the fixed number of contact points a manifold can hold.
const MaxPoints = 4

// Point is one point of a contact manifold: a local anchor on each body,
// a penetration depth, and the normal/friction impulses accumulated
// across solver iterations for warm-starting.
type Point struct {
	LocalAnchor1, LocalAnchor2 rigid.Handle // reserved for shape-local anchors once narrowphase exists
	Penetration                float64
	NormalImpulse              float64
	FrictionImpulse1           float64
	FrictionImpulse2           float64
}

// Manifold is a contact between two bodies along a shared normal, with
// up to MaxPoints contact points.
type Manifold struct {
	Body1, Body2 rigid.Handle
	Normal       [3]float64
	Points       [MaxPoints]Point
	PointCount   int
}

// Arena is the fixed-capacity store of contact manifolds the world owns.
type Arena = rigid.Arena[Manifold]

// NewArena builds a contact manifold arena with the given capacity.
func NewArena(id uint8, capacity int) *Arena {
	return rigid.NewArena[Manifold](id, capacity)
}
