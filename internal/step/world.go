package step

import (
	"github.com/san-kum/rbsolve/internal/config"
	"github.com/san-kum/rbsolve/internal/constraint"
	"github.com/san-kum/rbsolve/internal/contact"
	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/pool"
	"github.com/san-kum/rbsolve/internal/rigid"
)

// arena ids, distinct per fixed-capacity store a World owns.
const (
	arenaBodies           uint8 = 1
	arenaContacts         uint8 = 2
	arenaConstraints      uint8 = 3
	arenaSmallConstraints uint8 = 4
)

// Sleep thresholds feeding Body.UpdateSleep at the end of every step.
const (
	SleepSpeedThreshold = 0.05
	SleepTimeThreshold  = 0.5
)

// World owns every arena the step pipeline reads and writes, plus the
// worker pool solver/relaxation passes run on. rigid.Arena[T]'s T any
// constraint admits interface types, so Constraints and SmallConstraints
// store constraint.Row values directly with no bespoke row arena.
type World struct {
	Bodies           *rigid.Arena[rigid.Body]
	Contacts         *contact.Arena
	Constraints      *rigid.Arena[constraint.Row]
	SmallConstraints *rigid.Arena[constraint.Row]

	Pool *pool.Pool

	Gravity linalg.Vec3
}

// NewWorld builds a world with arenas sized per wc, a gravity vector, and
// a pool running threadCount workers under the given thread model.
func NewWorld(wc config.WorldConfig, gravity linalg.Vec3, threadModel pool.ThreadModel, threadCount int) *World {
	if threadCount < 1 {
		threadCount = 1
	}
	return &World{
		Bodies:           rigid.NewArena[rigid.Body](arenaBodies, wc.BodyCount),
		Contacts:         contact.NewArena(arenaContacts, wc.ContactCount),
		Constraints:      rigid.NewArena[constraint.Row](arenaConstraints, wc.ConstraintCount),
		SmallConstraints: rigid.NewArena[constraint.Row](arenaSmallConstraints, wc.SmallConstraintCount),
		Pool:             pool.New(threadModel, threadCount),
		Gravity:          gravity,
	}
}

// AddBody allocates a body in its active, inert state and returns its
// handle.
func (w *World) AddBody() (rigid.Handle, error) {
	h, err := w.Bodies.Alloc()
	if err != nil {
		return rigid.Handle{}, err
	}
	body, err := w.Bodies.Get(h)
	if err != nil {
		return rigid.Handle{}, err
	}
	*body = rigid.NewBody()
	return h, nil
}

// AddConstraint stores row in the large-constraint arena.
func (w *World) AddConstraint(row constraint.Row) (rigid.Handle, error) {
	h, err := w.Constraints.Alloc()
	if err != nil {
		return rigid.Handle{}, err
	}
	slot, err := w.Constraints.Get(h)
	if err != nil {
		return rigid.Handle{}, err
	}
	*slot = row
	return h, nil
}

// AddSmallConstraint stores row in the small-constraint arena (springs
// and similar per-step hooks).
func (w *World) AddSmallConstraint(row constraint.Row) (rigid.Handle, error) {
	h, err := w.SmallConstraints.Alloc()
	if err != nil {
		return rigid.Handle{}, err
	}
	slot, err := w.SmallConstraints.Get(h)
	if err != nil {
		return rigid.Handle{}, err
	}
	*slot = row
	return h, nil
}

// Close releases the world's pool workers.
func (w *World) Close() {
	w.Pool.Close()
}
