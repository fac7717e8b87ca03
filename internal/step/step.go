package step

import (
	"fmt"

	"github.com/san-kum/rbsolve/internal/config"
	"github.com/san-kum/rbsolve/internal/constraint"
	"github.com/san-kum/rbsolve/internal/rigid"
)

// Step advances the world by dt, honouring cfg's substep count and
// solver/relaxation pass counts, following a six-stage pipeline once per
// substep:
//
//  1. integrate velocities (full dt, not the substep size: force/gravity
//     integration uses dt even inside the substep loop, while position
//     integration uses the substep size)
//  2. prepare every constraint row
//  3. solver loop: n_solver iterate passes
//  4. integrate positions (substep size sdt)
//  5. relaxation loop: n_relax iterate passes, no re-prepare
//
// Sleep-state update (stage 6) runs once after the substep loop, not
// once per substep, matching "at the end of the step" rather than a
// per-substep update.
func (w *World) Step(dt float64, multiThread bool, cfg config.StepConfig) error {
	if dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", rigid.ErrInvalidArgument, dt)
	}
	if cfg.SubstepCount < 1 {
		return fmt.Errorf("%w: substep_count must be >= 1, got %d", rigid.ErrInvalidArgument, cfg.SubstepCount)
	}

	sdt := dt / float64(cfg.SubstepCount)
	invSdt := 1 / sdt

	for substep := 0; substep < cfg.SubstepCount; substep++ {
		w.integrateVelocities(dt)

		large := w.Constraints.IterActive()
		small := w.SmallConstraints.IterActive()

		if err := prepareRows(large, w.Bodies, invSdt); err != nil {
			return &StepError{Stage: "prepare", Err: err}
		}
		if err := prepareRows(small, w.Bodies, invSdt); err != nil {
			return &StepError{Stage: "prepare", Err: err}
		}

		largeClasses := colorRows(large)
		smallClasses := colorRows(small)

		for pass := 0; pass < cfg.SolverIterations.Solver; pass++ {
			if err := w.iterateRows(large, largeClasses, invSdt, multiThread); err != nil {
				return &StepError{Stage: "solve", Err: err}
			}
			if err := w.iterateRows(small, smallClasses, invSdt, multiThread); err != nil {
				return &StepError{Stage: "solve", Err: err}
			}
		}

		w.integratePositions(sdt)

		for pass := 0; pass < cfg.SolverIterations.Relax; pass++ {
			if err := w.iterateRows(large, largeClasses, invSdt, multiThread); err != nil {
				return &StepError{Stage: "relax", Err: err}
			}
			if err := w.iterateRows(small, smallClasses, invSdt, multiThread); err != nil {
				return &StepError{Stage: "relax", Err: err}
			}
		}
	}

	w.updateSleepStates(dt)
	return nil
}

func (w *World) integrateVelocities(dt float64) {
	bodies := w.Bodies.IterActive()
	for i := range bodies {
		b := &bodies[i]
		if !b.Active {
			continue
		}
		b.IntegrateForces(dt, w.Gravity)
	}
}

func (w *World) integratePositions(sdt float64) {
	bodies := w.Bodies.IterActive()
	for i := range bodies {
		b := &bodies[i]
		if !b.Active {
			continue
		}
		b.IntegratePosition(sdt)
	}
}

func (w *World) updateSleepStates(dt float64) {
	bodies := w.Bodies.IterActive()
	for i := range bodies {
		bodies[i].UpdateSleep(dt, SleepSpeedThreshold, SleepTimeThreshold)
	}
}

func prepareRows(rows []constraint.Row, bodies *rigid.Arena[rigid.Body], invDt float64) error {
	for _, r := range rows {
		if err := r.Prepare(bodies, invDt); err != nil {
			return err
		}
	}
	return nil
}

// iterateRows runs one iterate pass over rows. Single-threaded mode walks
// rows in arena order; multi-threaded mode dispatches each colour class
// to the pool and waits for it to drain before moving to the next colour
// (Gauss-Seidel within a colour via pool worker assignment, Jacobi across
// colours since a colour boundary is a full pool barrier).
func (w *World) iterateRows(rows []constraint.Row, classes [][]int, invDt float64, multiThread bool) error {
	if !multiThread || len(rows) == 0 {
		for _, r := range rows {
			if err := r.Iterate(w.Bodies, invDt); err != nil {
				return err
			}
		}
		return nil
	}

	for _, class := range classes {
		for _, idx := range class {
			r := rows[idx]
			w.Pool.AddTask(func() error { return r.Iterate(w.Bodies, invDt) })
		}
		if err := w.Pool.Execute(); err != nil {
			return err
		}
	}
	return nil
}
