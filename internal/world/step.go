package world

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/rigsim/internal/assembly"
	"github.com/san-kum/rigsim/internal/engine"
)

// StepStats reports what one step did.
type StepStats struct {
	Time     float64
	Substeps int
	Elapsed  time.Duration
	Bodies   int
}

// Hooks are lifecycle callbacks. Nil fields are skipped; callbacks run
// with the world lock held and must not call back into it.
type Hooks struct {
	OnLoad  func(model string, links int)
	OnStep  func(StepStats)
	OnError func(error)
}

// Step advances the simulation to the target time, publishes the resulting
// link poses, and consumes applied forces. A target at or before the
// current time performs zero sub-steps but still publishes. A failed step
// poisons the world until a reset.
func (w *World) Step(target float64) (StepStats, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.broken != nil {
		return StepStats{}, w.broken
	}

	start := time.Now()
	substeps, err := w.integ.StepTo(target)
	if err != nil {
		serr := &StepError{Time: w.integ.Time(), Wrapped: err}
		w.broken = serr
		w.log.Error("step failed", "time", w.integ.Time(), "error", err)
		if w.hooks.OnError != nil {
			w.hooks.OnError(serr)
		}
		return StepStats{}, serr
	}

	w.publishLocked()
	w.forces.ClearAll()

	stats := StepStats{
		Time:     w.integ.Time(),
		Substeps: substeps,
		Elapsed:  time.Since(start),
		Bodies:   w.sys.NumMobods() - 1,
	}
	if w.hooks.OnStep != nil {
		w.hooks.OnStep(stats)
	}
	return stats, nil
}

// publishLocked marks every mobilized master link dirty at its computed
// pose and flushes the batch. Slaves are internal and never reported.
func (w *World) publishLocked() {
	for _, name := range w.order {
		m := w.models[name]
		if m.Static {
			continue
		}
		for i := range m.Bodies {
			b := &m.Bodies[i]
			h, ok := w.asm.Body(name, b.Name)
			if !ok || h.Master == engine.Ground {
				continue
			}
			pose := assembly.ToPose(w.sys.BodyTransform(w.state, h.Master))
			w.scn.MarkDirty(LinkKey(name, b.Name), pose)
		}
	}
	w.scn.Flush()
}

// Run steps the world on a fixed tick until the target time, checking for
// cancellation between steps; a step in progress is never interrupted.
// fn, when non-nil, observes every step.
func (w *World) Run(ctx context.Context, until, tick float64, fn func(StepStats)) error {
	if tick <= 0 {
		return fmt.Errorf("tick must be positive, got %g", tick)
	}
	for {
		t := w.Time()
		if t >= until-1e-12 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		next := t + tick
		if next > until {
			next = until
		}
		stats, err := w.Step(next)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(stats)
		}
	}
}
