package world

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigsim/internal/assembly"
	"github.com/san-kum/rigsim/internal/engine"
	"github.com/san-kum/rigsim/internal/logging"
	"github.com/san-kum/rigsim/internal/rig"
	"github.com/san-kum/rigsim/internal/scene"
)

// World drives one simulation session. All engine access goes through its
// mutex; the scene carries published poses out from under it.
type World struct {
	mu       sync.Mutex
	log      *slog.Logger
	hooks    Hooks
	scn      *scene.Scene
	gravity  mgl64.Vec3
	accuracy float64

	models map[string]*rig.Model
	order  []string

	asm    *assembly.Assembler
	sys    *engine.System
	state  *engine.State
	forces *engine.DiscreteForces
	integ  *engine.Integrator
	broken error
}

type Option func(*World)

func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

func WithHooks(h Hooks) Option {
	return func(w *World) { w.hooks = h }
}

func WithGravity(g mgl64.Vec3) Option {
	return func(w *World) { w.gravity = g }
}

// WithAccuracy sets the integration sub-step size in seconds.
func WithAccuracy(a float64) Option {
	return func(w *World) { w.accuracy = a }
}

// New builds an empty world ready to load models into.
func New(opts ...Option) (*World, error) {
	w := &World{
		log:      logging.NewNop(),
		scn:      scene.New(),
		gravity:  mgl64.Vec3{0, 0, -9.81},
		accuracy: 1e-3,
		models:   make(map[string]*rig.Model),
	}
	for _, o := range opts {
		o(w)
	}
	if err := w.rebuildLocked(false); err != nil {
		return nil, err
	}
	return w, nil
}

// Scene exposes the pose sink readers observe.
func (w *World) Scene() *scene.Scene { return w.scn }

// Time reports the current simulation time.
func (w *World) Time() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.integ.Time()
}

// Models lists loaded model names in load order.
func (w *World) Models() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...)
}

// LinkKey is the scene entity name for a link, scoped by model.
func LinkKey(model, link string) string { return model + "::" + link }

// Load registers a model and swaps in a context containing it. On failure
// the registry and the running context are left as they were.
func (w *World) Load(m *rig.Model) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.models[m.Name]; ok {
		return fmt.Errorf("%w: %q", ErrModelLoaded, m.Name)
	}
	w.models[m.Name] = m
	w.order = append(w.order, m.Name)
	if err := w.rebuildLocked(true); err != nil {
		delete(w.models, m.Name)
		w.order = w.order[:len(w.order)-1]
		w.log.Error("load failed", "model", m.Name, "error", err)
		return err
	}
	w.log.Info("model loaded", "model", m.Name,
		"links", len(m.Bodies), "joints", len(m.Joints), "static", m.Static)
	if w.hooks.OnLoad != nil {
		w.hooks.OnLoad(m.Name, len(m.Bodies))
	}
	return nil
}

// Unload removes a model and swaps in a context without it.
func (w *World) Unload(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.models[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	idx := -1
	for i, n := range w.order {
		if n == name {
			idx = i
			break
		}
	}
	delete(w.models, name)
	w.order = append(w.order[:idx], w.order[idx+1:]...)
	if err := w.rebuildLocked(true); err != nil {
		w.models[name] = m
		w.order = append(w.order[:idx], append([]string{name}, w.order[idx:]...)...)
		return err
	}
	for i := range m.Bodies {
		w.scn.Remove(LinkKey(name, m.Bodies[i].Name))
	}
	w.log.Info("model unloaded", "model", name)
	return nil
}

// Reset rebuilds every model at its configured placement with zeroed
// velocities and moves the clock back to zero.
func (w *World) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.rebuildLocked(false); err != nil {
		return err
	}
	w.log.Info("world reset", "models", len(w.order))
	return nil
}

// rebuildLocked reconstructs the engine context from the registry and
// swaps it in. With preserve set, link placement is carried over through
// the scene's published poses and mobilizer coordinates are replayed onto
// the new context; tree shape is deterministic per model, so the replay is
// exact. Nothing is swapped until every stage has succeeded.
func (w *World) rebuildLocked(preserve bool) error {
	type savedState struct {
		model, link string
		kind        engine.MobilizerKind
		q, u        []float64
	}
	var saved []savedState

	opts := []assembly.Option{assembly.WithLogger(w.log)}
	if preserve && w.asm != nil {
		opts = append(opts, assembly.WithPoseOverride(func(model, link string) (rig.Pose, bool) {
			return w.scn.Pose(LinkKey(model, link))
		}))
		for _, name := range w.order {
			m := w.models[name]
			for i := range m.Bodies {
				h, ok := w.asm.Body(name, m.Bodies[i].Name)
				if !ok || h.Master == engine.Ground {
					continue
				}
				saved = append(saved, savedState{
					model: name,
					link:  m.Bodies[i].Name,
					kind:  w.sys.MobilizerKindOf(h.Master),
					q:     append([]float64(nil), w.sys.MobilizerQ(w.state, h.Master)...),
					u:     append([]float64(nil), w.sys.MobilizerU(w.state, h.Master)...),
				})
			}
		}
	}

	asm := assembly.New(opts...)
	for _, name := range w.order {
		if err := asm.AddModel(w.models[name]); err != nil {
			return err
		}
	}
	st, err := asm.Finish()
	if err != nil {
		return err
	}
	sys := asm.System()
	sys.SetGravity(w.gravity)
	forces, err := engine.NewDiscreteForces(sys)
	if err != nil {
		return err
	}
	integ := engine.NewIntegrator(sys, st, forces)
	integ.SetAccuracy(w.accuracy)
	if preserve && w.integ != nil {
		integ.SetTime(w.integ.Time())
	}

	for _, sv := range saved {
		h, ok := asm.Body(sv.model, sv.link)
		if !ok || h.Master == engine.Ground {
			continue
		}
		if sys.MobilizerKindOf(h.Master) != sv.kind {
			continue
		}
		copy(sys.MobilizerQ(st, h.Master), sv.q)
		copy(sys.MobilizerU(st, h.Master), sv.u)
	}

	w.asm, w.sys, w.state, w.forces, w.integ = asm, sys, st, forces, integ
	w.broken = nil
	w.syncSceneLocked()
	return nil
}

// syncSceneLocked republishes every link at its current pose: forward
// kinematics for mobilized links, the composed placement for static ones.
func (w *World) syncSceneLocked() {
	for _, name := range w.order {
		m := w.models[name]
		for i := range m.Bodies {
			b := &m.Bodies[i]
			h, ok := w.asm.Body(name, b.Name)
			if !ok {
				continue
			}
			if h.Master == engine.Ground {
				w.scn.Add(LinkKey(name, b.Name), m.Pose.Mul(b.Pose))
				continue
			}
			w.scn.Add(LinkKey(name, b.Name), assembly.ToPose(w.sys.BodyTransform(w.state, h.Master)))
		}
	}
}

// GetJointState returns copies of a joint's generalized positions and
// velocities. One-dof joints mirror their sign when the tree mobilizes the
// joint from child to parent; multi-dof kinds report mobilizer coordinates
// as-is.
func (w *World) GetJointState(model, joint string) (q, u []float64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.asm.Joint(model, joint)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownJoint, LinkKey(model, joint))
	}
	q = append([]float64(nil), w.sys.MobilizerQ(w.state, rec.Mobod)...)
	u = append([]float64(nil), w.sys.MobilizerU(w.state, rec.Mobod)...)
	if rec.Reversed {
		switch w.sys.MobilizerKindOf(rec.Mobod) {
		case engine.Pin, engine.Slider:
			q[0], u[0] = -q[0], -u[0]
		}
	}
	return q, u, nil
}

// ApplyJointForce accumulates a generalized force on one degree of freedom
// of a joint, sign-flipped for reversed mobilizers. Forces are one-shot:
// the next completed Step consumes and clears them.
func (w *World) ApplyJointForce(model, joint string, dof int, f float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.asm.Joint(model, joint)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJoint, LinkKey(model, joint))
	}
	if rec.Reversed {
		f = -f
	}
	return w.forces.ApplyMobilityForce(rec.Mobod, dof, f)
}

// LinkPose reads a link's last published pose from the scene.
func (w *World) LinkPose(model, link string) (rig.Pose, bool) {
	return w.scn.Pose(LinkKey(model, link))
}
