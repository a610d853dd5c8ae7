package world

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigsim/internal/assembly"
	"github.com/san-kum/rigsim/internal/config"
	"github.com/san-kum/rigsim/internal/engine"
	"github.com/san-kum/rigsim/internal/rig"
)

func boxModel(name string, z float64) *rig.Model {
	return &rig.Model{
		Name:   name,
		Bodies: []rig.Body{{Name: "box", Mass: rig.UnitInertia(1), Pose: rig.Pose{Pos: mgl64.Vec3{0, 0, z}}}},
	}
}

func pendulumModel() *rig.Model {
	return &rig.Model{
		Name: "pendulum",
		Bodies: []rig.Body{{
			Name: "arm",
			Mass: rig.UnitInertia(1),
			Pose: rig.Pose{Pos: mgl64.Vec3{0, 0, 0.5}},
		}},
		Joints: []rig.Joint{{
			Name:      "pivot",
			Type:      rig.JointRevolute,
			Child:     "arm",
			Axis:      mgl64.Vec3{0, 1, 0},
			ChildPose: rig.Pose{Pos: mgl64.Vec3{0, 0, 0.5}},
		}},
	}
}

func groundModel() *rig.Model {
	return &rig.Model{
		Name:   "ground",
		Static: true,
		Bodies: []rig.Body{{
			Name: "surface",
			Collisions: []rig.Collision{
				{Name: "plane", Shape: rig.Shape{Kind: rig.ShapePlane, Normal: mgl64.Vec3{0, 0, 1}}},
			},
		}},
	}
}

func mustWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestStepPublishesPoses(t *testing.T) {
	w := mustWorld(t)
	if err := w.Load(boxModel("crate", 10)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, ok := w.LinkPose("crate", "box")
	if !ok || p.Pos[2] != 10 {
		t.Fatalf("initial pose = %v, %v", p, ok)
	}

	stats, err := w.Step(0.1)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if stats.Substeps != 100 || stats.Time != 0.1 || stats.Bodies != 1 {
		t.Errorf("stats = %+v", stats)
	}

	p, _ = w.LinkPose("crate", "box")
	if p.Pos[2] >= 9.96 || p.Pos[2] <= 9.94 {
		t.Errorf("z(0.1) = %g, want free fall near 9.95", p.Pos[2])
	}
}

func TestStepRepeatedTarget(t *testing.T) {
	w := mustWorld(t)
	if err := w.Load(boxModel("crate", 5)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := w.Step(0.1); err != nil {
		t.Fatalf("Step: %v", err)
	}
	before, _ := w.LinkPose("crate", "box")

	stats, err := w.Step(0.1)
	if err != nil {
		t.Fatalf("repeat Step: %v", err)
	}
	if stats.Substeps != 0 {
		t.Errorf("repeat substeps = %d, want 0", stats.Substeps)
	}
	after, _ := w.LinkPose("crate", "box")
	if after.Pos != before.Pos {
		t.Errorf("pose moved without stepping: %v -> %v", before.Pos, after.Pos)
	}
}

func TestLoadMidRunKeepsMotion(t *testing.T) {
	// Twin worlds: one loads a static model mid-run, one runs undisturbed.
	// The rebuild replays placement and velocity, so both end identically.
	interrupted := mustWorld(t)
	control := mustWorld(t)
	for _, w := range []*World{interrupted, control} {
		if err := w.Load(boxModel("crate", 10)); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if _, err := w.Step(0.2); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if err := interrupted.Load(groundModel()); err != nil {
		t.Fatalf("mid-run Load: %v", err)
	}
	if got := interrupted.Time(); got != 0.2 {
		t.Fatalf("time after load = %g, want 0.2", got)
	}

	for _, w := range []*World{interrupted, control} {
		if _, err := w.Step(0.3); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	a, _ := interrupted.LinkPose("crate", "box")
	b, _ := control.LinkPose("crate", "box")
	if math.Abs(a.Pos[2]-b.Pos[2]) > 1e-12 {
		t.Errorf("mid-run load changed the trajectory: %g vs %g", a.Pos[2], b.Pos[2])
	}

	// The static model published its placement.
	if _, ok := interrupted.LinkPose("ground", "surface"); !ok {
		t.Error("static link not in scene")
	}
}

func TestLoadFailureLeavesWorld(t *testing.T) {
	w := mustWorld(t)
	if err := w.Load(pendulumModel()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	bad := pendulumModel()
	bad.Name = "bad"
	bad.Joints[0].Type = rig.JointUniversal
	if err := w.Load(bad); !errors.Is(err, assembly.ErrUnsupportedJoint) {
		t.Fatalf("bad load = %v, want ErrUnsupportedJoint", err)
	}

	if models := w.Models(); len(models) != 1 || models[0] != "pendulum" {
		t.Errorf("registry after failed load = %v", models)
	}
	if _, err := w.Step(0.01); err != nil {
		t.Errorf("world broken after failed load: %v", err)
	}

	if err := w.Load(pendulumModel()); !errors.Is(err, ErrModelLoaded) {
		t.Errorf("duplicate load = %v, want ErrModelLoaded", err)
	}
}

func TestUnload(t *testing.T) {
	w := mustWorld(t)
	if err := w.Load(boxModel("a", 1)); err != nil {
		t.Fatalf("Load a: %v", err)
	}
	if err := w.Load(boxModel("b", 2)); err != nil {
		t.Fatalf("Load b: %v", err)
	}

	if err := w.Unload("a"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if _, ok := w.LinkPose("a", "box"); ok {
		t.Error("unloaded link still in scene")
	}
	if models := w.Models(); len(models) != 1 || models[0] != "b" {
		t.Errorf("models = %v, want [b]", models)
	}
	if _, err := w.Step(0.05); err != nil {
		t.Errorf("Step after unload: %v", err)
	}
	if err := w.Unload("a"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("double unload = %v, want ErrModelNotFound", err)
	}
}

func TestReset(t *testing.T) {
	w := mustWorld(t)
	if err := w.Load(boxModel("crate", 10)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := w.Step(0.5); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := w.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if w.Time() != 0 {
		t.Errorf("time after reset = %g, want 0", w.Time())
	}
	p, _ := w.LinkPose("crate", "box")
	if p.Pos[2] != 10 {
		t.Errorf("pose after reset = %v, want z=10", p.Pos)
	}
}

func TestJointForceAndState(t *testing.T) {
	w := mustWorld(t, WithGravity(mgl64.Vec3{}))
	if err := w.Load(pendulumModel()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := w.ApplyJointForce("pendulum", "pivot", 0, 1.0); err != nil {
		t.Fatalf("ApplyJointForce: %v", err)
	}
	if _, err := w.Step(0.1); err != nil {
		t.Fatalf("Step: %v", err)
	}
	q, u, err := w.GetJointState("pendulum", "pivot")
	if err != nil {
		t.Fatalf("GetJointState: %v", err)
	}
	if len(q) != 1 || len(u) != 1 || q[0] <= 0 || u[0] <= 0 {
		t.Fatalf("state after torque = %v, %v, want positive", q, u)
	}

	// The force was consumed by the step: with no gravity the speed stays
	// put from here on.
	if _, err := w.Step(0.2); err != nil {
		t.Fatalf("Step: %v", err)
	}
	_, u2, _ := w.GetJointState("pendulum", "pivot")
	if math.Abs(u2[0]-u[0]) > 1e-12 {
		t.Errorf("force persisted across steps: u %g -> %g", u[0], u2[0])
	}

	if _, _, err := w.GetJointState("pendulum", "nope"); !errors.Is(err, ErrUnknownJoint) {
		t.Errorf("unknown joint = %v, want ErrUnknownJoint", err)
	}
}

func TestReversedJointSigns(t *testing.T) {
	m := &rig.Model{
		Name: "rev",
		Bodies: []rig.Body{
			{Name: "a", Mass: rig.UnitInertia(1), Pose: rig.Pose{Pos: mgl64.Vec3{1, 0, 0}}},
			{Name: "b", Mass: rig.UnitInertia(1), Pose: rig.Pose{Pos: mgl64.Vec3{2, 0, 0}}},
		},
		Joints: []rig.Joint{
			{Name: "j1", Type: rig.JointRevolute, Child: "a", Axis: mgl64.Vec3{0, 0, 1}},
			// b is the joint's parent; the tree reaches b through a.
			{Name: "j2", Type: rig.JointRevolute, Parent: "b", Child: "a", Axis: mgl64.Vec3{0, 0, 1}},
		},
	}
	w := mustWorld(t, WithGravity(mgl64.Vec3{}))
	if err := w.Load(m); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A positive joint torque must read back as positive joint motion even
	// though the mobilizer runs child to parent.
	if err := w.ApplyJointForce("rev", "j2", 0, 2.0); err != nil {
		t.Fatalf("ApplyJointForce: %v", err)
	}
	if _, err := w.Step(0.05); err != nil {
		t.Fatalf("Step: %v", err)
	}
	q, u, err := w.GetJointState("rev", "j2")
	if err != nil {
		t.Fatalf("GetJointState: %v", err)
	}
	if q[0] <= 0 || u[0] <= 0 {
		t.Errorf("reversed joint state = q %g, u %g, want positive", q[0], u[0])
	}
}

func TestStepFailurePoisons(t *testing.T) {
	var hookErr error
	w := mustWorld(t, WithHooks(Hooks{OnError: func(err error) { hookErr = err }}))
	if err := w.Load(pendulumModel()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := w.ApplyJointForce("pendulum", "pivot", 0, math.Inf(1)); err != nil {
		t.Fatalf("ApplyJointForce: %v", err)
	}

	_, err := w.Step(0.01)
	if !errors.Is(err, engine.ErrDiverged) {
		t.Fatalf("Step = %v, want ErrDiverged", err)
	}
	var serr *StepError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T, want *StepError", err)
	}
	if hookErr == nil {
		t.Error("OnError hook not fired")
	}

	if _, err := w.Step(0.02); !errors.Is(err, engine.ErrDiverged) {
		t.Errorf("poisoned world accepted a step: %v", err)
	}

	if err := w.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := w.Step(0.01); err != nil {
		t.Errorf("Step after reset: %v", err)
	}
}

func TestRun(t *testing.T) {
	w := mustWorld(t)
	if err := w.Load(boxModel("crate", 3)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var calls int
	err := w.Run(context.Background(), 0.05, 0.01, func(StepStats) { calls++ })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 5 {
		t.Errorf("observer calls = %d, want 5", calls)
	}
	if got := w.Time(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("time after run = %g, want 0.05", got)
	}

	if err := w.Run(context.Background(), 1, 0, nil); err == nil {
		t.Error("zero tick accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls = 0
	err = w.Run(ctx, 10, 0.01, func(StepStats) {
		calls++
		if calls == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled run = %v, want context.Canceled", err)
	}
}

func TestPresetWorlds(t *testing.T) {
	for _, family := range config.ListFamilies() {
		for _, name := range config.ListPresets(family) {
			t.Run(family+"/"+name, func(t *testing.T) {
				cfg := config.GetPreset(family, name)
				w := mustWorld(t, WithGravity(cfg.GravityVec()), WithAccuracy(cfg.Accuracy))
				for _, mc := range cfg.Models {
					m, err := mc.ToModel()
					if err != nil {
						t.Fatalf("ToModel(%s): %v", mc.Name, err)
					}
					if err := w.Load(m); err != nil {
						t.Fatalf("Load(%s): %v", m.Name, err)
					}
				}
				if _, err := w.Step(5 * cfg.Step); err != nil {
					t.Fatalf("Step: %v", err)
				}
			})
		}
	}
}

func TestHooks(t *testing.T) {
	var loaded string
	var steps []StepStats
	w := mustWorld(t, WithHooks(Hooks{
		OnLoad: func(model string, links int) { loaded = model },
		OnStep: func(s StepStats) { steps = append(steps, s) },
	}))
	if err := w.Load(boxModel("crate", 1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != "crate" {
		t.Errorf("OnLoad saw %q", loaded)
	}
	if _, err := w.Step(0.02); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(steps) != 1 || steps[0].Substeps != 20 {
		t.Errorf("OnStep saw %+v", steps)
	}
}
