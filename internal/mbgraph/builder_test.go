package mbgraph

import (
	"errors"
	"math"
	"testing"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	if err := b.AddJointType("revolute", 1, false); err != nil {
		t.Fatalf("AddJointType: %v", err)
	}
	if err := b.AddJointType("prismatic", 1, false); err != nil {
		t.Fatalf("AddJointType: %v", err)
	}
	if err := b.AddJointType("ball", 3, false); err != nil {
		t.Fatalf("AddJointType: %v", err)
	}
	if err := b.AddBody("world", math.Inf(1), false); err != nil {
		t.Fatalf("AddBody(world): %v", err)
	}
	return b
}

func mustAddBody(t *testing.T, b *Builder, name string) {
	t.Helper()
	if err := b.AddBody(name, 1.0, false); err != nil {
		t.Fatalf("AddBody(%s): %v", name, err)
	}
}

func mustAddJoint(t *testing.T, b *Builder, name, typ, parent, child string) {
	t.Helper()
	if err := b.AddJoint(name, typ, parent, child, false); err != nil {
		t.Fatalf("AddJoint(%s): %v", name, err)
	}
}

// checkTreeOrder verifies that every mobilizer's inboard body was already
// mobilized (or is the ground) by the time it appears.
func checkTreeOrder(t *testing.T, g *Graph) {
	t.Helper()
	mobilized := map[string]bool{"world": true}
	for i, m := range g.Mobilizers {
		if !mobilized[m.Inboard] {
			t.Errorf("mobilizer %d (%s): inboard %q not yet mobilized", i, m.JointName, m.Inboard)
		}
		mobilized[m.Outboard] = true
	}
}

func TestBuildFreeFloatingPair(t *testing.T) {
	// Two bodies joined by one revolute joint, nothing attached to the
	// world: one added free base plus one revolute, no loops.
	b := newTestBuilder(t)
	mustAddBody(t, b, "upper")
	mustAddBody(t, b, "lower")
	mustAddJoint(t, b, "elbow", "revolute", "upper", "lower")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Mobilizers) != 2 {
		t.Fatalf("got %d mobilizers, want 2", len(g.Mobilizers))
	}
	if len(g.LoopConstraints) != 0 {
		t.Fatalf("got %d loop constraints, want 0", len(g.LoopConstraints))
	}

	base := g.Mobilizers[0]
	if !base.IsAddedBase || base.TypeName != FreeType || base.Inboard != "world" {
		t.Errorf("first mobilizer should be an added free base, got %+v", base)
	}
	elbow := g.Mobilizers[1]
	if elbow.JointName != "elbow" || elbow.TypeName != "revolute" || elbow.IsSlave {
		t.Errorf("second mobilizer should be the revolute joint, got %+v", elbow)
	}
	checkTreeOrder(t, g)
}

func TestBuildClosedRing(t *testing.T) {
	// world, a, b joined in a ring by three revolutes: three mobilizers,
	// one of them a slave, and one weld loop constraint.
	b := newTestBuilder(t)
	mustAddBody(t, b, "a")
	mustAddBody(t, b, "b")
	mustAddJoint(t, b, "j1", "revolute", "world", "a")
	mustAddJoint(t, b, "j2", "revolute", "a", "b")
	mustAddJoint(t, b, "j3", "revolute", "b", "world")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Mobilizers) != 3 {
		t.Fatalf("got %d mobilizers, want 3", len(g.Mobilizers))
	}
	if len(g.LoopConstraints) != 1 {
		t.Fatalf("got %d loop constraints, want 1", len(g.LoopConstraints))
	}

	var slaves int
	for _, m := range g.Mobilizers {
		if m.IsAddedBase {
			t.Errorf("ring fixed to world should not add a base, got %+v", m)
		}
		if m.IsSlave {
			slaves++
			if m.OutboardBody() != m.Master {
				t.Errorf("slave OutboardBody() = %q, want master %q", m.OutboardBody(), m.Master)
			}
		}
	}
	if slaves != 1 {
		t.Errorf("got %d slave mobilizers, want 1", slaves)
	}

	lc := g.LoopConstraints[0]
	if lc.TypeName != WeldType {
		t.Errorf("loop constraint type = %q, want weld", lc.TypeName)
	}
	if g.Fragments(lc.Master) != 2 {
		t.Errorf("Fragments(%s) = %d, want 2", lc.Master, g.Fragments(lc.Master))
	}
	checkTreeOrder(t, g)
}

func TestBuildFloatingRing(t *testing.T) {
	// Three bodies in a free-floating ring: an added base, two tree
	// joints, one slave. Mobilizers = joints + added bases.
	b := newTestBuilder(t)
	for _, n := range []string{"a", "b", "c"} {
		mustAddBody(t, b, n)
	}
	mustAddJoint(t, b, "j1", "revolute", "a", "b")
	mustAddJoint(t, b, "j2", "revolute", "b", "c")
	mustAddJoint(t, b, "j3", "revolute", "c", "a")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if want := 3 + 1; len(g.Mobilizers) != want {
		t.Fatalf("got %d mobilizers, want %d", len(g.Mobilizers), want)
	}
	if len(g.LoopConstraints) != 1 {
		t.Fatalf("got %d loop constraints, want 1", len(g.LoopConstraints))
	}
	checkTreeOrder(t, g)
}

func TestBuildReversedTreeJoint(t *testing.T) {
	// j declares body as parent and world as child, so the tree walks it
	// against joint direction.
	b := newTestBuilder(t)
	mustAddBody(t, b, "arm")
	mustAddJoint(t, b, "anchor", "revolute", "arm", "world")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Mobilizers) != 1 {
		t.Fatalf("got %d mobilizers, want 1", len(g.Mobilizers))
	}
	m := g.Mobilizers[0]
	if !m.IsReversed {
		t.Error("tree joint walked child-to-parent should be reversed")
	}
	if m.Inboard != "world" || m.Outboard != "arm" {
		t.Errorf("mobilizer runs %s -> %s, want world -> arm", m.Inboard, m.Outboard)
	}
}

func TestBuildMustBreak(t *testing.T) {
	// A forced break on the only joint: the body still gets a base, the
	// joint mobilizes a slave, and a weld closes the pair.
	b := newTestBuilder(t)
	mustAddBody(t, b, "door")
	if err := b.AddJoint("hinge", "revolute", "world", "door", true); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Mobilizers) != 2 {
		t.Fatalf("got %d mobilizers, want 2", len(g.Mobilizers))
	}
	if !g.Mobilizers[0].IsAddedBase {
		t.Errorf("first mobilizer should be the added base, got %+v", g.Mobilizers[0])
	}
	sl := g.Mobilizers[1]
	if !sl.IsSlave || sl.Master != "door" || sl.JointName != "hinge" {
		t.Errorf("second mobilizer should be a slave of door, got %+v", sl)
	}
	if len(g.LoopConstraints) != 1 {
		t.Fatalf("got %d loop constraints, want 1", len(g.LoopConstraints))
	}
	checkTreeOrder(t, g)
}

func TestBuildGoodLoopJoint(t *testing.T) {
	// A type with a usable loop constraint closes the cycle directly,
	// without splitting a body.
	b := newTestBuilder(t)
	if err := b.AddJointType("gimbal", 3, true); err != nil {
		t.Fatalf("AddJointType: %v", err)
	}
	mustAddBody(t, b, "a")
	mustAddJoint(t, b, "j1", "revolute", "world", "a")
	if err := b.AddJoint("j2", "gimbal", "a", "world", true); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(g.Mobilizers) != 1 {
		t.Fatalf("got %d mobilizers, want 1", len(g.Mobilizers))
	}
	if len(g.LoopConstraints) != 1 {
		t.Fatalf("got %d loop constraints, want 1", len(g.LoopConstraints))
	}
	lc := g.LoopConstraints[0]
	if lc.TypeName != "gimbal" {
		t.Errorf("loop constraint type = %q, want gimbal", lc.TypeName)
	}
	if g.Fragments("a") != 1 {
		t.Errorf("Fragments(a) = %d, want 1 (no split)", g.Fragments("a"))
	}
}

func TestBuildCountingInvariant(t *testing.T) {
	// Mobilizers = joints + added bases; loop constraints = independent
	// cycles. Checked over a mixed topology: a four-bar fixed to the
	// world plus a floating pair.
	b := newTestBuilder(t)
	for _, n := range []string{"l1", "l2", "l3", "f1", "f2"} {
		mustAddBody(t, b, n)
	}
	mustAddJoint(t, b, "j1", "revolute", "world", "l1")
	mustAddJoint(t, b, "j2", "revolute", "l1", "l2")
	mustAddJoint(t, b, "j3", "revolute", "l2", "l3")
	mustAddJoint(t, b, "j4", "revolute", "l3", "world")
	mustAddJoint(t, b, "j5", "prismatic", "f1", "f2")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	joints, bases := 5, 1
	if len(g.Mobilizers) != joints+bases {
		t.Errorf("got %d mobilizers, want %d", len(g.Mobilizers), joints+bases)
	}
	// 6 bodies + world = 7 nodes, 5 joints + 1 base = 6 edges, 1 component
	// after basing: cycles = 6 - (7 - 1) = ... the four-bar contributes
	// exactly one.
	if len(g.LoopConstraints) != 1 {
		t.Errorf("got %d loop constraints, want 1", len(g.LoopConstraints))
	}
	checkTreeOrder(t, g)
}

func TestBuildDeterministic(t *testing.T) {
	build := func() *Graph {
		b := newTestBuilder(t)
		for _, n := range []string{"a", "b", "c"} {
			mustAddBody(t, b, n)
		}
		mustAddJoint(t, b, "j1", "revolute", "world", "a")
		mustAddJoint(t, b, "j2", "revolute", "a", "b")
		mustAddJoint(t, b, "j3", "revolute", "b", "c")
		mustAddJoint(t, b, "j4", "revolute", "c", "a")
		g, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return g
	}

	g1, g2 := build(), build()
	if len(g1.Mobilizers) != len(g2.Mobilizers) {
		t.Fatalf("mobilizer counts differ: %d vs %d", len(g1.Mobilizers), len(g2.Mobilizers))
	}
	for i := range g1.Mobilizers {
		if g1.Mobilizers[i] != g2.Mobilizers[i] {
			t.Errorf("mobilizer %d differs: %+v vs %+v", i, g1.Mobilizers[i], g2.Mobilizers[i])
		}
	}
}

func TestBuildMustBeBasePreferred(t *testing.T) {
	b := newTestBuilder(t)
	mustAddBody(t, b, "chassis")
	if err := b.AddBody("sensor_mount", 1.0, true); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	mustAddJoint(t, b, "mount", "revolute", "chassis", "sensor_mount")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Mobilizers[0].Outboard != "sensor_mount" {
		t.Errorf("base body = %q, want the must-be-base body", g.Mobilizers[0].Outboard)
	}
	if !g.Mobilizers[1].IsReversed {
		t.Error("mount joint walked child-to-parent should be reversed")
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(b *Builder) error
		wantErr error
	}{
		{
			"unknown joint type",
			func(b *Builder) error {
				return b.AddJoint("j", "gimbal", "world", "a", false)
			},
			ErrUnknownJointType,
		},
		{
			"unknown parent body",
			func(b *Builder) error {
				return b.AddJoint("j", "revolute", "ghost", "a", false)
			},
			ErrUnknownBody,
		},
		{
			"unknown child body",
			func(b *Builder) error {
				return b.AddJoint("j", "revolute", "world", "ghost", false)
			},
			ErrUnknownBody,
		},
		{
			"self joint",
			func(b *Builder) error {
				return b.AddJoint("j", "revolute", "a", "a", false)
			},
			ErrSelfJoint,
		},
		{
			"duplicate body",
			func(b *Builder) error {
				return b.AddBody("a", 2.0, false)
			},
			ErrDuplicate,
		},
		{
			"duplicate joint type",
			func(b *Builder) error {
				return b.AddJointType("revolute", 1, false)
			},
			ErrDuplicate,
		},
		{
			"second ground",
			func(b *Builder) error {
				return b.AddBody("world2", math.Inf(1), false)
			},
			ErrMultipleGrounds,
		},
		{
			"reserved body name",
			func(b *Builder) error {
				return b.AddBody("#shadow", 1.0, false)
			},
			ErrReservedName,
		},
		{
			"reserved joint name",
			func(b *Builder) error {
				return b.AddJoint("#j", "revolute", "world", "a", false)
			},
			ErrReservedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(t)
			mustAddBody(t, b, "a")
			if err := tt.setup(b); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("build without ground", func(t *testing.T) {
		b := NewBuilder()
		if err := b.AddBody("a", 1.0, false); err != nil {
			t.Fatalf("AddBody: %v", err)
		}
		if _, err := b.Build(); !errors.Is(err, ErrNoGround) {
			t.Errorf("Build = %v, want ErrNoGround", err)
		}
	})

	t.Run("empty parent without ground", func(t *testing.T) {
		b := NewBuilder()
		if err := b.AddJointType("revolute", 1, false); err != nil {
			t.Fatalf("AddJointType: %v", err)
		}
		if err := b.AddBody("a", 1.0, false); err != nil {
			t.Fatalf("AddBody: %v", err)
		}
		if err := b.AddJoint("j", "revolute", "", "a", false); !errors.Is(err, ErrNoGround) {
			t.Errorf("AddJoint = %v, want ErrNoGround", err)
		}
	})

	t.Run("empty parent resolves to ground", func(t *testing.T) {
		b := newTestBuilder(t)
		mustAddBody(t, b, "a")
		if err := b.AddJoint("root", "revolute", "", "a", false); err != nil {
			t.Fatalf("AddJoint: %v", err)
		}
		g, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if g.Mobilizers[0].Inboard != "world" {
			t.Errorf("inboard = %q, want world", g.Mobilizers[0].Inboard)
		}
	})
}
