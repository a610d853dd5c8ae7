package assembly

import (
	"fmt"
	"math"

	"github.com/san-kum/rigsim/internal/mbgraph"
	"github.com/san-kum/rigsim/internal/rig"
)

// worldName is the graph node standing in for the immovable environment.
// Model links cannot use it; validation only admits joints that name a
// declared link or leave the parent empty.
const worldName = "world"

// graphType maps a joint type to its multibody-graph name. Fixed joints
// ride on the built-in weld type; everything else keeps its own name.
func graphType(t rig.JointType) string {
	if t == rig.JointFixed {
		return mbgraph.WeldType
	}
	return t.String()
}

// BuildGraph derives the spanning-tree topology for one dynamic model. The
// weld and free types are built in; every further connector type is
// registered here so the graph accepts any validated model, even when a
// later assembly step has no mobilizer for it.
func BuildGraph(m *rig.Model) (*mbgraph.Graph, error) {
	b := mbgraph.NewBuilder()
	for _, t := range []rig.JointType{
		rig.JointRevolute, rig.JointRevolute2, rig.JointPrismatic,
		rig.JointUniversal, rig.JointBall, rig.JointScrew,
	} {
		if err := b.AddJointType(t.String(), t.DOF(), false); err != nil {
			return nil, err
		}
	}
	if err := b.AddBody(worldName, math.Inf(1), false); err != nil {
		return nil, err
	}
	for i := range m.Bodies {
		bd := &m.Bodies[i]
		if err := b.AddBody(bd.Name, bd.Mass.Mass, bd.MustBeBase); err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
	}
	for i := range m.Joints {
		j := &m.Joints[i]
		if err := b.AddJoint(j.Name, graphType(j.Type), j.Parent, j.Child, j.MustBreakLoop); err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
	}
	return b.Build()
}
