package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// State holds the generalized positions and speeds for one realized
// system. The integrator is the only writer; everything else reads derived
// quantities through the System query methods.
type State struct {
	Q []float64
	U []float64
}

func (st *State) IsFinite() bool {
	for _, v := range st.Q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range st.U {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// motion returns X_FM(q), the variable transform across the mobilizer in
// the joint's own sense. Reversed mobilizers contribute the inverse: the
// tree walks them against their defined direction.
func (m *mobod) motion(st *State) Transform {
	var x Transform
	q := st.Q[m.qStart : m.qStart+m.kind.qLen()]
	switch m.kind {
	case Weld:
		x = Identity()
	case Pin:
		x = Transform{Rot: mgl64.QuatRotate(q[0], mgl64.Vec3{0, 0, 1})}
	case Slider:
		x = Transform{Rot: mgl64.QuatIdent(), Pos: mgl64.Vec3{q[0], 0, 0}}
	case Ball:
		x = Transform{Rot: quatOf(q).Normalize()}
	case Free:
		x = Transform{
			Rot: quatOf(q).Normalize(),
			Pos: mgl64.Vec3{q[4], q[5], q[6]},
		}
	}
	if m.reversed {
		return x.Inverse()
	}
	return x
}

func quatOf(q []float64) mgl64.Quat {
	return mgl64.Quat{W: q[0], V: mgl64.Vec3{q[1], q[2], q[3]}}
}

// BodyTransform computes the body frame's world pose from the state.
func (s *System) BodyTransform(st *State, id MobodID) Transform {
	if id == Ground {
		return Identity()
	}
	m := &s.mobods[id]
	parent := s.BodyTransform(st, m.parent)
	// X_GB = X_GP * X_PF * X_FM * inv(X_BM)
	return parent.Compose(m.xPF).Compose(m.motion(st)).Compose(m.xBM.Inverse())
}

// MobilizerQ returns the generalized position segment for one mobilizer.
// The returned slice aliases the state.
func (s *System) MobilizerQ(st *State, id MobodID) []float64 {
	m := &s.mobods[id]
	return st.Q[m.qStart : m.qStart+m.kind.qLen()]
}

// MobilizerU returns the generalized speed segment for one mobilizer.
func (s *System) MobilizerU(st *State, id MobodID) []float64 {
	m := &s.mobods[id]
	return st.U[m.uStart : m.uStart+m.kind.uLen()]
}

// MobilizerKindOf reports the kind instantiated for a mobilized body.
func (s *System) MobilizerKindOf(id MobodID) MobilizerKind {
	return s.mobods[id].kind
}

// allTransforms computes every body's world pose in one pass; mobods are
// stored in tree order so each parent is resolved before its children.
func (s *System) allTransforms(st *State) []Transform {
	xs := make([]Transform, len(s.mobods))
	xs[0] = Identity()
	for i := 1; i < len(s.mobods); i++ {
		m := &s.mobods[i]
		xs[i] = xs[m.parent].Compose(m.xPF).Compose(m.motion(st)).Compose(m.xBM.Inverse())
	}
	return xs
}
