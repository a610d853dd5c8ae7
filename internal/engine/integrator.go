package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const defaultAccuracy = 1e-3

// Integrator advances one realized system through time. StepTo subdivides
// the requested interval into sub-steps no longer than the accuracy
// setting; a target at or before the current time performs zero sub-steps.
type Integrator struct {
	sys     *System
	state   *State
	forces  *DiscreteForces
	time    float64
	maxStep float64
}

func NewIntegrator(sys *System, st *State, df *DiscreteForces) *Integrator {
	return &Integrator{sys: sys, state: st, forces: df, maxStep: defaultAccuracy}
}

// SetAccuracy bounds the sub-step length in seconds. Non-positive values
// are ignored.
func (ig *Integrator) SetAccuracy(a float64) {
	if a > 0 {
		ig.maxStep = a
	}
}

func (ig *Integrator) Time() float64 { return ig.time }

// SetTime moves the integrator clock without touching the state. Used when
// a rebuilt system resumes an earlier session.
func (ig *Integrator) SetTime(t float64) { ig.time = t }

func (ig *Integrator) State() *State { return ig.state }

// timeSlop absorbs the rounding drift of repeated step additions so a
// target a few ulps away never costs an extra sub-step.
const timeSlop = 1e-12

// StepTo integrates until the internal time reaches t and reports how many
// sub-steps that took. Calling it with t at or before the current time is
// a no-op.
func (ig *Integrator) StepTo(t float64) (int, error) {
	substeps := 0
	for t-ig.time > timeSlop {
		h := t - ig.time
		if h > ig.maxStep {
			h = ig.maxStep
		}
		if err := ig.substep(h); err != nil {
			return substeps, err
		}
		ig.time += h
		substeps++
	}
	if d := t - ig.time; -timeSlop <= d && d <= timeSlop {
		ig.time = t
	}
	return substeps, nil
}

type mobFrame struct {
	p    mgl64.Vec3
	axes [3]mgl64.Vec3
	sign float64
}

// substep performs one semi-implicit Euler step: map applied spatial
// forces and weld penalties to generalized forces through the Jacobian
// transpose, advance speeds against a diagonal effective-mass estimate,
// then advance positions with the updated speeds.
func (ig *Integrator) substep(h float64) error {
	s, st := ig.sys, ig.state
	n := len(s.mobods)
	xs := s.allTransforms(st)

	frames := make([]mobFrame, n)
	for k := 1; k < n; k++ {
		m := &s.mobods[k]
		fw := xs[m.parent].Compose(m.xPF)
		fr := mobFrame{p: fw.Pos, sign: 1}
		if m.reversed {
			fr.sign = -1
		}
		fr.axes[0] = fw.Rot.Rotate(mgl64.Vec3{1, 0, 0})
		fr.axes[1] = fw.Rot.Rotate(mgl64.Vec3{0, 1, 0})
		fr.axes[2] = fw.Rot.Rotate(mgl64.Vec3{0, 0, 1})
		frames[k] = fr
	}

	dofAxis := func(k MobodID, d int) (mgl64.Vec3, bool) {
		m := &s.mobods[k]
		fr := &frames[k]
		switch m.kind {
		case Pin:
			return fr.axes[2].Mul(fr.sign), true
		case Slider:
			return fr.axes[0].Mul(fr.sign), false
		case Ball:
			return fr.axes[d].Mul(fr.sign), true
		case Free:
			if d < 3 {
				return fr.axes[d].Mul(fr.sign), true
			}
			return fr.axes[d-3].Mul(fr.sign), false
		}
		return mgl64.Vec3{}, false
	}

	// World COM positions and body velocities, accumulated down each
	// body's ancestor chain.
	r := make([]mgl64.Vec3, n)
	v := make([]mgl64.Vec3, n)
	w := make([]mgl64.Vec3, n)
	for b := 1; b < n; b++ {
		r[b] = xs[b].Apply(s.mobods[b].mass.COM)
		for k := MobodID(b); k != Ground; k = s.mobods[k].parent {
			m := &s.mobods[k]
			u := st.U[m.uStart : m.uStart+m.kind.uLen()]
			for d := range u {
				a, rot := dofAxis(k, d)
				if rot {
					w[b] = w[b].Add(a.Mul(u[d]))
					v[b] = v[b].Add(a.Cross(r[b].Sub(frames[k].p)).Mul(u[d]))
				} else {
					v[b] = v[b].Add(a.Mul(u[d]))
				}
			}
		}
	}

	// Applied spatial forces: gravity, discrete forces, weld penalties.
	F := make([]mgl64.Vec3, n)
	T := make([]mgl64.Vec3, n)
	for b := 1; b < n; b++ {
		F[b] = s.gravity.Mul(s.mobods[b].mass.Mass)
		if ig.forces != nil {
			F[b] = F[b].Add(ig.forces.body[b].force)
			T[b] = T[b].Add(ig.forces.body[b].torque)
		}
	}
	for _, wc := range s.welds {
		ma, sl := wc.master, wc.slave
		e := xs[sl].Pos.Sub(xs[ma].Pos)
		edot := v[sl].Sub(v[ma])
		fl := e.Mul(-wc.kLin).Sub(edot.Mul(wc.cLin))
		F[sl] = F[sl].Add(fl)
		F[ma] = F[ma].Sub(fl)

		erot := rotVec(xs[sl].Rot.Mul(xs[ma].Rot.Inverse()))
		wrel := w[sl].Sub(w[ma])
		tq := erot.Mul(-wc.kAng).Sub(wrel.Mul(wc.cAng))
		T[sl] = T[sl].Add(tq)
		T[ma] = T[ma].Sub(tq)
	}

	f := make([][]float64, n)
	mEff := make([][]float64, n)
	for k := 1; k < n; k++ {
		ul := s.mobods[k].kind.uLen()
		f[k] = make([]float64, ul)
		mEff[k] = make([]float64, ul)
		if ig.forces != nil {
			copy(f[k], ig.forces.mobility[k])
		}
	}
	for b := 1; b < n; b++ {
		mb := &s.mobods[b]
		for k := MobodID(b); k != Ground; k = s.mobods[k].parent {
			km := &s.mobods[k]
			for d := 0; d < km.kind.uLen(); d++ {
				a, rot := dofAxis(k, d)
				if rot {
					arm := r[b].Sub(frames[k].p)
					f[k][d] += a.Dot(arm.Cross(F[b])) + a.Dot(T[b])
					aLocal := xs[b].Rot.Conjugate().Rotate(a)
					mEff[k][d] += mb.mass.Mass*arm.Dot(arm) + aLocal.Dot(mb.mass.Inertia.Mul3x1(aLocal))
				} else {
					f[k][d] += a.Dot(F[b])
					mEff[k][d] += mb.mass.Mass
				}
			}
		}
	}

	for k := 1; k < n; k++ {
		m := &s.mobods[k]
		u := st.U[m.uStart : m.uStart+m.kind.uLen()]
		for d := range u {
			me := mEff[k][d]
			if me < 1e-12 {
				me = 1e-12
			}
			u[d] += h * f[k][d] / me
		}
		q := st.Q[m.qStart : m.qStart+m.kind.qLen()]
		switch m.kind {
		case Pin, Slider:
			q[0] += h * u[0]
		case Ball:
			integrateQuat(q, u[0:3], h)
		case Free:
			integrateQuat(q, u[0:3], h)
			q[4] += h * u[3]
			q[5] += h * u[4]
			q[6] += h * u[5]
		}
	}

	if !st.IsFinite() {
		return ErrDiverged
	}
	return nil
}

func integrateQuat(q, omega []float64, h float64) {
	qq := mgl64.Quat{W: q[0], V: mgl64.Vec3{q[1], q[2], q[3]}}
	wq := mgl64.Quat{V: mgl64.Vec3{omega[0], omega[1], omega[2]}}
	qq = qq.Add(wq.Mul(qq).Scale(0.5 * h)).Normalize()
	q[0], q[1], q[2], q[3] = qq.W, qq.V[0], qq.V[1], qq.V[2]
}

// rotVec converts a rotation to its axis-angle vector, zero near identity.
func rotVec(q mgl64.Quat) mgl64.Vec3 {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}
	sin := q.V.Len()
	if sin < 1e-12 {
		return mgl64.Vec3{}
	}
	angle := 2 * math.Atan2(sin, q.W)
	return q.V.Mul(angle / sin)
}
