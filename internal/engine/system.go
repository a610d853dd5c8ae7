package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MobodID is a stable handle into the mobilized-body arena. Ground is
// always 0; every other id is returned by the Add*Mobod constructors in
// tree order, so a mobod's parent id is always smaller than its own.
type MobodID int

const Ground MobodID = 0

// MobilizerKind selects the motion a mobilizer permits between its frames.
type MobilizerKind int

const (
	Weld MobilizerKind = iota
	Free
	Pin
	Slider
	Ball
)

func (k MobilizerKind) String() string {
	switch k {
	case Weld:
		return "weld"
	case Free:
		return "free"
	case Pin:
		return "pin"
	case Slider:
		return "slider"
	case Ball:
		return "ball"
	}
	return fmt.Sprintf("mobilizerkind(%d)", int(k))
}

// qLen and uLen report the state segment widths per kind. Free stores a
// quaternion plus a position (7q/6u), ball a quaternion (4q/3u).
func (k MobilizerKind) qLen() int {
	switch k {
	case Free:
		return 7
	case Ball:
		return 4
	case Pin, Slider:
		return 1
	}
	return 0
}

func (k MobilizerKind) uLen() int {
	switch k {
	case Free:
		return 6
	case Ball:
		return 3
	case Pin, Slider:
		return 1
	}
	return 0
}

type mobod struct {
	kind     MobilizerKind
	parent   MobodID
	xPF      Transform // mobilizer frame F fixed on the parent
	xBM      Transform // mobilizer frame M fixed on this body
	mass     MassProperties
	reversed bool
	defQ     []float64
	qStart   int
	uStart   int
}

type weld struct {
	master MobodID
	slave  MobodID
	// penalty gains, derived from the pair's mass properties when the
	// constraint is added
	kLin, cLin float64
	kAng, cAng float64
}

// System is one multibody tree under construction and, after
// RealizeTopology, the immutable topology the integrator advances.
type System struct {
	gravity  mgl64.Vec3
	mobods   []mobod
	welds    []weld
	surfaces map[MobodID][]ContactSurface
	cliques  int
	realized bool
	nq, nu   int
}

func NewSystem() *System {
	return &System{
		mobods:   []mobod{{kind: Weld, parent: -1}},
		surfaces: make(map[MobodID][]ContactSurface),
	}
}

func (s *System) SetGravity(g mgl64.Vec3) { s.gravity = g }
func (s *System) Gravity() mgl64.Vec3     { return s.gravity }

// NumMobods counts the mobilized bodies including Ground.
func (s *System) NumMobods() int { return len(s.mobods) }

func (s *System) addMobod(kind MobilizerKind, parent MobodID, xPF, xBM Transform, mp MassProperties, reversed bool) (MobodID, error) {
	if s.realized {
		return 0, ErrAlreadyRealized
	}
	if parent < 0 || int(parent) >= len(s.mobods) {
		return 0, fmt.Errorf("%w: parent %d", ErrBadMobod, parent)
	}
	id := MobodID(len(s.mobods))
	m := mobod{kind: kind, parent: parent, xPF: xPF, xBM: xBM, mass: mp, reversed: reversed}
	m.defQ = make([]float64, kind.qLen())
	switch kind {
	case Free, Ball:
		m.defQ[0] = 1 // identity quaternion
	}
	s.mobods = append(s.mobods, m)
	return id, nil
}

// AddWeldMobod rigidly attaches a body to its parent.
func (s *System) AddWeldMobod(parent MobodID, xPF, xBM Transform, mp MassProperties, reversed bool) (MobodID, error) {
	return s.addMobod(Weld, parent, xPF, xBM, mp, reversed)
}

// AddFreeMobod grants a body all six degrees of freedom relative to its
// parent. Used for added base mobilizers.
func (s *System) AddFreeMobod(parent MobodID, xPF, xBM Transform, mp MassProperties, reversed bool) (MobodID, error) {
	return s.addMobod(Free, parent, xPF, xBM, mp, reversed)
}

// AddPinMobod rotates the body about the mobilizer frame Z axis.
func (s *System) AddPinMobod(parent MobodID, xPF, xBM Transform, mp MassProperties, reversed bool) (MobodID, error) {
	return s.addMobod(Pin, parent, xPF, xBM, mp, reversed)
}

// AddSliderMobod translates the body along the mobilizer frame X axis.
func (s *System) AddSliderMobod(parent MobodID, xPF, xBM Transform, mp MassProperties, reversed bool) (MobodID, error) {
	return s.addMobod(Slider, parent, xPF, xBM, mp, reversed)
}

// AddBallMobod rotates the body freely about the mobilizer frame origin.
func (s *System) AddBallMobod(parent MobodID, xPF, xBM Transform, mp MassProperties, reversed bool) (MobodID, error) {
	return s.addMobod(Ball, parent, xPF, xBM, mp, reversed)
}

// SetDefaultTransform sets the mobilizer's rest configuration. Free
// mobilizers take the full transform, balls the rotation part; other kinds
// have no default to set.
func (s *System) SetDefaultTransform(id MobodID, x Transform) error {
	if s.realized {
		return ErrAlreadyRealized
	}
	if id <= Ground || int(id) >= len(s.mobods) {
		return fmt.Errorf("%w: %d", ErrBadMobod, id)
	}
	m := &s.mobods[id]
	r := x.Rot.Normalize()
	switch m.kind {
	case Free:
		m.defQ[0], m.defQ[1], m.defQ[2], m.defQ[3] = r.W, r.V[0], r.V[1], r.V[2]
		m.defQ[4], m.defQ[5], m.defQ[6] = x.Pos[0], x.Pos[1], x.Pos[2]
	case Ball:
		m.defQ[0], m.defQ[1], m.defQ[2], m.defQ[3] = r.W, r.V[0], r.V[1], r.V[2]
	default:
		return fmt.Errorf("%w: %v", ErrBadDefault, m.kind)
	}
	return nil
}

// AddWeldConstraint rigidly couples two already-mobilized bodies so their
// body frames stay coincident. Penalty gains are sized from the pair's
// reduced mass and inertia for critical damping.
func (s *System) AddWeldConstraint(master, slave MobodID) error {
	if s.realized {
		return ErrAlreadyRealized
	}
	for _, id := range []MobodID{master, slave} {
		if id <= Ground || int(id) >= len(s.mobods) {
			return fmt.Errorf("%w: %d", ErrBadMobod, id)
		}
	}
	mm, ms := s.mobods[master].mass, s.mobods[slave].mass
	mPair := reduced(mm.Mass, ms.Mass)
	iPair := reduced(mm.Inertia.Trace()/3, ms.Inertia.Trace()/3)

	const stiffness = 1e4
	w := weld{master: master, slave: slave}
	w.kLin = stiffness * mPair
	w.cLin = 2 * math.Sqrt(w.kLin*mPair)
	w.kAng = stiffness * iPair
	w.cAng = 2 * math.Sqrt(w.kAng*iPair)
	s.welds = append(s.welds, w)
	return nil
}

func reduced(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return math.Max(a, b)
	}
	return a * b / (a + b)
}

// NewClique allocates a contact clique id. Surfaces sharing a clique never
// generate contact with each other.
func (s *System) NewClique() int {
	s.cliques++
	return s.cliques
}

// AddContactSurface attaches collision geometry to a mobilized body.
func (s *System) AddContactSurface(id MobodID, surf ContactSurface) error {
	if s.realized {
		return ErrAlreadyRealized
	}
	if id < Ground || int(id) >= len(s.mobods) {
		return fmt.Errorf("%w: %d", ErrBadMobod, id)
	}
	s.surfaces[id] = append(s.surfaces[id], surf)
	return nil
}

// ContactSurfaces returns the surfaces attached to a body.
func (s *System) ContactSurfaces(id MobodID) []ContactSurface {
	return s.surfaces[id]
}

// RealizeTopology freezes construction, assigns state offsets, and
// allocates the default state. It may be called exactly once.
func (s *System) RealizeTopology() (*State, error) {
	if s.realized {
		return nil, ErrAlreadyRealized
	}
	s.nq, s.nu = 0, 0
	for i := range s.mobods {
		m := &s.mobods[i]
		m.qStart, m.uStart = s.nq, s.nu
		s.nq += m.kind.qLen()
		s.nu += m.kind.uLen()
	}
	st := &State{
		Q: make([]float64, s.nq),
		U: make([]float64, s.nu),
	}
	for i := range s.mobods {
		m := &s.mobods[i]
		copy(st.Q[m.qStart:m.qStart+m.kind.qLen()], m.defQ)
	}
	s.realized = true
	return st, nil
}
