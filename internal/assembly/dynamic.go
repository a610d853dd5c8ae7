package assembly

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigsim/internal/engine"
	"github.com/san-kum/rigsim/internal/mbgraph"
	"github.com/san-kum/rigsim/internal/rig"
)

var (
	pinAxis    = mgl64.Vec3{0, 0, 1} // engine pins rotate about the frame Z
	sliderAxis = mgl64.Vec3{1, 0, 0} // engine sliders translate along the frame X
)

// addDynamic walks the mobilizer list in tree order, creating one engine
// mobilized body per entry, then welds slave copies back to their masters.
func (a *Assembler) addDynamic(m *rig.Model, g *mbgraph.Graph) error {
	clique := 0
	if !m.SelfCollide {
		clique = a.sys.NewClique()
	}
	slaveIDs := make(map[string]engine.MobodID)

	for _, mob := range g.Mobilizers {
		b, ok := m.Body(mob.OutboardBody())
		if !ok {
			return fmt.Errorf("%w: %q in model %q", ErrUnknownLink, mob.OutboardBody(), m.Name)
		}
		mp := toMassProps(b.Mass.Split(g.Fragments(mob.OutboardBody())))

		inboard := engine.Ground
		if mob.Inboard != worldName {
			h, ok := a.bodies[scoped(m.Name, mob.Inboard)]
			if !ok {
				return fmt.Errorf("%w: inboard %q in model %q", ErrUnknownLink, mob.Inboard, m.Name)
			}
			inboard = h.Master
		}

		var id engine.MobodID
		var err error
		if mob.IsAddedBase {
			id, err = a.sys.AddFreeMobod(inboard, engine.Identity(), engine.Identity(), mp, false)
			if err == nil {
				err = a.sys.SetDefaultTransform(id, ToTransform(a.worldDefault(m, mob.OutboardBody())))
			}
		} else {
			j, ok := m.Joint(mob.JointName)
			if !ok {
				return fmt.Errorf("%w: joint %q in model %q", ErrUnknownLink, mob.JointName, m.Name)
			}
			id, err = a.addJointMobod(m, j, mob, inboard, mp)
		}
		if err != nil {
			return err
		}

		key := scoped(m.Name, mob.OutboardBody())
		if mob.IsSlave {
			slaveIDs[mob.Outboard] = id
			h := a.bodies[key]
			h.Slaves = append(h.Slaves, id)
			a.bodies[key] = h
		} else {
			a.bodies[key] = Handles{Master: id}
		}
		if !mob.IsAddedBase {
			a.joints[scoped(m.Name, mob.JointName)] = JointRecord{Mobod: id, Reversed: mob.IsReversed}
		}

		// Slaves carry a copy of the master's collision geometry, so contact
		// follows whichever fragment is nearer.
		if err := a.attachCollisions(id, m, b, rig.IdentityPose(), clique); err != nil {
			return err
		}
	}

	for _, lc := range g.LoopConstraints {
		if lc.TypeName != mbgraph.WeldType {
			return fmt.Errorf("%w: loop joint %q needs a %q constraint", ErrUnsupportedJoint, lc.JointName, lc.TypeName)
		}
		master, ok := a.bodies[scoped(m.Name, lc.Master)]
		if !ok {
			return fmt.Errorf("%w: loop master %q in model %q", ErrUnknownLink, lc.Master, m.Name)
		}
		slave, ok := slaveIDs[lc.Slave]
		if !ok {
			return fmt.Errorf("%w: loop slave %q in model %q", ErrUnknownLink, lc.Slave, m.Name)
		}
		if err := a.sys.AddWeldConstraint(master.Master, slave); err != nil {
			return err
		}
	}

	a.log.Debug("dynamic model assembled", "model", m.Name,
		"mobilizers", len(g.Mobilizers), "loops", len(g.LoopConstraints))
	return nil
}

// addJointMobod creates the mobilized body for one input joint. The frame
// on the inboard side is the parent copy of the joint frame, or the child
// copy when the tree runs against the joint; single-axis types compose a
// rotation aligning the engine's canonical axis with the joint axis.
func (a *Assembler) addJointMobod(m *rig.Model, j *rig.Joint, mob mbgraph.Mobilizer, inboard engine.MobodID, mp engine.MassProperties) (engine.MobodID, error) {
	xPA, xCB := jointFrames(m, j)
	xIF0, xOM0 := xPA, xCB
	if mob.IsReversed {
		xIF0, xOM0 = xCB, xPA
	}

	switch j.Type {
	case rig.JointFixed:
		return a.sys.AddWeldMobod(inboard, ToTransform(xIF0), ToTransform(xOM0), mp, mob.IsReversed)

	case rig.JointFree:
		id, err := a.sys.AddFreeMobod(inboard, ToTransform(xIF0), ToTransform(xOM0), mp, mob.IsReversed)
		if err != nil {
			return 0, err
		}
		def := a.defaultAB(m, j, xPA, xCB)
		if mob.IsReversed {
			def = def.Inverse()
		}
		return id, a.sys.SetDefaultTransform(id, ToTransform(def))

	case rig.JointRevolute:
		rj := mgl64.QuatBetweenVectors(pinAxis, j.Axis)
		return a.sys.AddPinMobod(inboard, ToTransform(alignAxis(xIF0, rj)), ToTransform(alignAxis(xOM0, rj)), mp, mob.IsReversed)

	case rig.JointPrismatic:
		rj := mgl64.QuatBetweenVectors(sliderAxis, j.Axis)
		return a.sys.AddSliderMobod(inboard, ToTransform(alignAxis(xIF0, rj)), ToTransform(alignAxis(xOM0, rj)), mp, mob.IsReversed)

	case rig.JointBall:
		id, err := a.sys.AddBallMobod(inboard, ToTransform(xIF0), ToTransform(xOM0), mp, mob.IsReversed)
		if err != nil {
			return 0, err
		}
		rot := a.defaultAB(m, j, xPA, xCB).Rot
		if mob.IsReversed {
			rot = rot.Inverse()
		}
		return id, a.sys.SetDefaultTransform(id, engine.Transform{Rot: rot})
	}

	return 0, fmt.Errorf("%w: joint %q is %v", ErrUnsupportedJoint, j.Name, j.Type)
}

// jointFrames resolves the two copies of the joint frame: xPA on the parent
// side (in the world frame when the joint has no parent link) and xCB on
// the child. A zero ParentPose rotation means the pose was never resolved;
// it is derived from the links' default poses so the frames coincide at the
// default configuration.
func jointFrames(m *rig.Model, j *rig.Joint) (xPA, xCB rig.Pose) {
	xCB = j.ChildPose
	xPA = j.ParentPose
	if (xPA.Rot == mgl64.Quat{}) {
		childW, _ := m.LinkWorldPose(j.Child)
		if j.Parent == "" {
			xPA = childW.Mul(xCB)
		} else {
			parentW, _ := m.LinkWorldPose(j.Parent)
			xPA = parentW.Inverse().Mul(childW).Mul(xCB)
		}
	}
	return xPA, xCB
}

// defaultAB measures the parent-to-child joint frame offset at the current
// link placement. With default placement the frames coincide and this is
// the identity; across a rebuild the pose override feeds the moved poses
// in, so free and ball joints keep their configuration.
func (a *Assembler) defaultAB(m *rig.Model, j *rig.Joint, xPA, xCB rig.Pose) rig.Pose {
	parentW := rig.IdentityPose()
	if j.Parent != "" {
		parentW = a.worldDefault(m, j.Parent)
	}
	childW := a.worldDefault(m, j.Child)
	return parentW.Mul(xPA).Inverse().Mul(childW.Mul(xCB))
}

// alignAxis composes an axis rotation onto a joint frame, keeping its
// origin.
func alignAxis(p rig.Pose, r mgl64.Quat) rig.Pose {
	return rig.Pose{Pos: p.Pos, Rot: p.Rot.Mul(r).Normalize()}
}
