package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is one rigid link of a model. Mobilized-body handles are not stored
// here; the assembler keeps them in its own arena keyed by model and link
// name.
type Body struct {
	Name       string
	Mass       MassProps
	Pose       Pose
	MustBeBase bool
	Collisions []Collision
}

// Model is a named collection of links and joints plus placement flags.
// Static models are welded to the environment and never mobilized.
type Model struct {
	Name        string
	Static      bool
	SelfCollide bool
	Pose        Pose
	Bodies      []Body
	Joints      []Joint
}

func (m *Model) Body(name string) (*Body, bool) {
	for i := range m.Bodies {
		if m.Bodies[i].Name == name {
			return &m.Bodies[i], true
		}
	}
	return nil, false
}

func (m *Model) Joint(name string) (*Joint, bool) {
	for i := range m.Joints {
		if m.Joints[i].Name == name {
			return &m.Joints[i], true
		}
	}
	return nil, false
}

// Normalize replaces unset rotations (the zero quaternion) with the
// identity across every pose in the model, so hand-built literals can leave
// them out. A joint's ParentPose is deliberately skipped: zero there means
// it gets derived from the links' default poses.
func (m *Model) Normalize() {
	fix := func(p *Pose) {
		if (p.Rot == mgl64.Quat{}) {
			p.Rot = mgl64.QuatIdent()
		}
	}
	fix(&m.Pose)
	for i := range m.Bodies {
		b := &m.Bodies[i]
		fix(&b.Pose)
		for k := range b.Collisions {
			fix(&b.Collisions[k].Pose)
		}
	}
	for i := range m.Joints {
		fix(&m.Joints[i].ChildPose)
	}
}

// LinkWorldPose returns the default world pose of a link, composing the
// model pose with the link's pose in the model frame.
func (m *Model) LinkWorldPose(name string) (Pose, bool) {
	b, ok := m.Body(name)
	if !ok {
		return IdentityPose(), false
	}
	return m.Pose.Mul(b.Pose), true
}

// Validate checks referential integrity before any graph work: unique
// non-empty names, joints that reference declared links, sensible mass on
// dynamic bodies, and a usable axis on single-axis joint types.
func (m *Model) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: model name", ErrEmptyName)
	}
	seen := make(map[string]bool, len(m.Bodies))
	for i := range m.Bodies {
		b := &m.Bodies[i]
		if b.Name == "" {
			return fmt.Errorf("%w: body in model %q", ErrEmptyName, m.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: body %q", ErrDuplicateName, b.Name)
		}
		seen[b.Name] = true
		if !m.Static && !b.Mass.IsValid() {
			return fmt.Errorf("%w: body %q", ErrBadMassProps, b.Name)
		}
		if !m.Static && b.Mass.Mass == 0 {
			return fmt.Errorf("%w: body %q has zero mass", ErrBadMassProps, b.Name)
		}
	}
	jseen := make(map[string]bool, len(m.Joints))
	for i := range m.Joints {
		j := &m.Joints[i]
		if j.Name == "" {
			return fmt.Errorf("%w: joint in model %q", ErrEmptyName, m.Name)
		}
		if jseen[j.Name] {
			return fmt.Errorf("%w: joint %q", ErrDuplicateName, j.Name)
		}
		jseen[j.Name] = true
		if j.Parent != "" && !seen[j.Parent] {
			return fmt.Errorf("%w: joint %q parent %q", ErrUnknownBody, j.Name, j.Parent)
		}
		if !seen[j.Child] {
			return fmt.Errorf("%w: joint %q child %q", ErrUnknownBody, j.Name, j.Child)
		}
		if j.Parent == j.Child {
			return fmt.Errorf("%w: joint %q", ErrSelfJoint, j.Name)
		}
		switch j.Type {
		case JointRevolute, JointPrismatic, JointScrew:
			if j.Axis.Len() == 0 {
				return fmt.Errorf("%w: joint %q", ErrZeroAxis, j.Name)
			}
		}
	}
	return nil
}
