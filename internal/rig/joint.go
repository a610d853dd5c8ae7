package rig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// JointType is the closed set of kinematic connector types. Assembly
// switches exhaustively over it; there is no string dispatch past the
// config boundary.
type JointType int

const (
	JointFixed JointType = iota
	JointFree
	JointRevolute
	JointRevolute2
	JointPrismatic
	JointUniversal
	JointBall
	JointScrew
)

var jointTypeNames = map[JointType]string{
	JointFixed:     "fixed",
	JointFree:      "free",
	JointRevolute:  "revolute",
	JointRevolute2: "revolute2",
	JointPrismatic: "prismatic",
	JointUniversal: "universal",
	JointBall:      "ball",
	JointScrew:     "screw",
}

func (t JointType) String() string {
	if s, ok := jointTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("jointtype(%d)", int(t))
}

// DOF reports the degrees of freedom the type contributes as a mobilizer.
func (t JointType) DOF() int {
	switch t {
	case JointFixed:
		return 0
	case JointFree:
		return 6
	case JointRevolute, JointPrismatic, JointScrew:
		return 1
	case JointRevolute2, JointUniversal:
		return 2
	case JointBall:
		return 3
	}
	return 0
}

func ParseJointType(s string) (JointType, error) {
	for t, name := range jointTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownJointType, s)
}

// Joint connects a parent link to a child link. An empty Parent means the
// fixed world frame. ChildPose places the joint frame on the child link;
// ParentPose places the same frame on the parent, resolved from the links'
// default poses at load time. Axis is expressed in the joint frame.
type Joint struct {
	Name          string
	Type          JointType
	Parent        string
	Child         string
	Axis          mgl64.Vec3
	ChildPose     Pose
	ParentPose    Pose
	MustBreakLoop bool
}
