package rig

import "github.com/go-gl/mathgl/mgl64"

// Pose locates one frame relative to another: rotate by Rot, then offset by
// Pos, both expressed in the outer frame.
type Pose struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

func IdentityPose() Pose {
	return Pose{Rot: mgl64.QuatIdent()}
}

// NewPose builds a pose from a position and extrinsic roll/pitch/yaw angles
// about the fixed X, Y, Z axes.
func NewPose(x, y, z, roll, pitch, yaw float64) Pose {
	return Pose{
		Pos: mgl64.Vec3{x, y, z},
		Rot: mgl64.AnglesToQuat(yaw, pitch, roll, mgl64.ZYX),
	}
}

// Mul composes p with a child pose q, returning q expressed in p's outer
// frame.
func (p Pose) Mul(q Pose) Pose {
	return Pose{
		Pos: p.Pos.Add(p.Rot.Rotate(q.Pos)),
		Rot: p.Rot.Mul(q.Rot).Normalize(),
	}
}

func (p Pose) Inverse() Pose {
	inv := p.Rot.Inverse()
	return Pose{
		Pos: inv.Rotate(p.Pos).Mul(-1),
		Rot: inv,
	}
}

// Transform maps a point from p's inner frame to its outer frame.
func (p Pose) Transform(v mgl64.Vec3) mgl64.Vec3 {
	return p.Pos.Add(p.Rot.Rotate(v))
}
