package engine

import "github.com/go-gl/mathgl/mgl64"

// Transform places one frame in another: rotate by Rot, offset by Pos.
type Transform struct {
	Rot mgl64.Quat
	Pos mgl64.Vec3
}

func Identity() Transform {
	return Transform{Rot: mgl64.QuatIdent()}
}

// Compose returns t followed by u: u expressed through t's outer frame.
func (t Transform) Compose(u Transform) Transform {
	return Transform{
		Rot: t.Rot.Mul(u.Rot).Normalize(),
		Pos: t.Pos.Add(t.Rot.Rotate(u.Pos)),
	}
}

func (t Transform) Inverse() Transform {
	inv := t.Rot.Inverse()
	return Transform{
		Rot: inv,
		Pos: inv.Rotate(t.Pos).Mul(-1),
	}
}

// Apply maps a point from t's inner frame to its outer frame.
func (t Transform) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return t.Pos.Add(t.Rot.Rotate(v))
}

// MassProperties carries a body's mass, center of mass in the body frame,
// and inertia tensor about the center of mass.
type MassProperties struct {
	Mass    float64
	COM     mgl64.Vec3
	Inertia mgl64.Mat3
}
