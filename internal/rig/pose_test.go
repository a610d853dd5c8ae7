package rig

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecClose(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestPoseMul(t *testing.T) {
	// 90 degrees about Z, then a unit step along the rotated X.
	p := Pose{Pos: mgl64.Vec3{1, 0, 0}, Rot: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})}
	q := Pose{Pos: mgl64.Vec3{1, 0, 0}, Rot: mgl64.QuatIdent()}

	got := p.Mul(q)
	if !vecClose(got.Pos, mgl64.Vec3{1, 1, 0}, 1e-12) {
		t.Errorf("composed pos = %v, want (1,1,0)", got.Pos)
	}
}

func TestPoseInverse(t *testing.T) {
	tests := []struct {
		name string
		p    Pose
	}{
		{"identity", IdentityPose()},
		{"translation", Pose{Pos: mgl64.Vec3{1, 2, 3}, Rot: mgl64.QuatIdent()}},
		{"rotation", Pose{Rot: mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0})}},
		{"both", NewPose(0.5, -1, 2, 0.1, 0.2, 0.3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round := tt.p.Mul(tt.p.Inverse())
			if !vecClose(round.Pos, mgl64.Vec3{}, 1e-12) {
				t.Errorf("p * p^-1 pos = %v, want zero", round.Pos)
			}
			if !vecClose(round.Rot.Rotate(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{1, 0, 0}, 1e-12) {
				t.Errorf("p * p^-1 rotates x-axis to %v", round.Rot.Rotate(mgl64.Vec3{1, 0, 0}))
			}
		})
	}
}

func TestPoseTransform(t *testing.T) {
	p := Pose{Pos: mgl64.Vec3{0, 0, 1}, Rot: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})}
	got := p.Transform(mgl64.Vec3{1, 0, 0})
	if !vecClose(got, mgl64.Vec3{0, 1, 1}, 1e-12) {
		t.Errorf("transform = %v, want (0,1,1)", got)
	}
}

func TestNewPoseYaw(t *testing.T) {
	p := NewPose(0, 0, 0, 0, 0, math.Pi/2)
	got := p.Rot.Rotate(mgl64.Vec3{1, 0, 0})
	if !vecClose(got, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("yaw pi/2 maps x to %v, want y", got)
	}
}
