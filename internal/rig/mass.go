package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MassProps holds a link's mass, center of mass in the link frame, and
// inertia tensor about the center of mass.
type MassProps struct {
	Mass    float64
	COM     mgl64.Vec3
	Inertia mgl64.Mat3
}

// UnitInertia returns mass properties for a point-like unit test body.
func UnitInertia(mass float64) MassProps {
	return MassProps{
		Mass:    mass,
		Inertia: mgl64.Ident3().Mul(mass),
	}
}

// Split divides the properties across n mobilizer fragments. Each fragment
// keeps the original center of mass; mass and inertia are partitioned
// equally so that the sum over fragments reconstructs the original.
func (m MassProps) Split(n int) MassProps {
	if n <= 1 {
		return m
	}
	f := 1.0 / float64(n)
	return MassProps{
		Mass:    m.Mass * f,
		COM:     m.COM,
		Inertia: m.Inertia.Mul(f),
	}
}

func (m MassProps) IsValid() bool {
	if math.IsNaN(m.Mass) || math.IsInf(m.Mass, 0) || m.Mass < 0 {
		return false
	}
	for _, v := range m.Inertia {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
