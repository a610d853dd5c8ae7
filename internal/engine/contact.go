package engine

import "github.com/go-gl/mathgl/mgl64"

// GeometryKind enumerates the contact geometries the engine accepts.
// There is no cylinder or box; callers approximate both with ellipsoids.
type GeometryKind int

const (
	GeomHalfSpace GeometryKind = iota
	GeomSphere
	GeomEllipsoid
)

func (k GeometryKind) String() string {
	switch k {
	case GeomHalfSpace:
		return "halfspace"
	case GeomSphere:
		return "sphere"
	case GeomEllipsoid:
		return "ellipsoid"
	}
	return "unknown"
}

// ContactGeometry is a tagged union: spheres read Radius, ellipsoids the
// three semi-axes in Radii, half-spaces only their transform (the surface
// faces along the frame's +X axis).
type ContactGeometry struct {
	Kind   GeometryKind
	Radius float64
	Radii  mgl64.Vec3
}

// ContactMaterial carries the response parameters recorded with each
// surface.
type ContactMaterial struct {
	Stiffness       float64
	Dissipation     float64
	StaticFriction  float64
	DynamicFriction float64
	ViscousFriction float64
}

// ContactSurface is one piece of collision geometry fixed to a mobilized
// body. Surfaces in the same nonzero clique never contact each other.
type ContactSurface struct {
	Name      string
	Geometry  ContactGeometry
	Transform Transform
	Material  ContactMaterial
	Clique    int
}
