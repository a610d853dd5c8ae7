package rig

import "github.com/go-gl/mathgl/mgl64"

// ShapeKind enumerates collision geometries. Mesh and heightmap shapes are
// describable but have no contact-surface mapping; the assembler skips them
// with a warning.
type ShapeKind int

const (
	ShapePlane ShapeKind = iota
	ShapeSphere
	ShapeCylinder
	ShapeBox
	ShapeMesh
	ShapeHeightmap
)

func (k ShapeKind) String() string {
	switch k {
	case ShapePlane:
		return "plane"
	case ShapeSphere:
		return "sphere"
	case ShapeCylinder:
		return "cylinder"
	case ShapeBox:
		return "box"
	case ShapeMesh:
		return "mesh"
	case ShapeHeightmap:
		return "heightmap"
	}
	return "unknown"
}

// Shape is a tagged union over the fields each kind reads: planes use
// Normal, spheres and cylinders Radius (cylinders also Length), boxes the
// full extents in Size.
type Shape struct {
	Kind   ShapeKind
	Normal mgl64.Vec3
	Radius float64
	Length float64
	Size   mgl64.Vec3
}

// Collision is one named shape placed on a link.
type Collision struct {
	Name  string
	Pose  Pose
	Shape Shape
}
