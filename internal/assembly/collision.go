package assembly

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigsim/internal/engine"
	"github.com/san-kum/rigsim/internal/rig"
)

// contactMaterial is the fixed response every surface gets. Not very stiff;
// stays stable at the default step size.
func contactMaterial() engine.ContactMaterial {
	return engine.ContactMaterial{
		Stiffness:       1e6,
		Dissipation:     0.1,
		StaticFriction:  0.7,
		DynamicFriction: 0.5,
		ViscousFriction: 0.5,
	}
}

// attachCollisions maps a link's collision shapes onto contact surfaces of
// one mobilized body. prefix places the link frame in the target body
// frame: identity when the link rides its own mobilized body, the composed
// world pose when static geometry lands on the ground.
func (a *Assembler) attachCollisions(id engine.MobodID, m *rig.Model, b *rig.Body, prefix rig.Pose, clique int) error {
	for i := range b.Collisions {
		c := &b.Collisions[i]
		geom, at, ok := surfaceFor(&c.Shape, prefix.Mul(c.Pose))
		if !ok {
			a.log.Warn("collision shape unsupported, skipping",
				"model", m.Name, "link", b.Name, "collision", c.Name, "shape", c.Shape.Kind.String())
			continue
		}
		surf := engine.ContactSurface{
			Name:      c.Name,
			Geometry:  geom,
			Transform: ToTransform(at),
			Material:  contactMaterial(),
			Clique:    clique,
		}
		if err := a.sys.AddContactSurface(id, surf); err != nil {
			return err
		}
	}
	return nil
}

// surfaceFor maps one shape to engine contact geometry. Boxes and
// cylinders become ellipsoids on their half extents; planes rotate the
// surface frame so its +X axis points along the outward normal.
func surfaceFor(s *rig.Shape, at rig.Pose) (engine.ContactGeometry, rig.Pose, bool) {
	switch s.Kind {
	case rig.ShapePlane:
		n := s.Normal
		if n.Len() == 0 {
			n = mgl64.Vec3{0, 0, 1}
		}
		at.Rot = at.Rot.Mul(mgl64.QuatBetweenVectors(mgl64.Vec3{1, 0, 0}, n)).Normalize()
		return engine.ContactGeometry{Kind: engine.GeomHalfSpace}, at, true
	case rig.ShapeSphere:
		return engine.ContactGeometry{Kind: engine.GeomSphere, Radius: s.Radius}, at, true
	case rig.ShapeCylinder:
		radii := mgl64.Vec3{s.Radius, s.Radius, s.Length / 2}
		return engine.ContactGeometry{Kind: engine.GeomEllipsoid, Radii: radii}, at, true
	case rig.ShapeBox:
		return engine.ContactGeometry{Kind: engine.GeomEllipsoid, Radii: s.Size.Mul(0.5)}, at, true
	}
	return engine.ContactGeometry{}, rig.Pose{}, false
}
