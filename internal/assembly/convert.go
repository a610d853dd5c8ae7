package assembly

import (
	"github.com/san-kum/rigsim/internal/engine"
	"github.com/san-kum/rigsim/internal/rig"
)

// ToTransform converts a model pose to an engine transform. The two types
// are kept separate so the engine stays ignorant of model conventions.
func ToTransform(p rig.Pose) engine.Transform {
	return engine.Transform{Rot: p.Rot, Pos: p.Pos}
}

// ToPose converts an engine transform back to a model pose.
func ToPose(x engine.Transform) rig.Pose {
	return rig.Pose{Pos: x.Pos, Rot: x.Rot}
}

func toMassProps(m rig.MassProps) engine.MassProperties {
	return engine.MassProperties{Mass: m.Mass, COM: m.COM, Inertia: m.Inertia}
}
