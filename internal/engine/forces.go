package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type spatialForce struct {
	force  mgl64.Vec3
	torque mgl64.Vec3
}

// DiscreteForces holds externally applied forces for the next sub-steps.
// They stay in effect until ClearAll; the stepper clears them after every
// synchronize, making applications one-shot per tick.
type DiscreteForces struct {
	sys      *System
	body     []spatialForce
	mobility [][]float64
}

// NewDiscreteForces sizes the force tables from a realized system.
func NewDiscreteForces(sys *System) (*DiscreteForces, error) {
	if !sys.realized {
		return nil, ErrNotRealized
	}
	df := &DiscreteForces{
		sys:      sys,
		body:     make([]spatialForce, len(sys.mobods)),
		mobility: make([][]float64, len(sys.mobods)),
	}
	for i := range sys.mobods {
		df.mobility[i] = make([]float64, sys.mobods[i].kind.uLen())
	}
	return df, nil
}

// ApplyBodyForce accumulates a world-frame force acting at the body's
// center of mass plus a free torque.
func (df *DiscreteForces) ApplyBodyForce(id MobodID, force, torque mgl64.Vec3) error {
	if id <= Ground || int(id) >= len(df.body) {
		return fmt.Errorf("%w: %d", ErrBadMobod, id)
	}
	df.body[id].force = df.body[id].force.Add(force)
	df.body[id].torque = df.body[id].torque.Add(torque)
	return nil
}

// ApplyMobilityForce accumulates a generalized force on one degree of
// freedom of a mobilizer.
func (df *DiscreteForces) ApplyMobilityForce(id MobodID, dof int, f float64) error {
	if id <= Ground || int(id) >= len(df.mobility) {
		return fmt.Errorf("%w: %d", ErrBadMobod, id)
	}
	if dof < 0 || dof >= len(df.mobility[id]) {
		return fmt.Errorf("engine: mobility dof %d out of range for %v", dof, df.sys.mobods[id].kind)
	}
	df.mobility[id][dof] += f
	return nil
}

// BodyForce reads back the accumulated spatial force on a body.
func (df *DiscreteForces) BodyForce(id MobodID) (force, torque mgl64.Vec3) {
	if id <= Ground || int(id) >= len(df.body) {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	return df.body[id].force, df.body[id].torque
}

// MobilityForce reads back one generalized force.
func (df *DiscreteForces) MobilityForce(id MobodID, dof int) float64 {
	if id <= Ground || int(id) >= len(df.mobility) || dof < 0 || dof >= len(df.mobility[id]) {
		return 0
	}
	return df.mobility[id][dof]
}

// ClearAll zeroes every applied force.
func (df *DiscreteForces) ClearAll() {
	for i := range df.body {
		df.body[i] = spatialForce{}
	}
	for i := range df.mobility {
		for d := range df.mobility[i] {
			df.mobility[i][d] = 0
		}
	}
}
