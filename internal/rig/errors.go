package rig

import "errors"

// Validation errors surfaced as load failures before graph construction.
var (
	// ErrEmptyName indicates a model, body, or joint without a name.
	ErrEmptyName = errors.New("rig: empty name")

	// ErrDuplicateName indicates two entities sharing one name in a model.
	ErrDuplicateName = errors.New("rig: duplicate name")

	// ErrUnknownBody indicates a joint referencing an undeclared link.
	ErrUnknownBody = errors.New("rig: joint references unknown body")

	// ErrSelfJoint indicates a joint connecting a link to itself.
	ErrSelfJoint = errors.New("rig: joint connects body to itself")

	// ErrBadMassProps indicates unusable mass properties on a dynamic body.
	ErrBadMassProps = errors.New("rig: invalid mass properties")

	// ErrZeroAxis indicates a single-axis joint with no axis direction.
	ErrZeroAxis = errors.New("rig: joint axis is zero")

	// ErrUnknownJointType indicates a joint type name outside the closed set.
	ErrUnknownJointType = errors.New("rig: unknown joint type")
)
