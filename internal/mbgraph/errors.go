package mbgraph

import "errors"

// Construction errors. All of them fail the surrounding model load.
var (
	// ErrUnknownJointType indicates a joint declared with an unregistered type.
	ErrUnknownJointType = errors.New("mbgraph: unknown joint type")

	// ErrUnknownBody indicates a joint endpoint that was never registered.
	ErrUnknownBody = errors.New("mbgraph: unknown body")

	// ErrDuplicate indicates a body, joint, or joint type registered twice.
	ErrDuplicate = errors.New("mbgraph: duplicate registration")

	// ErrSelfJoint indicates a joint connecting a body to itself.
	ErrSelfJoint = errors.New("mbgraph: joint connects body to itself")

	// ErrNoGround indicates Build ran without an immovable body.
	ErrNoGround = errors.New("mbgraph: no immovable ground body registered")

	// ErrMultipleGrounds indicates more than one immovable body.
	ErrMultipleGrounds = errors.New("mbgraph: more than one immovable body")

	// ErrReservedName indicates a user name with the generated-name prefix.
	ErrReservedName = errors.New("mbgraph: names starting with '#' are reserved")
)
