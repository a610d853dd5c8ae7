package engine

import "errors"

var (
	// ErrAlreadyRealized indicates construction after RealizeTopology.
	ErrAlreadyRealized = errors.New("engine: topology already realized")

	// ErrNotRealized indicates a call that needs a realized topology.
	ErrNotRealized = errors.New("engine: topology not realized")

	// ErrBadMobod indicates a mobilized-body id outside the tree.
	ErrBadMobod = errors.New("engine: mobilized body id out of range")

	// ErrBadDefault indicates a default transform on a mobilizer kind that
	// cannot hold one.
	ErrBadDefault = errors.New("engine: default transform unsupported for mobilizer kind")

	// ErrDiverged indicates a non-finite state after an integration
	// sub-step. Fatal for the simulation session.
	ErrDiverged = errors.New("engine: integration diverged (non-finite state)")
)
