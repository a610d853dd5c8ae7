package assembly

import "errors"

var (
	// ErrUnsupportedJoint marks a joint type the engine has no mobilizer or
	// constraint mapping for. Assembly fails loudly instead of leaving the
	// joint out.
	ErrUnsupportedJoint = errors.New("assembly: unsupported joint type")

	// ErrDuplicateModel is returned when a model name is added twice.
	ErrDuplicateModel = errors.New("assembly: model already added")

	// ErrUnknownLink marks a graph body with no corresponding model link,
	// which indicates a mismatch between graph and model inputs.
	ErrUnknownLink = errors.New("assembly: unknown link")
)
