// Package engine is the multibody dynamics engine behind the assembler and
// the stepper. The rest of the repository consumes it through a narrow
// surface and treats the numerics as opaque:
//
//   - [System]: mobilizer tree construction, weld constraints, contact
//     surfaces, gravity, and one-time [System.RealizeTopology]
//   - [State]: generalized positions and speeds, segmented per mobilizer
//   - [DiscreteForces]: externally applied one-shot forces
//   - [Integrator]: advances the state with [Integrator.StepTo]
//
// The implementation is reference-grade: forward kinematics are exact,
// force mapping uses the Jacobian transpose over each mobilizer's outboard
// subtree with a diagonal effective-mass approximation, and weld
// constraints are enforced by critically damped penalty springs. Pin
// mobilizers rotate about their mobilizer frame Z axis and sliders
// translate along X; callers align arbitrary joint axes by pre-rotating the
// attachment frames.
package engine
