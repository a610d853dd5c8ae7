// Package rig defines the passive description of a multibody model: links
// with mass properties and collision shapes, joints with kinematic types and
// attachment frames, and the model container the rest of the pipeline
// consumes.
//
//   - [Pose]: position + orientation of one frame in another
//   - [MassProps]: mass, center of mass, inertia tensor
//   - [Body]: one rigid link
//   - [Joint]: kinematic connector between two links
//   - [Model]: named collection of bodies and joints
//
// Types here carry no simulation state. The multibody graph builder and the
// assembler read them; nothing writes them after load.
package rig
