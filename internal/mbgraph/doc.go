// Package mbgraph turns a set of bodies and joints, possibly containing
// kinematic loops, into a spanning-tree-plus-constraints topology a
// multibody engine can instantiate.
//
//   - [Builder]: registers joint types, bodies, and joints, then [Builder.Build]
//   - [Graph]: the ordered mobilizer list plus loop constraints
//   - [Mobilizer]: one tree joint, inboard body first
//   - [LoopConstraint]: rigid coupling closing a cycle
//
// The builder guarantees the mobilizer list is emitted in tree order: every
// entry's inboard body is the ground or has already appeared as an earlier
// entry's outboard body. Cycles never become mobilizers directly; the chosen
// endpoint is duplicated into a slave body, the cycle-closing joint
// mobilizes the slave, and a weld constraint ties the slave back to its
// master. Generated bodies and joints are named with a leading '#', which is
// reserved.
package mbgraph
