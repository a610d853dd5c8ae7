// Package assembly instantiates validated models as mobilized bodies in a
// dynamics engine system.
//
//   - [Assembler]: accumulates models into one [engine.System], then [Assembler.Finish]
//   - [Handles]: the engine ids carrying a link, master first
//   - [JointRecord]: the mobilizer a joint mapped to and its tree direction
//   - [BuildGraph]: the model-to-spanning-tree step on its own
//
// Static models weld straight to the ground body. Dynamic models go through
// mbgraph first; the assembler walks the resulting mobilizer list in tree
// order, creating one mobilized body per entry, splitting mass properties
// across loop fragments, attaching collision geometry, and finally welding
// slave bodies back to their masters. Joint frames follow the child-side
// convention: the joint frame is given on the child link, and the parent-side
// copy is resolved from the links' default poses unless the joint carries an
// explicit one.
package assembly
