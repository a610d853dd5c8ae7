// Package world owns a running simulation: the model registry, the engine
// context built from it, and the scene poses readers observe.
//
//   - [World]: explicit simulation context, constructed with options
//   - [World.Load] / [World.Unload]: swap the engine context atomically
//   - [World.Step] / [World.Run]: advance to a target time and publish poses
//   - [StepStats]: what one step did, fed to hooks
//   - [Hooks]: lifecycle callbacks for metrics and observers
//
// Loading rebuilds the whole engine context from scratch with every
// registered model, seeds it from the scene's last published poses, and
// swaps it in only on success; a failed load leaves the running world
// untouched. One mutex serializes stepping and model management, taken
// once per operation and released on every path.
package world
