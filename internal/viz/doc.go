// Package viz provides terminal-based visualization for simulated scenes.
//
//   - [Canvas]: Braille pixel buffer with Bresenham line drawing
//   - [Renderer]: projects link poses onto a Canvas (X/Z side view)
//   - [Live]: Bubble Tea program that steps a world and draws it
//   - [Series], [Chart]: position traces from recorded runs as ASCII plots
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset world to initial state
//	Q     - Quit
package viz
