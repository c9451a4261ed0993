// Package viz renders leptosim results in the terminal.
//
//   - [RenderReport]: lipgloss summary of a finished run
//   - [Chart]: asciigraph plot of a sampled trajectory
//   - [Progress]: Bubble Tea view fed by solver observers while a run is in
//     flight
//
// # Key Bindings
//
//	q, Ctrl+C - abort the run
package viz
