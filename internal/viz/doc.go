// Package viz renders flight results for the terminal and for files.
//
//   - Styled tables for the vehicle, flight events, performance and presets
//   - asciigraph charts of altitude, speed and Mach
//   - [SavePNG]: gonum/plot charts written as PNG files
//   - [Replay]: a Bubble Tea viewer that steps through a stored trajectory
//
// # Replay Key Bindings
//
//	Space - Pause/Resume playback
//	←/→   - Step one frame (pauses)
//	[/]   - Slower/faster playback
//	Home  - Restart
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
