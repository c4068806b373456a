// Package viz renders trajectories in the terminal.
//
//   - [TimeSeries]: ASCII line graph of a scalar trajectory
//   - [PhasePlot]: Braille-based pixel canvas for phase portraits
//
// Shared lipgloss styles for the live view live here as well.
package viz
