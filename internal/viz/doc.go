// Package viz renders a propagated trajectory in the terminal.
//
// [Replay] is a Bubble Tea model that plays back a finished history on a
// braille [Canvas], projected through an orthographic [Camera], with a
// lipgloss side panel of radius, speed and energy.
//
// # Key Bindings
//
//	Space   - pause/resume
//	←/→     - step one sample back/forward
//	+/-     - playback speed
//	w/a/s/d - rotate the camera
//	z/x     - zoom in/out
//	t       - cycle color themes
//	q       - quit
package viz
