// Package viz holds the terminal-rendering primitives internal/tui builds
// its rigid-body views on top of:
//
//   - [Canvas]: Braille-based sub-pixel canvas for high-fidelity line/point drawing
//   - lipgloss style presets (title, labels, key hints, status indicators,
//     sparklines, separator)
//   - Theme selection with 5 built-in color schemes
package viz
