// Package ui provides styled components for gpuwatch's non-dashboard output.
//
// The live dashboard draws its own frames in package monitor. Everything
// printed line by line (probe summaries, init confirmations, error
// reports) goes through the helpers here so the commands share one palette.
//
// # Components Overview
//
//	Spinner       - Animated status line while sampling the exporter
//	Sparkline     - One-line utilization history on a fixed 0-100 scale
//	DeviceTable   - Per-GPU summary rendered with the Bubbles table
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and skipped items
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output when stdout is not a
// terminal.
package ui
