// Package cli implements the gpuwatch command-line interface.
//
// Each Cobra command loads configuration through loadConfig, which layers
// explicitly set flags over the config file and defaults, then hands off
// to the monitor package.
//
// # Command Structure
//
//	gpuwatch            - Full-screen GPU utilization dashboard
//	gpuwatch probe      - Fetch once (or --samples N times) and print a table
//	gpuwatch init       - Create .gpuwatch.yaml
//	gpuwatch version    - Print version information
//
// # Flag Handling
//
// Global flags (--config, --endpoint, --interval, --history-cap,
// --log-file) are persistent on the root command. A flag only overrides
// the config file when it was set on the command line.
//
// The dashboard owns the terminal, so it refuses to start when stdout is
// not a TTY. Diagnostics go to --log-file, never to the screen.
package cli
