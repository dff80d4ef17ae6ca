// Package monitor implements a real-time TUI dashboard for GPU metrics
// scraped from an HTTP exporter.
//
// The dashboard polls one endpoint, folds the response into per-device
// state, and draws one braille area chart of utilization per GPU, with
// temperature, clocks, and power shown above each chart.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds the device store, status line, and terminal size
//   - Update: Processes messages (keystrokes, ticks, fetch results, resizes)
//   - View: Renders the current state to a string for display
//
// # Key Components
//
//	Model       - The Bubble Tea model driving the poll cycle
//	Fetcher     - Retrieves the exporter response over one reused connection
//	Ingest      - Applies exposition lines to the Store
//	Store       - Per-device scalars plus bounded utilization history
//	Renderer    - Draws a frame onto a Canvas using a planned Layout
//
// # Message Flow
//
// The dashboard runs one cycle at a time:
//
//  1. Init (or a tickMsg) starts fetchCmd
//  2. fetchResultMsg arrives and Update ingests it into the Store
//  3. View() re-renders the frame from a Store snapshot
//  4. tickCmd schedules the next cycle one interval later
//
// The next tick is only scheduled once a result has been applied, so cycles
// never overlap and a slow exporter stretches the period instead of queuing
// requests. The Store is touched only from Update, so it carries no locks.
//
// # Layout
//
// Rows between the top border and the status line are split evenly between
// devices, ordered by ID. A panel shorter than six rows doesn't fit and the
// dashboard shows a "too small" message instead of any chart.
package monitor
