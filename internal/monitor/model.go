package monitor

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/gpuwatch/internal/errors"
	"github.com/rileyhilliard/gpuwatch/internal/logger"
	"github.com/rileyhilliard/gpuwatch/internal/util"
)

const initialStatus = "Initializing..."

// Options configures the dashboard loop.
type Options struct {
	// Interval is the pause between the end of one cycle and the next fetch.
	Interval time.Duration
	// HistoryCap bounds utilization samples per device.
	HistoryCap int
	// SkipMalformed keeps ingesting past lines with bad values.
	SkipMalformed bool
	// StaleAfter mutes devices that stop reporting. Zero disables it.
	StaleAfter time.Duration
	Logger     logger.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Model is the Bubble Tea model for the GPU dashboard.
type Model struct {
	fetcher  Fetcher
	store    *Store
	renderer Renderer
	keys     KeyMap
	log      logger.Logger
	now      func() time.Time

	interval      time.Duration
	skipMalformed bool

	status   Status
	width    int
	height   int
	cycles   int
	fetching bool
	quitting bool
}

// tickMsg signals that the interval has elapsed and the next cycle may start.
type tickMsg time.Time

// fetchResultMsg carries the outcome of one fetch back to Update.
type fetchResultMsg struct {
	body    string
	err     error
	elapsed time.Duration
}

// NewModel creates a dashboard model polling fetcher.
func NewModel(fetcher Fetcher, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	store := NewStore(opts.HistoryCap)
	store.now = opts.Now

	return Model{
		fetcher:       fetcher,
		store:         store,
		renderer:      NewRenderer(opts.StaleAfter),
		keys:          DefaultKeyMap(),
		log:           opts.Logger,
		now:           opts.Now,
		interval:      opts.Interval,
		skipMalformed: opts.SkipMalformed,
		status:        Status{Kind: StatusInfo, Text: initialStatus},
	}
}

// Init starts the first cycle immediately.
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.quitting || m.fetching {
			return m, nil
		}
		m.fetching = true
		return m, m.fetchCmd()

	case fetchResultMsg:
		m.fetching = false
		m.applyResult(msg)
		if m.quitting {
			return m, nil
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// tickCmd schedules the next cycle one interval from now.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchCmd runs one fetch off the update goroutine. The fetcher bounds the
// request with its own timeout.
func (m Model) fetchCmd() tea.Cmd {
	fetcher, now := m.fetcher, m.now
	return func() tea.Msg {
		start := now()
		body, err := fetcher.Fetch(context.Background())
		return fetchResultMsg{body: body, err: err, elapsed: now().Sub(start)}
	}
}

// applyResult ingests one fetch result and sets the status line.
func (m *Model) applyResult(msg fetchResultMsg) {
	m.cycles++

	if msg.body == "" {
		err := msg.err
		if err == nil {
			err = errors.New(errors.ErrFetch, "Empty response from exporter", "")
		}
		m.log.Warn("fetch failed after %s: %v", msg.elapsed, errors.Summary(err))
		m.status = Status{Kind: StatusError, Text: "Fetch error: " + errors.Summary(err)}
		return
	}

	res, err := IngestWithOptions(m.store, msg.body, IngestOptions{SkipMalformed: m.skipMalformed})
	for _, id := range res.NewDevices {
		v, _ := m.store.Get(id)
		m.log.Info("discovered GPU %s (%s)", id, v.Label())
	}
	if err != nil {
		m.log.Warn("parse failed: %v", errors.Summary(err))
		m.status = Status{Kind: StatusError, Text: "Parse error: " + errors.Summary(err)}
		return
	}

	m.log.Debug("cycle %d: %d lines, %d applied, %d skipped, %d malformed in %s (new: %s)",
		m.cycles, res.Lines, res.Applied, res.Skipped, res.Malformed, msg.elapsed,
		util.JoinOrDefault(res.NewDevices, "none"))

	if res.Applied == 0 {
		m.status = Status{Kind: StatusWarn, Text: "Warning: no metrics found in response"}
		return
	}

	text := fmt.Sprintf("OK. Tracking %d GPUs.", m.store.Len())
	if res.Malformed > 0 {
		text += fmt.Sprintf(" Skipped %d malformed %s.", res.Malformed, util.Pluralize(res.Malformed, "line", "lines"))
	}
	m.status = Status{Kind: StatusOK, Text: text}
}

// Status returns the current status line.
func (m Model) Status() Status {
	return m.status
}

// Store returns the device store.
func (m Model) Store() *Store {
	return m.store
}
