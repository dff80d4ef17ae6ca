package monitor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	frameTitle        = "[ GPU Monitor ]"
	collectingMessage = "Collecting data..."
	tooSmallFormat    = "Terminal too small for %d charts!"
	statsFormat       = "%.1fC | %.0f MHz | %.0f MHz (Mem) | %.1fW"
	staleSuffix       = " (stale)"
)

// StatusKind classifies the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusOK
	StatusWarn
	StatusError
)

// Status is the one-line outcome of the last cycle.
type Status struct {
	Kind StatusKind
	Text string
}

func (s Status) ink() Ink {
	switch s.Kind {
	case StatusOK:
		return StatusOKInk
	case StatusWarn:
		return StatusWarnInk
	case StatusError:
		return StatusErrInk
	default:
		return StatusInfoInk
	}
}

// Renderer draws a full dashboard frame onto a Canvas. It only reads the
// device views it is given.
type Renderer struct {
	// StaleAfter mutes devices with no update for this long. Zero disables it.
	StaleAfter time.Duration
	Keys       KeyMap
}

// NewRenderer creates a renderer with the default key map.
func NewRenderer(staleAfter time.Duration) Renderer {
	return Renderer{StaleAfter: staleAfter, Keys: DefaultKeyMap()}
}

// Render clears c and draws the frame, status, and one panel per device.
// It returns the layout that was used.
func (r Renderer) Render(c *Canvas, devices []DeviceView, status Status, now time.Time) Layout {
	c.Clear()
	rows, cols := c.Size()
	layout := PlanLayout(rows, cols, len(devices))

	r.drawFrame(c, rows, cols)
	r.drawStatus(c, rows, cols, status)

	switch layout.Kind {
	case LayoutCollecting:
		c.WriteString(rows/2, centered(cols, 20), collectingMessage, MessageInk)
	case LayoutTooSmall:
		c.WriteString(rows/2, centered(cols, 35), fmt.Sprintf(tooSmallFormat, len(devices)), StatusWarnInk)
	case LayoutPanels:
		for i, p := range layout.Panels {
			r.drawPanel(c, p, devices[i], now)
		}
	}

	return layout
}

func centered(cols, width int) int {
	col := (cols - width) / 2
	if col < 0 {
		return 0
	}
	return col
}

func (r Renderer) quitHint() string {
	k := r.Keys.Quit.Help().Key
	if k == "" {
		k = "q"
	}
	return fmt.Sprintf("[ Press '%s' to quit ]", k)
}

func (r Renderer) drawFrame(c *Canvas, rows, cols int) {
	if rows < 2 || cols < 2 {
		return
	}
	b := lipgloss.RoundedBorder()

	c.HLine(0, 1, cols-2, firstRune(b.Top), BorderInk)
	c.HLine(rows-1, 1, cols-2, firstRune(b.Bottom), BorderInk)
	c.VLine(1, 0, rows-2, firstRune(b.Left), BorderInk)
	c.VLine(1, cols-1, rows-2, firstRune(b.Right), BorderInk)
	c.Set(0, 0, firstRune(b.TopLeft), BorderInk)
	c.Set(0, cols-1, firstRune(b.TopRight), BorderInk)
	c.Set(rows-1, 0, firstRune(b.BottomLeft), BorderInk)
	c.Set(rows-1, cols-1, firstRune(b.BottomRight), BorderInk)

	c.WriteString(0, 2, truncate(frameTitle, cols-4), TitleInk)

	hint := r.quitHint()
	if cols >= len(frameTitle)+len(hint)+6 {
		c.WriteString(0, cols-len(hint)-2, hint, HintInk)
	}
}

func (r Renderer) drawStatus(c *Canvas, rows, cols int, status Status) {
	if rows < 1 {
		return
	}
	c.WriteString(rows-1, 2, truncate("Status: "+status.Text, cols-4), status.ink())
}

func (r Renderer) drawPanel(c *Canvas, p Panel, d DeviceView, now time.Time) {
	limit := p.PlotWidth - 2

	title, titleInk := d.Label(), DeviceInk
	if d.IsStale(now, r.StaleAfter) {
		title, titleInk = title+staleSuffix, StaleInk
	}
	c.WriteString(p.Top, p.PlotLeft, truncate(title, limit), titleInk)

	stats := fmt.Sprintf(statsFormat, d.TemperatureC, d.ClockMHz, d.MemClockMHz, d.PowerWatts)
	c.WriteString(p.Top+1, p.PlotLeft, truncate(stats, limit), StatsInk)

	c.VLine(p.PlotTop, axisColumn, p.PlotHeight, '│', AxisInk)
	c.WriteString(p.PlotTop, 0, axisLabel(100), AxisInk)
	c.WriteString(p.PlotTop+p.PlotHeight/2, 0, axisLabel(50), AxisInk)
	c.WriteString(p.PlotTop+p.PlotHeight-1, 0, axisLabel(0), AxisInk)

	_, cols := c.Size()
	c.HLine(p.Bottom(), 1, cols-2, '─', BorderInk)

	drawAreaChart(c, p, d.Utilization)
}

func axisLabel(v float64) string {
	return fmt.Sprintf("%6.1f%%", v)
}

// truncate cuts s to at most n terminal columns, never splitting a
// double-width rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	used := 0
	for i, r := range s {
		_, w := glyph(r)
		if used+w > n {
			return s[:i]
		}
		used += w
	}
	return s
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
