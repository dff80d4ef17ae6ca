package monitor

// LayoutKind says what the body of a frame shows.
type LayoutKind int

const (
	// LayoutCollecting means no devices are known yet.
	LayoutCollecting LayoutKind = iota
	// LayoutTooSmall means the terminal can't fit every panel.
	LayoutTooSmall
	// LayoutPanels means one panel per device.
	LayoutPanels
)

const (
	// reservedRows covers the top border and the status row.
	reservedRows = 2

	// minPanelHeight is the smallest panel that still has room for a plot.
	minPanelHeight = 6

	// panelChrome is the title, stats, and separator rows of a panel.
	panelChrome = 3

	firstPanelRow = 1
	axisColumn    = 7
	plotLeft      = 8

	// plotMargin is the axis gutter plus the right border.
	plotMargin = 10
)

// Panel is the screen geometry of one device.
type Panel struct {
	Index      int
	Top        int
	Height     int
	PlotTop    int
	PlotHeight int
	PlotLeft   int
	PlotWidth  int
}

// Bottom returns the separator row.
func (p Panel) Bottom() int {
	return p.Top + p.Height - 1
}

// Layout is the plan for one frame.
type Layout struct {
	Kind    LayoutKind
	Rows    int
	Cols    int
	Devices int
	// PanelHeight is rows per device; it's set even when the kind is LayoutTooSmall.
	PanelHeight int
	Panels      []Panel
}

// PlanLayout splits a rows x cols terminal into equal-height panels for n devices.
func PlanLayout(rows, cols, n int) Layout {
	l := Layout{Rows: rows, Cols: cols, Devices: n}

	if n <= 0 {
		l.Kind = LayoutCollecting
		return l
	}

	available := rows - reservedRows
	if available < 0 {
		available = 0
	}
	l.PanelHeight = available / n

	plotWidth := cols - plotMargin
	if l.PanelHeight < minPanelHeight || plotWidth <= 0 {
		l.Kind = LayoutTooSmall
		return l
	}

	l.Kind = LayoutPanels
	l.Panels = make([]Panel, n)
	for i := range l.Panels {
		top := firstPanelRow + i*l.PanelHeight
		l.Panels[i] = Panel{
			Index:      i,
			Top:        top,
			Height:     l.PanelHeight,
			PlotTop:    top + 2,
			PlotHeight: l.PanelHeight - panelChrome,
			PlotLeft:   plotLeft,
			PlotWidth:  plotWidth,
		}
	}

	return l
}
