package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	// The header and its border take two rows.
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused in static output, so the cursor row looks like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// DeviceRow is one GPU in the probe summary.
type DeviceRow struct {
	ID           string
	Name         string
	Utilization  []float64
	TemperatureC float64
	ClockMHz     float64
	MemClockMHz  float64
	PowerWatts   float64
}

// HistoryWidth is how many samples the probe table's history column shows.
const HistoryWidth = 12

// RenderDeviceTable renders a per-GPU summary.
func RenderDeviceTable(devices []DeviceRow) string {
	if len(devices) == 0 {
		return MutedStyle().Render("No GPUs reported")
	}

	columns := []TableColumn{
		{Title: "GPU", Width: 20},
		{Title: "NAME", Width: 24},
		{Title: "UTIL", Width: 7},
		{Title: "TEMP", Width: 7},
		{Title: "CLOCK", Width: 10},
		{Title: "MEM CLOCK", Width: 10},
		{Title: "POWER", Width: 8},
		{Title: "HISTORY", Width: HistoryWidth},
	}

	rows := make([][]string, len(devices))
	for i, d := range devices {
		util := "-"
		if n := len(d.Utilization); n > 0 {
			util = fmt.Sprintf("%.1f%%", d.Utilization[n-1])
		}
		rows[i] = []string{
			d.ID,
			d.Name,
			util,
			fmt.Sprintf("%.1fC", d.TemperatureC),
			fmt.Sprintf("%.0f MHz", d.ClockMHz),
			fmt.Sprintf("%.0f MHz", d.MemClockMHz),
			fmt.Sprintf("%.1fW", d.PowerWatts),
			Sparkline(d.Utilization, HistoryWidth),
		}
	}

	return RenderSimpleTable(columns, rows)
}
