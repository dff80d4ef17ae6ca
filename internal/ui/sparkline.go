package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// Sparkline renders the most recent width percentages as block characters on
// a fixed 0-100 scale. Values outside the range are clamped; NaN counts as 0.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	// Use only the most recent 'width' data points
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)

	top := len(sparklineBlockRunes) - 1
	for _, v := range data {
		switch {
		case math.IsNaN(v), v < 0:
			v = 0
		case v > 100:
			v = 100
		}
		level := int(math.Round(v / 100 * float64(top)))
		sb.WriteRune(sparklineBlockRunes[level])
	}

	return sb.String()
}

// RenderSparkline is Sparkline colored by the most recent value.
func RenderSparkline(data []float64, width int) string {
	line := Sparkline(data, width)
	if line == "" {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	color := getThresholdColor(data[len(data)-1])
	return lipgloss.NewStyle().Foreground(color).Render(line)
}

// getThresholdColor returns a color based on the dashboard's utilization bands.
//   - 0-40%: green (success)
//   - 40-75%: yellow/amber (warning)
//   - above 75%: red (error)
func getThresholdColor(percent float64) lipgloss.Color {
	switch {
	case percent > 75:
		return ColorError
	case percent >= 40:
		return ColorWarning
	default:
		return ColorSuccess
	}
}
