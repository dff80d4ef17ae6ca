package monitor

import (
	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette - Electric Synthwave
const (
	ColorBorder = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Utilization bands
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	ColorAccent = lipgloss.Color("#FF2E97") // Neon pink
)

// Band boundaries as a fraction of plot height, measured from the bottom.
const (
	HighBandFraction = 0.75
	MidBandFraction  = 0.4
)

// Cell inks used by the renderer.
var (
	BorderInk     = Ink{FG: ColorBorder}
	TitleInk      = Ink{FG: ColorAccent, Bold: true}
	HintInk       = Ink{FG: ColorTextMuted}
	DeviceInk     = Ink{FG: ColorTextPrimary, Bold: true}
	StaleInk      = Ink{FG: ColorTextMuted, Faint: true}
	StatsInk      = Ink{FG: ColorTextSecondary}
	AxisInk       = Ink{FG: ColorTextMuted}
	MessageInk    = Ink{FG: ColorTextSecondary, Bold: true}
	HighBandInk   = Ink{FG: ColorCritical}
	MidBandInk    = Ink{FG: ColorWarning}
	LowBandInk    = Ink{FG: ColorHealthy}
	StatusOKInk   = Ink{FG: ColorHealthy}
	StatusWarnInk = Ink{FG: ColorWarning}
	StatusErrInk  = Ink{FG: ColorCritical}
	StatusInfoInk = Ink{FG: ColorTextSecondary}
)

// bandInk returns the color for a plot row counted from the bottom.
func bandInk(rowFromBottom, plotHeight int) Ink {
	if plotHeight <= 0 {
		return LowBandInk
	}
	f := float64(rowFromBottom) / float64(plotHeight)
	switch {
	case f > HighBandFraction:
		return HighBandInk
	case f >= MidBandFraction:
		return MidBandInk
	default:
		return LowBandInk
	}
}
