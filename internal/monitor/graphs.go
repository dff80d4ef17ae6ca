package monitor

import "math"

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8
//
// Each plot cell holds four sub-rows. A level mask uses bit j for sub-row j
// counted from the bottom, and the area chart always fills sub-rows
// contiguously from the bottom, so masks are 0b0001, 0b0011, 0b0111, 0b1111.

const brailleBase = '\u2800'

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

const fullMask uint8 = 0b1111

// brailleGlyph returns the character for a level mask with both dot columns set.
func brailleGlyph(mask uint8) rune {
	var bits rune
	for level := 0; level < 4; level++ {
		if mask&(1<<level) == 0 {
			continue
		}
		row := 3 - level
		bits |= 1 << brailleDots[row][0]
		bits |= 1 << brailleDots[row][1]
	}
	return brailleBase + bits
}

// clampPercent limits v to [0, 100]. NaN counts as 0.
func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// quantize maps a utilization value onto a plot of plotHeight cells.
// It returns the topmost filled cell counted from the bottom and the highest
// filled sub-row within it. ok is false for an empty column.
func quantize(value float64, plotHeight int) (row, level int, ok bool) {
	v := clampPercent(value)
	if v == 0 || plotHeight <= 0 {
		return 0, 0, false
	}
	subRows := plotHeight*4 - 1
	high := int(math.Floor(v / 100 * float64(subRows)))
	return high / 4, high % 4, true
}

// columnMasks returns one level mask per plot row, index 0 at the bottom.
func columnMasks(value float64, plotHeight int) []uint8 {
	if plotHeight <= 0 {
		return nil
	}
	masks := make([]uint8, plotHeight)
	row, level, ok := quantize(value, plotHeight)
	if !ok {
		return masks
	}
	for r := 0; r < row; r++ {
		masks[r] = fullMask
	}
	masks[row] = uint8(1<<(level+1)) - 1
	return masks
}

// visibleSamples returns the newest samples that fit in width columns and
// the column offset that right-aligns them.
func visibleSamples(data []float64, width int) ([]float64, int) {
	if width <= 0 {
		return nil, 0
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	return data, width - len(data)
}

// drawAreaChart plots utilization history into a panel's plot rectangle.
func drawAreaChart(c *Canvas, p Panel, data []float64) {
	samples, offset := visibleSamples(data, p.PlotWidth)
	for i, v := range samples {
		col := p.PlotLeft + offset + i
		for r, mask := range columnMasks(v, p.PlotHeight) {
			if mask == 0 {
				continue
			}
			row := p.PlotTop + p.PlotHeight - 1 - r
			c.Set(row, col, brailleGlyph(mask), bandInk(r, p.PlotHeight))
		}
	}
}
