package monitor

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// Ink is the style of one canvas cell. The zero Ink is unstyled.
type Ink struct {
	FG    lipgloss.Color
	Bold  bool
	Faint bool
}

func (i Ink) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if i.FG != "" {
		s = s.Foreground(i.FG)
	}
	if i.Bold {
		s = s.Bold(true)
	}
	if i.Faint {
		s = s.Faint(true)
	}
	return s
}

type cell struct {
	r   rune
	ink Ink
	// wide marks a rune that also covers the next cell; cont marks that
	// covered cell, which renders as nothing.
	wide bool
	cont bool
}

// Canvas is a fixed grid of terminal columns. A double-width rune takes two
// cells. Writes outside the grid are clipped.
type Canvas struct {
	rows  int
	cols  int
	cells []cell
}

// NewCanvas creates a blank canvas.
func NewCanvas(rows, cols int) *Canvas {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	c := &Canvas{rows: rows, cols: cols, cells: make([]cell, rows*cols)}
	c.Clear()
	return c
}

// Size returns rows and columns.
func (c *Canvas) Size() (int, int) {
	return c.rows, c.cols
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

func (c *Canvas) inside(row, col int) bool {
	return row >= 0 && row < c.rows && col >= 0 && col < c.cols
}

// glyph normalizes r for drawing and returns the columns it occupies.
// Control characters and zero-width runes become spaces.
func glyph(r rune) (rune, int) {
	if unicode.IsControl(r) {
		return ' ', 1
	}
	switch w := lipgloss.Width(string(r)); {
	case w <= 0:
		return ' ', 1
	case w >= 2:
		return r, 2
	}
	return r, 1
}

// Set writes one rune. A double-width rune that doesn't fit before the
// right edge is drawn as a space.
func (c *Canvas) Set(row, col int, r rune, ink Ink) {
	if !c.inside(row, col) {
		return
	}
	r, w := glyph(r)
	if w == 2 && col+1 >= c.cols {
		r, w = ' ', 1
	}

	c.release(row, col)
	if w == 2 {
		c.release(row, col+1)
	}

	i := row*c.cols + col
	c.cells[i] = cell{r: r, ink: ink, wide: w == 2}
	if w == 2 {
		c.cells[i+1] = cell{ink: ink, cont: true}
	}
}

// release blanks the other half of a double-width rune overlapping
// (row, col), so overwriting one half never leaves a broken glyph.
func (c *Canvas) release(row, col int) {
	i := row*c.cols + col
	switch cl := c.cells[i]; {
	case cl.cont:
		c.cells[i-1] = cell{r: ' ', ink: c.cells[i-1].ink}
	case cl.wide:
		c.cells[i+1] = cell{r: ' ', ink: cl.ink}
	}
}

// At returns the rune and ink at a cell, or a blank for out-of-range cells.
// The right half of a double-width rune reads as a blank.
func (c *Canvas) At(row, col int) (rune, Ink) {
	if !c.inside(row, col) {
		return ' ', Ink{}
	}
	cl := c.cells[row*c.cols+col]
	if cl.cont {
		return ' ', cl.ink
	}
	return cl.r, cl.ink
}

// WriteString writes s left to right starting at (row, col), advancing by
// each rune's display width.
func (c *Canvas) WriteString(row, col int, s string, ink Ink) {
	for _, r := range s {
		_, w := glyph(r)
		c.Set(row, col, r, ink)
		col += w
	}
}

// HLine draws n copies of r to the right of (row, col).
func (c *Canvas) HLine(row, col, n int, r rune, ink Ink) {
	for i := 0; i < n; i++ {
		c.Set(row, col+i, r, ink)
	}
}

// VLine draws n copies of r downward from (row, col).
func (c *Canvas) VLine(row, col, n int, r rune, ink Ink) {
	for i := 0; i < n; i++ {
		c.Set(row+i, col, r, ink)
	}
}

// Line returns one row as plain text.
func (c *Canvas) Line(row int) string {
	if row < 0 || row >= c.rows {
		return ""
	}
	var b strings.Builder
	for _, cl := range c.cells[row*c.cols : (row+1)*c.cols] {
		if !cl.cont {
			b.WriteRune(cl.r)
		}
	}
	return b.String()
}

// Plain returns the whole canvas as unstyled text.
func (c *Canvas) Plain() string {
	lines := make([]string, c.rows)
	for i := range lines {
		lines[i] = c.Line(i)
	}
	return strings.Join(lines, "\n")
}

// Count returns how many cells in the rectangle satisfy fn.
func (c *Canvas) Count(top, left, height, width int, fn func(r rune) bool) int {
	n := 0
	for row := top; row < top+height; row++ {
		for col := left; col < left+width; col++ {
			if r, _ := c.At(row, col); c.inside(row, col) && fn(r) {
				n++
			}
		}
	}
	return n
}

// String renders the canvas with styles, grouping runs of equal ink.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		cells := c.cells[row*c.cols : (row+1)*c.cols]
		start := 0
		for i := 1; i <= len(cells); i++ {
			if i < len(cells) && cells[i].ink == cells[start].ink {
				continue
			}
			writeRun(&b, cells[start:i])
			start = i
		}
	}
	return b.String()
}

func writeRun(b *strings.Builder, run []cell) {
	if len(run) == 0 {
		return
	}
	text := make([]rune, 0, len(run))
	for _, cl := range run {
		if !cl.cont {
			text = append(text, cl.r)
		}
	}
	if run[0].ink == (Ink{}) {
		b.WriteString(string(text))
		return
	}
	b.WriteString(run[0].ink.style().Render(string(text)))
}
