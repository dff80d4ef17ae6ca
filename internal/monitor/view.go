package monitor

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}
	return m.render().String()
}

// render draws the current frame onto a fresh canvas.
func (m Model) render() *Canvas {
	c := NewCanvas(m.height, m.width)
	m.renderer.Render(c, m.store.Snapshot(), m.status, m.now())
	return c
}
