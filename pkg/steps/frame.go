package steps

import "slices"

// Frame is what a renderer draws for the current step.
type Frame struct {
	Step        int      `json:"step"`
	Label       string   `json:"label,omitempty"`
	Visible     []string `json:"visible"`
	Highlighted []string `json:"highlighted"`
}

// Frame returns the visible and highlighted element ids of the current
// step. A step without an explicit visible list shows everything
// highlighted so far.
func (m *Manager) Frame() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := Frame{Step: m.state.CurrentStep, Visible: []string{}, Highlighted: []string{}}
	if m.state.TotalSteps == 0 {
		return f
	}
	cur := m.steps[m.state.CurrentStep]
	f.Label = cur.Label
	f.Highlighted = append(f.Highlighted, cur.HighlightElements...)
	if len(cur.VisibleElements) > 0 {
		f.Visible = append(f.Visible, cur.VisibleElements...)
		return f
	}
	for _, s := range m.steps[:m.state.CurrentStep+1] {
		for _, id := range s.HighlightElements {
			if !slices.Contains(f.Visible, id) {
				f.Visible = append(f.Visible, id)
			}
		}
	}
	return f
}
