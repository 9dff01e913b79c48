package steps

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to navigation actions. It satisfies the help.KeyMap
// interface from bubbles, so it can be rendered by a help view.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	First  key.Binding
	Last   key.Binding
	Toggle key.Binding
}

// DefaultKeyMap maps Right/Down/Space to next, Left/Up to previous,
// Home/End to the first and last step and p/P to auto-advance.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "down", " "),
			key.WithHelp("→/space", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "up"),
			key.WithHelp("←", "previous"),
		),
		First: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("p", "P"),
			key.WithHelp("p", "auto-advance"),
		),
	}
}

func (k KeyMap) empty() bool {
	return len(k.Next.Keys())+len(k.Prev.Keys())+len(k.First.Keys())+len(k.Last.Keys())+len(k.Toggle.Keys()) == 0
}

// ShortHelp returns the bindings shown in a compact help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Toggle}
}

// FullHelp returns all bindings, grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.First, k.Last}, {k.Toggle}}
}
