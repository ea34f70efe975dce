package components

import (
	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/charmbracelet/bubbles/key"
)

// DatePickerKeyMap defines the date picker's key bindings. It implements
// help.KeyMap.
type DatePickerKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Prev   key.Binding
	Next   key.Binding
	Zoom   key.Binding
	Today  key.Binding
	Type   key.Binding
	Cancel key.Binding
}

// DefaultDatePickerKeyMap returns the default bindings.
func DefaultDatePickerKeyMap() DatePickerKeyMap {
	return DatePickerKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←↓↑→", "move"),
		),
		Right:  key.NewBinding(key.WithKeys("right", "l")),
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Prev:   key.NewBinding(key.WithKeys("pgup", "[", "<"), key.WithHelp("[", "prev")),
		Next:   key.NewBinding(key.WithKeys("pgdown", "]", ">"), key.WithHelp("]", "next")),
		Zoom:   key.NewBinding(key.WithKeys("v", "tab"), key.WithHelp("v", "zoom out")),
		Today:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Type:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "type a date")),
		Cancel: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "cancel")),
	}
}

// setMode enables the bindings that make sense in mode. Time grids have no
// paging, zoom or jump to today.
func (k *DatePickerKeyMap) setMode(mode calendar.Mode) {
	dateGrid := mode == calendar.ModeDay || mode == calendar.ModeMonth || mode == calendar.ModeYear
	k.Prev.SetEnabled(dateGrid)
	k.Next.SetEnabled(dateGrid)
	k.Zoom.SetEnabled(dateGrid)
	k.Today.SetEnabled(dateGrid)
	k.Type.SetEnabled(dateGrid)
}

func (k DatePickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Select, k.Zoom, k.Cancel}
}

func (k DatePickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Select},
		{k.Prev, k.Next},
		{k.Zoom, k.Today},
		{k.Type, k.Cancel},
	}
}
