package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Speak     key.Binding
	Difficult key.Binding
	Letters   key.Binding
	Mode      key.Binding
	Pause     key.Binding
	Longer    key.Binding
	Shorter   key.Binding
	Copy      key.Binding
	Back      key.Binding
	Quit      key.Binding

	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Reset   key.Binding
	Retry   key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	SoundLeft  key.Binding
	SoundRight key.Binding
	SoundSay   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys(" ", "space", "enter", "right"), key.WithHelp("space", "next word")),
		Prev:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "back")),
		Speak:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "say word")),
		Difficult: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficult")),
		Letters:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "letters")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Longer:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "countdown")),
		Shorter:   key.NewBinding(key.WithKeys("-")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "days")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "choose")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		Reset:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset progress")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),

		SoundLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "pick sound")),
		SoundRight: key.NewBinding(key.WithKeys("right")),
		SoundSay:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "say sound")),
	}
}

// bindings returns the help line entries of a view.
func (k keyMap) bindings(v view, letterMode bool) []key.Binding {
	switch v {
	case viewContentError:
		return []key.Binding{k.Retry, k.Quit}
	case viewSelector:
		return []key.Binding{k.Up, k.Select, k.Reset, k.Quit}
	case viewReading:
		if letterMode {
			return []key.Binding{k.SoundLeft, k.SoundSay, k.Letters, k.Quit}
		}
		return []key.Binding{k.Next, k.Prev, k.Speak, k.Difficult, k.Letters, k.Mode, k.Pause, k.Longer, k.Copy, k.Back, k.Quit}
	case viewSummary:
		return []key.Binding{k.Select, k.Quit}
	case viewCelebration:
		return []key.Binding{k.Select, k.Back, k.Quit}
	case viewResetConfirm:
		return []key.Binding{k.Confirm, k.Cancel}
	default:
		return []key.Binding{k.Quit}
	}
}
