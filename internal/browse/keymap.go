package browse

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the Normal-mode bindings.
type KeyMap struct {
	Quit      key.Binding
	Down      key.Binding
	Up        key.Binding
	First     key.Binding
	Chord     key.Binding
	Last      key.Binding
	Enter     key.Binding
	Ascend    key.Binding
	Refresh   key.Binding
	Search    key.Binding
	NextHit   key.Binding
	Copy      key.Binding
	Help      key.Binding
	Interrupt key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Interrupt: key.NewBinding(key.WithKeys("ctrl+c")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		First:     key.NewBinding(key.WithKeys("home"), key.WithHelp("gg/home", "first")),
		Chord:     key.NewBinding(key.WithKeys("g")),
		Last:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G/end", "last")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Ascend:    key.NewBinding(key.WithKeys("backspace", "h", "left"), key.WithHelp("h/←", "parent")),
		Refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextHit:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy uri")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Enter, k.Search, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.First, k.Last},
		{k.Enter, k.Ascend, k.Refresh},
		{k.Search, k.NextHit, k.Copy},
		{k.Help, k.Quit},
	}
}
