package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Back      key.Binding

	Feed     key.Binding
	Discover key.Binding
	Create   key.Binding
	Reels    key.Binding
	Profile  key.Binding
	Messages key.Binding
	Activity key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Enter key.Binding
	Tab   key.Binding

	Like     key.Binding
	Bookmark key.Binding
	Comment  key.Binding
	Reply    key.Binding
	Story    key.Binding
	AddStory key.Binding
	Search   key.Binding
	Edit     key.Binding
	Settings key.Binding

	Name     key.Binding
	Username key.Binding
	Bio      key.Binding

	File    key.Binding
	Record  key.Binding
	Caption key.Binding
	Stop    key.Binding

	Pause key.Binding
	Mute  key.Binding

	ChoosePost key.Binding
	ChooseLive key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Feed:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		Discover: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "discover")),
		Create:   key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "create")),
		Reels:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "reels")),
		Profile:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "profile")),
		Messages: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "messages")),
		Activity: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "activity")),

		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),

		Like:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "save")),
		Comment:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Reply:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
		Story:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "watch story")),
		AddStory: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add story")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit profile")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),

		Name:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "name")),
		Username: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "username")),
		Bio:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bio")),

		File:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "choose file")),
		Record:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
		Caption: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "caption")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "end live")),

		Pause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Mute:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),

		ChoosePost: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "post")),
		ChooseLive: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "live")),
		Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		Cancel:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
	}
}
