package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// KeyMap holds the in-game key bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Place      key.Binding
	Start      key.Binding
	Undo       key.Binding
	Skip       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Next       key.Binding
	Export     key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding

	// Level editor bindings, unbound in the game key map.
	Tool       key.Binding
	Rotate     key.Binding
	GrowRows   key.Binding
	ShrinkRows key.Binding
	GrowCols   key.Binding
	ShrinkCols key.Binding
	MoreDelay  key.Binding
	LessDelay  key.Binding

	editor bool
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	if k.editor {
		return []key.Binding{k.Place, k.Tool, k.Rotate, k.Export, k.Help, k.Quit}
	}
	return []key.Binding{k.Place, k.Start, k.Undo, k.Skip, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	if k.editor {
		return [][]key.Binding{
			{k.Up, k.Down, k.Left, k.Right},
			{k.Place, k.Tool, k.Rotate, k.Export},
			{k.GrowRows, k.ShrinkRows, k.GrowCols, k.ShrinkCols},
			{k.MoreDelay, k.LessDelay, k.Restart, k.Quit},
		}
	}
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Place, k.Start, k.Undo, k.Skip},
		{k.Pause, k.Restart, k.Next, k.Export},
		{k.Screenshot, k.Help, k.Back, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l", "right"),
		),
		Place: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "place pipe"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open valve"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Skip: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "skip pipe"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next map"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "save generated map"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// EditorKeyMap returns the level editor bindings. Game-only keys are
// unbound and the shared ones are relabelled.
func EditorKeyMap() KeyMap {
	k := DefaultKeyMap()
	k.editor = true
	k.Start = key.Binding{}
	k.Undo = key.Binding{}
	k.Skip = key.Binding{}
	k.Pause = key.Binding{}
	k.Next = key.Binding{}
	k.Place.SetHelp("space", "paint tile")
	k.Export.SetHelp("e", "save map")
	k.Restart.SetHelp("r", "reload file")

	k.Tool = key.NewBinding(
		key.WithKeys("t", "tab"),
		key.WithHelp("t", "next tool"),
	)
	k.Rotate = key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "rotate end"),
	)
	k.GrowRows = key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "add row"),
	)
	k.ShrinkRows = key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "drop row"),
	)
	k.GrowCols = key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "add column"),
	)
	k.ShrinkCols = key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "drop column"),
	)
	k.MoreDelay = key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more delay"),
	)
	k.LessDelay = key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "less delay"),
	)
	return k
}

// Action translates a key to a game action. Keys handled by the model
// itself (help, screenshot, back, quit) map to ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Place):
		return core.ActionPlace
	case key.Matches(msg, k.Start):
		return core.ActionStart
	case key.Matches(msg, k.Undo):
		return core.ActionUndo
	case key.Matches(msg, k.Skip):
		return core.ActionSkip
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Next):
		return core.ActionNext
	case key.Matches(msg, k.Export):
		return core.ActionExport
	case key.Matches(msg, k.Tool):
		return core.ActionTool
	case key.Matches(msg, k.Rotate):
		return core.ActionRotate
	case key.Matches(msg, k.GrowRows):
		return core.ActionGrowRows
	case key.Matches(msg, k.ShrinkRows):
		return core.ActionShrinkRows
	case key.Matches(msg, k.GrowCols):
		return core.ActionGrowCols
	case key.Matches(msg, k.ShrinkCols):
		return core.ActionShrinkCols
	case key.Matches(msg, k.MoreDelay):
		return core.ActionMoreDelay
	case key.Matches(msg, k.LessDelay):
		return core.ActionLessDelay
	}
	return core.ActionNone
}
