package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-pipes/internal/pipes/levels"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// StatsSource provides per-level statistics. *storage.Store implements it.
type StatsSource interface {
	Stats(level string) (*storage.LevelStats, error)
}

// levelItem is one entry of the level picker.
type levelItem struct {
	name string
	desc string
}

func (i levelItem) Title() string {
	if i.name == levels.Generate {
		return "Random map"
	}
	return i.name
}

func (i levelItem) Description() string { return i.desc }
func (i levelItem) FilterValue() string { return i.name }

// PickerKeyMap holds the picker bindings on top of the list's own.
type PickerKeyMap struct {
	Select  key.Binding
	Results key.Binding
	Quit    key.Binding
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Results: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "results"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel is the level picker: the random map first, then every map
// file of the directory.
type PickerModel struct {
	list     list.Model
	keys     PickerKeyMap
	selected string
	results  bool
	quitting bool
}

// NewPickerModel lists names after the random map. stats may be nil.
func NewPickerModel(names []string, stats StatsSource, theme Theme, width, height int) PickerModel {
	items := make([]list.Item, 0, len(names)+1)
	items = append(items, levelItem{name: levels.Generate, desc: "A fresh random map every time"})
	for _, name := range names {
		items = append(items, levelItem{name: name, desc: describeLevel(stats, name)})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.MenuItemActive.GetForeground())
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(theme.MenuItemNormal.GetForeground())

	keys := DefaultPickerKeyMap()
	l := list.New(items, delegate, width, height)
	l.Title = "P I P E S"
	l.Styles.Title = theme.MenuTitle
	l.SetStatusBarItemName("map", "maps")
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select, keys.Results, keys.Quit}
	}

	return PickerModel{list: l, keys: keys}
}

// describeLevel summarises the recorded results of a level.
func describeLevel(stats StatsSource, name string) string {
	if stats == nil {
		return "Map file"
	}
	st, err := stats.Stats(name)
	if err != nil || st.Plays == 0 {
		return "Not played yet"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d played, %d won", st.Plays, st.Wins)
	if st.Wins > 0 {
		fmt.Fprintf(&b, ", best %s in %d moves", clockText(st.BestSeconds), st.FewestMoves)
	}
	if !st.LastPlayed.IsZero() {
		b.WriteString(", last " + humanize.Time(st.LastPlayed))
	}
	return b.String()
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Results):
			m.results = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(levelItem); ok {
				m.selected = item.name
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the chosen level, or "" while still choosing.
func (m PickerModel) Selected() string {
	return m.selected
}

// WantsResults reports whether the player asked for the results table.
func (m PickerModel) WantsResults() bool {
	return m.results
}

// IsQuitting reports whether the player asked to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// PickerResult is the outcome of RunPicker.
type PickerResult struct {
	Level        string
	WantsResults bool
	Quit         bool
}

// RunPicker shows the level picker and returns the choice.
func RunPicker(names []string, stats StatsSource, theme Theme, width, height int) (PickerResult, error) {
	p := tea.NewProgram(
		NewPickerModel(names, stats, theme, width, height),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}
	m, ok := final.(PickerModel)
	if !ok || m.IsQuitting() {
		return PickerResult{Quit: true}, nil
	}
	if m.WantsResults() {
		return PickerResult{WantsResults: true}, nil
	}
	if m.Selected() == "" {
		return PickerResult{Quit: true}, nil
	}
	return PickerResult{Level: m.Selected()}, nil
}

// clockText formats seconds as m:ss.
func clockText(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
