package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/logging"
)

// Game is what the front end drives. *pipes.Game implements it.
type Game interface {
	ID() string
	Title() string
	Reset(cfg core.RuntimeConfig)
	Resize(w, h int)
	Step(in core.InputFrame) core.StepResult
	Render(dst *core.Screen)
	State() core.GameState
	Close()
}

// Options configures a Model.
type Options struct {
	Theme  Theme
	Keys   KeyMap
	Logger *log.Logger
	// ScreenshotDir receives ctrl+s dumps. Empty disables screenshots.
	ScreenshotDir string
	// Embedded makes esc hand control back to the caller instead of
	// quitting the program.
	Embedded bool
}

// Model is the Bubble Tea model running one game.
type Model struct {
	game     Game
	screen   *core.Screen
	config   core.RuntimeConfig
	opts     Options
	help     help.Model
	frame    core.InputFrame
	state    core.GameState
	quitting bool
	back     bool
}

// NewModel creates a model for game. Keys and Theme default when unset.
func NewModel(game Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Theme.Cells == nil {
		opts.Theme = DefaultTheme()
	}
	if len(opts.Keys.Quit.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		opts:   opts,
		help:   h,
		frame:  core.NewInputFrame(),
	}
	m.layout()
	return m
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.opts.Keys
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		if m.opts.Embedded {
			m.back = true
			return m, tea.Quit
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	if a := keys.Action(msg); a != core.ActionNone {
		m.frame.Set(a)
	}
	return m, nil
}

// handleTick feeds the collected actions to the game.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.back {
		return m, nil
	}
	result := m.game.Step(m.frame)
	m.state = result.State
	m.frame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// layout sizes the game screen to the window minus the help bar.
func (m *Model) layout() {
	cfg := m.gameConfig()
	m.screen.Resize(cfg.ScreenW, cfg.ScreenH)
	m.game.Resize(cfg.ScreenW, cfg.ScreenH)
}

// gameConfig is the runtime config with the help bar taken off the height.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-lipgloss.Height(m.help.View(m.opts.Keys)), 0)
	return cfg
}

// saveScreenshot writes the current screen as plain text.
func (m *Model) saveScreenshot() {
	if m.opts.ScreenshotDir == "" {
		return
	}
	m.game.Render(m.screen)

	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		m.opts.Logger.Warn("screenshot directory", "error", err)
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(m.opts.ScreenshotDir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot", "error", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the game followed by the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen, m.opts.Theme) + "\n" + m.opts.Theme.Help.Render(m.help.View(m.opts.Keys))
}

// State returns the game state after the last tick.
func (m Model) State() core.GameState {
	return m.state
}

// IsQuitting reports whether the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to leave the game.
func (m Model) BackToMenu() bool {
	return m.back
}

// Run plays game in the current terminal until the player leaves. It
// reports whether the player asked to go back to a menu rather than quit.
// The game is closed on return.
func Run(game Game, cfg core.RuntimeConfig, opts Options) (backToMenu bool, err error) {
	defer game.Close()
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
