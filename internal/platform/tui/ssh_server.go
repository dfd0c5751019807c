package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/logging"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// GameFactory creates a game on level for an SSH player.
type GameFactory func(level, player string) (Game, error)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key is generated at ~/.pipes/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	TickRate int
	Theme    Theme

	// Store backs the picker statistics and the results screen. May be nil.
	Store *storage.Store
	// Levels lists the map files offered in the picker.
	Levels  func() []string
	NewGame GameFactory
	Logger  *log.Logger
}

// SSHServer serves single-player sessions over SSH with Wish.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.NewGame == nil {
		return nil, errors.New("tui: SSH server needs a game factory")
	}
	if cfg.Levels == nil {
		cfg.Levels = func() []string { return nil }
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Theme.Cells == nil {
		cfg.Theme = DefaultTheme()
	}

	srv := &SSHServer{config: cfg, logger: cfg.Logger}

	hostKeyPath := config.ExpandHome(cfg.HostKeyPath)
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".pipes", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// teaHandler creates a session model for each SSH connection.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}
	model := NewSessionModel(s.config, cfg, sess.User())

	// A dropped connection never reaches the model's quit path.
	go func() {
		<-sess.Context().Done()
		model.active.close()
	}()

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until interrupted.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// activeGame tracks the running game of a session so a dropped connection
// can close it.
type activeGame struct {
	mu   sync.Mutex
	game Game
}

func (a *activeGame) set(g Game) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.game = g
}

func (a *activeGame) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.game != nil {
		a.game.Close()
		a.game = nil
	}
}

type sessionView int

const (
	viewPicker sessionView = iota
	viewResults
	viewGame
)

// SessionModel runs one SSH session: picker -> game -> picker, with the
// results screen one key away from the picker.
type SessionModel struct {
	server   SSHServerConfig
	config   core.RuntimeConfig
	username string
	view     sessionView
	picker   PickerModel
	results  ResultsModel
	game     Model
	active   *activeGame
	quitting bool
}

// NewSessionModel creates a session starting at the level picker.
func NewSessionModel(server SSHServerConfig, cfg core.RuntimeConfig, username string) SessionModel {
	m := SessionModel{
		server:   server,
		config:   cfg,
		username: username,
		active:   &activeGame{},
	}
	m.picker = m.newPicker()
	return m
}

func (m SessionModel) newPicker() PickerModel {
	var stats StatsSource
	if m.server.Store != nil {
		stats = m.server.Store
	}
	return NewPickerModel(m.server.Levels(), stats, m.server.Theme, m.config.ScreenW, m.config.ScreenH)
}

func (m SessionModel) newResults() ResultsModel {
	var source ResultsSource
	if m.server.Store != nil {
		source = m.server.Store
	}
	return NewResultsModel(source, m.server.Theme, m.config.ScreenW, m.config.ScreenH)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update routes messages to the active view.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewResults:
		return m.updateResults(msg)
	default:
		return m.updatePicker(msg)
	}
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.picker.Update(msg)
	if p, ok := next.(PickerModel); ok {
		m.picker = p
	}

	switch {
	case m.picker.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.picker.WantsResults():
		m.results = m.newResults()
		m.view = viewResults
		return m, m.results.Init()

	case m.picker.Selected() != "":
		level := m.picker.Selected()
		game, err := m.server.NewGame(level, m.username)
		if err != nil {
			m.server.Logger.Error("cannot start game", "user", m.username, "level", level, "error", err)
			m.picker = m.newPicker()
			return m, nil
		}
		m.active.set(game)
		m.game = NewModel(game, m.config, Options{
			Theme:    m.server.Theme,
			Logger:   m.server.Logger.With("user", m.username),
			Embedded: true,
		})
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.results.Update(msg)
	if r, ok := next.(ResultsModel); ok {
		m.results = r
	}

	switch {
	case m.results.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.results.IsGoingBack():
		m.picker = m.newPicker()
		m.view = viewPicker
		return m, m.picker.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if g, ok := next.(Model); ok {
		m.game = g
	}

	switch {
	case m.game.IsQuitting():
		m.active.close()
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		m.active.close()
		m.picker = m.newPicker()
		m.view = viewPicker
		return m, m.picker.Init()
	}
	return m, cmd
}

// View renders the active view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGame:
		return m.game.View()
	case viewResults:
		return m.results.View()
	default:
		return m.picker.View()
	}
}
