package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/logging"
	"github.com/vovakirdan/tui-pipes/internal/pipes"
	"github.com/vovakirdan/tui-pipes/internal/pipes/levels"
	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// openLogger builds the command logger. Interactive commands log to the
// settings log file because the TUI owns the terminal.
func openLogger(prefix string, toFile bool) (*log.Logger, io.Closer, error) {
	opts := logging.Options{Prefix: prefix, Level: settings.LogLevel}
	if toFile {
		opts.File = config.ExpandHome(settings.LogFile)
	}
	return logging.New(opts)
}

// openStore opens the results database. Games still run without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		logger.Warn("results disabled", "db", settings.DBPath, "error", err)
		return nil
	}
	return store
}

// seed returns the --seed flag, or a time based seed.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newLevels creates a level manager over the settings map directory.
func newLevels() (*levels.Manager, error) {
	return levels.NewManager(config.ExpandHome(settings.MapDir), settings.GenParams(seed()))
}

// mapNames lists the map files, logging rather than failing on errors.
func mapNames(logger *log.Logger) []string {
	mgr, err := newLevels()
	if err != nil {
		logger.Warn("cannot list maps", "dir", settings.MapDir, "error", err)
		return nil
	}
	return mgr.Names()
}

// gameFactory returns a factory creating one game, with its own level
// manager, per call. store may be nil.
func gameFactory(store *storage.Store, logger *log.Logger) tui.GameFactory {
	return func(level, player string) (tui.Game, error) {
		mgr, err := newLevels()
		if err != nil {
			return nil, err
		}
		if err := mgr.SetLevel(level); err != nil {
			return nil, err
		}
		opts := pipes.Options{
			Settings: settings,
			Levels:   mgr,
			Logger:   logger.With("player", player),
			Player:   player,
		}
		if store != nil {
			opts.Recorder = store
		}
		return pipes.New(opts), nil
	}
}

// localPlayer names the player of a local session.
func localPlayer() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return filepath.Base(u.Username)
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "player"
}

// screenshotDir is where ctrl+s dumps go.
func screenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pipes", "screenshots")
}
