package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

var (
	flagFPS   int
	flagTheme string
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play a map",
	Long: `Play a map from the map directory. Without an argument a picker lists
the maps, a random map and the results table; after each game you are
back in the picker.

Controls:
  Arrows/hjkl  - Move the cursor
  Space        - Place the next pipe (opens the valve)
  Enter        - Open the valve
  U            - Undo the last placement
  X            - Skip the next pipe
  P            - Pause
  R            - Restart the map
  N            - Next map
  E            - Save a generated map to the map directory
  Ctrl+S       - Screenshot to ~/.pipes/screenshots
  Esc          - Back to the picker
  Q/Ctrl+C     - Quit

Examples:
  pipes play
  pipes play 02-bend.map
  pipes play "<generate>" --difficulty hard
  pipes play --theme mono`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagFPS, "fps", 20, "Redraws per second")
	playCmd.Flags().StringVar(&flagTheme, "theme", "", "Color theme: default, neon, mono")
}

func runPlay(_ *cobra.Command, args []string) {
	theme, err := tui.LookupTheme(flagTheme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := openLogger("pipes", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	newGame := gameFactory(store, logger)
	player := localPlayer()
	opts := tui.Options{
		Theme:         theme,
		Logger:        logger,
		ScreenshotDir: screenshotDir(),
	}

	if len(args) == 1 {
		game, err := newGame(args[0], player)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if _, err := tui.Run(game, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := pickerLoop(cfg, opts, store, newGame, player, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// pickerLoop alternates between the picker, the results table and games
// until the player quits.
func pickerLoop(cfg core.RuntimeConfig, opts tui.Options, store *storage.Store,
	newGame tui.GameFactory, player string, logger *log.Logger,
) error {
	var stats tui.StatsSource
	var results tui.ResultsSource
	if store != nil {
		stats, results = store, store
	}
	opts.Embedded = true

	for {
		choice, err := tui.RunPicker(mapNames(logger), stats, opts.Theme, cfg.ScreenW, cfg.ScreenH)
		if err != nil {
			return err
		}
		switch {
		case choice.Quit:
			return nil

		case choice.WantsResults:
			goBack, err := tui.RunResults(results, opts.Theme, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			game, err := newGame(choice.Level, player)
			if err != nil {
				logger.Error("cannot start game", "level", choice.Level, "error", err)
				return err
			}
			back, err := tui.Run(game, cfg, opts)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
		}
	}
}
