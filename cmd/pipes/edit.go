package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
)

var (
	flagEditRows int
	flagEditCols int
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Create or change a map in the level editor",
	Long: `Opens a map in the level editor. A bare name is looked up in the map
directory and gets the .map extension; a missing file starts as a walled
map sized by the settings. Saving is refused until the map is playable.

Controls:
  Arrows/hjkl  - Move the cursor
  Space        - Paint the current tool
  T/Tab        - Next tool: wall, cell, source, sink
  O            - Turn the source or sink under the cursor clockwise
  ] / [        - Add or drop a row
  } / {        - Add or drop a column
  + / -        - More or less delay before the first flow
  E            - Save the map
  R            - Reload the file, dropping changes
  Q/Ctrl+C     - Quit without saving

Examples:
  pipes edit 04-spiral
  pipes edit ./my-maps/hard.map --rows 8 --cols 10`,
	Args: cobra.ExactArgs(1),
	Run:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&flagTheme, "theme", "", "Color theme: default, neon, mono")
	editCmd.Flags().IntVar(&flagEditRows, "rows", 0, "Rows of a new map (default from settings)")
	editCmd.Flags().IntVar(&flagEditCols, "cols", 0, "Columns of a new map (default from settings)")
}

func runEdit(_ *cobra.Command, args []string) {
	theme, err := tui.LookupTheme(flagTheme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := openLogger("pipes-edit", true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{ScreenW: width, ScreenH: height, TickRate: 20, Seed: flagSeed}

	s := settings
	if flagEditRows > 0 {
		s.Rows = flagEditRows
	}
	if flagEditCols > 0 {
		s.Cols = flagEditCols
	}
	editor := pipes.NewEditor(pipes.EditorOptions{
		Path:     editPath(args[0]),
		Settings: s,
		Logger:   logger,
	})
	opts := tui.Options{
		Theme:         theme,
		Keys:          tui.EditorKeyMap(),
		Logger:        logger,
		ScreenshotDir: screenshotDir(),
	}
	if _, err := tui.Run(editor, cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running editor: %v\n", err)
		os.Exit(1)
	}
}

// editPath resolves a bare map name into the map directory.
func editPath(arg string) string {
	if !strings.HasSuffix(arg, mapfile.Ext) {
		arg += mapfile.Ext
	}
	if filepath.Base(arg) != arg {
		return arg
	}
	return filepath.Join(config.ExpandHome(settings.MapDir), arg)
}
