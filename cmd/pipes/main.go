// pipes is a terminal pipe-connection puzzle: lay pipes from the source to
// the sink before the water catches up.
//
// Usage:
//
//	pipes play [map]        - Pick a map (or play one directly)
//	pipes list              - List the maps of the map directory
//	pipes validate <file>   - Check map files
//	pipes generate          - Print or save a random map
//	pipes settings          - Show or create the settings file
//	pipes scores [map]      - Show recorded results
//	pipes serve             - Start the SSH server for remote play
//
// Global flags:
//
//	--config <path>      - Settings file
//	--seed <value>       - RNG seed for reproducible queues and maps
//	--db <path>          - Results database
//	--map-dir <path>     - Map directory
//	--difficulty <name>  - Timing preset: easy, normal, hard
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/config"
)

var (
	// Global flags
	flagConfig     string
	flagSeed       int64
	flagDBPath     string
	flagMapDir     string
	flagDifficulty string
	flagLogLevel   string

	// settings is resolved once per run by loadSettings; settingsSource
	// names the file it came from.
	settings       config.Settings
	settingsSource string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pipes",
	Short: "Pipes - connect the source to the sink before the water does",
	Long: `Pipes is a terminal puzzle. Place the pipes from the queue on the
board so that water leaving the source reaches a sink. Once the valve
opens the water advances one cell at a time; if it runs out of pipe, it
spills and the round is lost.

Settings are read from --config, ~/.pipes/settings.yaml,
./configs/settings.yaml or the built-in defaults, in that order. A .env
file and PIPES_* environment variables override them, and flags override
everything.

Examples:
  pipes play
  pipes play 01-straight.map --difficulty easy
  pipes generate --rows 10 --cols 12 -o maps/big.map
  pipes validate maps/*.map
  pipes edit 04-spiral
  pipes serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a settings YAML file")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "", "Path to the results database (default from settings)")
	pf.StringVar(&flagMapDir, "map-dir", "", "Directory with .map files (default from settings)")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Timing preset: "+strings.Join(config.Difficulties(), ", "))
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings resolves settings from file, environment and flags.
func loadSettings(_ *cobra.Command, _ []string) error {
	s, source, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&s); err != nil {
		return err
	}
	if flagDifficulty != "" {
		d, err := config.LookupDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		s = d.Apply(s)
	}
	if flagDBPath != "" {
		s.DBPath = flagDBPath
	}
	if flagMapDir != "" {
		s.MapDir = flagMapDir
	}
	if flagLogLevel != "" {
		s.LogLevel = strings.ToLower(flagLogLevel)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings, settingsSource = s, source
	return nil
}
