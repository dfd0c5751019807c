package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pipes/internal/config"
)

var flagForce bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Long: `Prints the settings in effect after the settings file, .env, PIPES_*
variables and flags have been applied, and the file they came from.`,
	Args: cobra.NoArgs,
	Run:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the current settings to a file",
	Long: `Writes the effective settings as YAML, by default to
~/.pipes/settings.yaml. An existing file is kept unless --force is given.

Examples:
  pipes settings init
  pipes settings init configs/settings.yaml --difficulty easy`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSettingsInit,
}

func init() {
	settingsInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	settingsCmd.AddCommand(settingsInitCmd)
}

func runSettingsShow(_ *cobra.Command, _ []string) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("# source: %s\n", settingsSource)
	fmt.Print(string(data))
}

func runSettingsInit(_ *cobra.Command, args []string) {
	path := config.UserPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no home directory; pass a path")
		os.Exit(1)
	}
	if _, err := os.Stat(config.ExpandHome(path)); err == nil && !flagForce {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		os.Exit(1)
	}
	if err := config.Save(path, settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote settings to %s\n", path)
}
