package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check map files",
	Long: `Parses each map file and checks that it is playable: one source, at
least one sink, neither opening onto a wall, and a positive delay.

Exits with status 1 if any file fails.

Examples:
  pipes validate maps/01-straight.map
  pipes validate maps/*.map`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	failed := 0
	for _, path := range args {
		if err := validateFile(path); err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("ok    %s\n", path)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d maps failed\n", failed, len(args))
		os.Exit(1)
	}
}

// validateFile parses and checks one map.
func validateFile(path string) error {
	props, err := mapfile.ParseFile(path)
	if err != nil {
		return err
	}
	if verr := core.CheckValidity(props); verr != nil {
		return verr
	}
	return nil
}
