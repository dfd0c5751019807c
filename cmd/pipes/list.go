package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the maps of the map directory",
	Long: `Shows every .map file of the map directory with its size, delay and
whether it is playable.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	mgr, err := newLevels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	names := mgr.Names()
	dir := config.ExpandHome(settings.MapDir)

	if len(names) == 0 {
		fmt.Printf("No maps in %s.\n", dir)
		fmt.Println("Run 'pipes generate -o <file>' to create one, or 'pipes play' for a random map.")
		return
	}

	fmt.Printf("Maps in %s:\n\n", dir)

	maxNameLen := 4 // "Name" header
	for _, name := range names {
		maxNameLen = max(maxNameLen, len(name))
	}

	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, "Name", "Size", "Delay", "Status")
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, "----", "----", "-----", "------")

	for _, name := range names {
		props, err := mapfile.ParseFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Printf("  %-*s  %-7s  %-5s  %v\n", maxNameLen, name, "-", "-", err)
			continue
		}
		status := "ok"
		if verr := core.CheckValidity(props); verr != nil {
			status = verr.Message
		}
		fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, name,
			fmt.Sprintf("%dx%d", props.Rows, props.Cols), fmt.Sprintf("%ds", props.Delay), status)
	}

	fmt.Println()
	fmt.Println("Run 'pipes play <name>' to play a map.")
}
