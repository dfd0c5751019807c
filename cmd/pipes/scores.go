package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/storage"
)

var (
	flagScoresLimit   int
	flagScoresSession string
	flagScoresClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [map]",
	Short: "Show recorded results",
	Long: `Without a map, lists the latest results of every map. With a map,
shows its best wins (fastest first, then fewest moves) and its totals.

Examples:
  pipes scores
  pipes scores 01-straight.map
  pipes scores --session 5f0c...
  pipes scores 01-straight.map --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of results to show")
	scoresCmd.Flags().StringVar(&flagScoresSession, "session", "", "Show the results of one play session")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the results of the map")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(settings.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagScoresSession != "":
		results, err := store.SessionResults(flagScoresSession)
		exitOn(err)
		fmt.Printf("Session %s\n\n", flagScoresSession)
		printResults(results)

	case len(args) == 0:
		results, err := store.RecentResults(flagScoresLimit)
		exitOn(err)
		fmt.Println("Latest results")
		fmt.Println()
		printResults(results)

	case flagScoresClear:
		exitOn(store.ClearResults(args[0]))
		fmt.Printf("Cleared results of %s\n", args[0])

	default:
		level := args[0]
		results, err := store.TopResults(level, flagScoresLimit)
		exitOn(err)
		fmt.Printf("Best runs - %s\n\n", level)
		if len(results) == 0 {
			fmt.Println("No wins recorded yet.")
			fmt.Println()
			fmt.Printf("Play 'pipes play %s' to set the first one!\n", level)
			return
		}
		printResults(results)

		stats, err := store.Stats(level)
		exitOn(err)
		fmt.Println()
		fmt.Printf("Played %d, won %d (%s), last %s\n",
			stats.Plays, stats.Wins, winRate(stats), humanize.Time(stats.LastPlayed))
	}
}

func printResults(results []storage.Result) {
	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		return
	}
	fmt.Printf("  %-4s  %-18s  %-10s  %-4s  %-5s  %-5s  %s\n", "#", "Map", "Player", "Out", "Time", "Moves", "When")
	fmt.Printf("  %-4s  %-18s  %-10s  %-4s  %-5s  %-5s  %s\n", "-", "---", "------", "---", "----", "-----", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-18s  %-10s  %-4s  %-5s  %-5d  %s\n",
			i+1, r.Level, r.Player, r.Outcome,
			fmt.Sprintf("%d:%02d", r.Seconds/60, r.Seconds%60), r.Moves, humanize.Time(r.CreatedAt))
	}
}

func winRate(s *storage.LevelStats) string {
	if s.Plays == 0 {
		return "0%"
	}
	return humanize.FormatFloat("#.#", float64(s.Wins)*100/float64(s.Plays)) + "%"
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
