package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-suika/internal/games/suika"
	"github.com/vovakirdan/tui-suika/internal/platform/tui"
	"github.com/vovakirdan/tui-suika/internal/registry"
	"github.com/vovakirdan/tui-suika/internal/storage"
)

var (
	flagInteractive bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [theme]",
	Short: "Show best runs for a theme",
	Long: `Display the best runs for the specified theme.

Examples:
  suika scores
  suika scores halloween --limit 20
  suika scores --interactive`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cfg := loadConfig()

	if flagInteractive {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunScoreboard(store, width, height, tierNamesFunc(cfg)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	gameID, err := gameIDArg(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'suika list' to see available themes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	runs, err := store.TopRuns(gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Runs - %s\n", game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'suika play %s' to set the first high score!\n", suika.ThemeForID(gameID))
		return
	}

	names := suika.TierNames(cfg, suika.ThemeForID(gameID))
	tierName := func(i int) string {
		if i >= 0 && i < len(names) {
			return names[i]
		}
		return "-"
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %-8s  %s\n", "Rank", "Score", "Merges", "Best", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %-8s  %s\n", "----", "-----", "------", "----", "----", "----")

	for i, run := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-12s  %-8s  %s\n",
			i+1, run.Score, run.Merges, tierName(run.MaxTier),
			run.Duration.Round(time.Second).String(), run.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil && stats != nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Avg: %.0f  Best fruit: %s\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, tierName(stats.BestTier))
	}
}
