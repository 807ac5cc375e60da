package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-suika/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a theme picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a theme.
After a run ends, press B to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select theme
  Tab          - Scoreboard
  Q            - Quit

Examples:
  suika menu
  suika menu --fps 30
  suika menu --expr-addr :8765`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagExprAddr, "expr-addr", "", "Listen address for the expression feed (disabled if empty)")
	menuCmd.Flags().DurationVar(&flagExprCadence, "expr-cadence", defaultCadence, "Expression sampling period")
	menuCmd.Flags().DurationVar(&flagReleaseAfter, "release-after", tui.DefaultReleaseAfter, "Synthetic key-up delay for held movement keys")
}

func runMenu(cmd *cobra.Command, _ []string) {
	logger := fileLogger()
	store := openStore()

	err := tui.RunSession(store, tui.SessionConfig{
		Runtime: runtimeConfig(),
		Game: tui.Options{
			Logger:       logger.Logger,
			ReleaseAfter: flagReleaseAfter,
		},
		TierNames: tierNamesFunc(loadConfig()),
	}, feedOptions(cmd))

	// Cleanup
	if store != nil {
		store.Close()
	}
	logger.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
