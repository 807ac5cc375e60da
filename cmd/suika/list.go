package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-suika/internal/games/suika"
	"github.com/vovakirdan/tui-suika/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Long:  `Shows every registered theme with its game ID.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available themes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := len("Theme")
	for _, g := range games {
		if n := len(suika.ThemeForID(g.ID)); n > maxIDLen {
			maxIDLen = n
		}
	}

	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "Theme", "ID", "Title")
	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "-----", "--", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, suika.ThemeForID(g.ID), g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'suika play <theme>' to play.")
}
