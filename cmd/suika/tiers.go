package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-suika/internal/games/suika"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers [theme]",
	Short: "Show the merge ladder of a theme",
	Long: `Print every tier of a theme, smallest first, with its radius and the
points awarded when a merge produces it. Only the first tiers can spawn.

Examples:
  suika tiers
  suika tiers halloween
  suika tiers --config ./my-suika.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTiers,
}

func runTiers(_ *cobra.Command, args []string) {
	theme := ""
	if len(args) > 0 {
		theme = args[0]
	}

	cfg := loadConfig()
	if theme == "" {
		theme = cfg.DefaultTheme
	}
	tc, ok := cfg.Theme(theme)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q\n", theme)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", tc.Title, theme)
	fmt.Println()
	fmt.Printf("  %-4s  %-14s  %-5s  %-6s  %-6s  %s\n", "Tier", "Name", "Glyph", "Radius", "Points", "Spawns")
	fmt.Printf("  %-4s  %-14s  %-5s  %-6s  %-6s  %s\n", "----", "----", "-----", "------", "------", "------")

	for _, t := range suika.NewTiers(tc) {
		spawns := ""
		if t.Index < cfg.Spawn.Pool && (t.Index < len(tc.Tiers)-1 || len(tc.Tiers) == 1) {
			spawns = "yes"
		}
		fmt.Printf("  %-4d  %-14s  %-5c  %-6.0f  %-6d  %s\n", t.Index, t.Name, t.Glyph, t.Radius, t.Score, spawns)
	}
}
