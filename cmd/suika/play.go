package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-suika/internal/games/suika"
	"github.com/vovakirdan/tui-suika/internal/platform/tui"
)

const defaultCadence = 100 * time.Millisecond

var (
	flagExprAddr     string
	flagExprCadence  time.Duration
	flagReleaseAfter time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play [theme]",
	Short: "Play a theme",
	Long: `Start a run of the given theme (base or halloween).

Controls:
  A/Left, D/Right  - Move the pending fruit
  S/Down/Space     - Drop
  P                - Pause
  R                - Restart (after game over)
  B/Esc            - Back (when paused or after game over)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Expression control:
  With --expr-addr, a webcam client sends JSON text frames to
  ws://<addr>/expressions, either {"label":"happy"} or
  {"expressions":{"happy":0.9,"neutral":0.1}} (the highest score wins):
    happy       - Move left
    surprised   - Move right
    angry, sad  - Drop
    any other   - Stop moving

Examples:
  suika play
  suika play halloween
  suika play --seed 42 --fps 30
  suika play --expr-addr :8765 --expr-cadence 100ms
  suika play --config ./my-suika.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagExprAddr, "expr-addr", "", "Listen address for the expression feed (disabled if empty)")
	playCmd.Flags().DurationVar(&flagExprCadence, "expr-cadence", defaultCadence, "Expression sampling period")
	playCmd.Flags().DurationVar(&flagReleaseAfter, "release-after", tui.DefaultReleaseAfter, "Synthetic key-up delay for held movement keys")
}

// feedOptions returns the expression feed settings with env fallbacks.
func feedOptions(cmd *cobra.Command) tui.FeedOptions {
	addr := flagExprAddr
	if !cmd.Flags().Changed("expr-addr") {
		addr = envCfg.ExprAddr
	}
	cadence := flagExprCadence
	if !cmd.Flags().Changed("expr-cadence") && envCfg.ExprCadenceMs > 0 {
		cadence = time.Duration(envCfg.ExprCadenceMs) * time.Millisecond
	}
	return tui.FeedOptions{Addr: addr, Cadence: cadence}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID, err := gameIDArg(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'suika list' to see available themes.")
		os.Exit(1)
	}

	// loadConfig warns on a bad --config before the TUI takes the terminal.
	game := suika.NewWithConfig(loadConfig(), suika.ThemeForID(gameID))

	logger := fileLogger()
	store := openStore()

	runErr := tui.Run(game, store, runtimeConfig(), tui.Options{
		Logger:       logger.Logger,
		ReleaseAfter: flagReleaseAfter,
	}, feedOptions(cmd))

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	logger.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
