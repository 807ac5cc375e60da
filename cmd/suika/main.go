// suika is a terminal fruit-merge game with keyboard and facial-expression
// controls.
//
// Usage:
//
//	suika list               - List available themes
//	suika play [theme]       - Play a theme (default: base)
//	suika menu               - Start menu to pick a theme interactively
//	suika serve              - Start SSH server for remote play
//	suika scores [theme]     - Show best runs for a theme
//	suika tiers [theme]      - Show the merge ladder of a theme
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.suika/scores.db)
//	--config <path>     - Custom suika.yaml
//	--log-file <path>   - Write logs to a rotating file
//	--log-level <level> - debug, info, warn or error
//
// Every flag default can be overridden through SUIKA_* environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-suika/internal/config"
	"github.com/vovakirdan/tui-suika/internal/games/suika"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogFile  string
	flagLogLevel string

	envCfg config.Env
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "suika",
	Short: "Suika - merge falling fruit in your terminal",
	Long: `Suika is a terminal fruit-merge game. Drop fruit into the box; two
fruit of the same kind merge into the next larger one. The run ends when
the pile crosses the red line.

Available commands:
  list     - Show available themes
  play     - Play a theme directly
  menu     - Interactive theme picker
  serve    - Start SSH server for remote play
  scores   - View best runs
  tiers    - Show the merge ladder

Examples:
  suika play
  suika play halloween --expr-addr :8765
  suika menu
  suika serve --ssh :2222
  suika scores base`,
	PersistentPreRunE: applyEnv,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.suika/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom suika.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (rotated)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(tiersCmd)
}

// applyEnv fills flags the user did not set from SUIKA_* variables.
func applyEnv(cmd *cobra.Command, _ []string) error {
	e, err := config.LoadEnv()
	if err != nil {
		return err
	}
	envCfg = e

	flags := cmd.Flags()
	if !flags.Changed("fps") {
		flagFPS = e.TickRate
	}
	if !flags.Changed("db") {
		flagDBPath = e.DBPath
	}
	if !flags.Changed("config") {
		flagConfig = e.ConfigPath
	}
	if !flags.Changed("log-file") {
		flagLogFile = e.LogFile
	}
	if !flags.Changed("log-level") {
		flagLogLevel = e.LogLevel
	}

	suika.SetConfigPath(flagConfig)
	return nil
}
