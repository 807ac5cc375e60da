package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vovakirdan/tui-suika/internal/config"
	"github.com/vovakirdan/tui-suika/internal/core"
	"github.com/vovakirdan/tui-suika/internal/games/suika"
	"github.com/vovakirdan/tui-suika/internal/logging"
	"github.com/vovakirdan/tui-suika/internal/storage"
)

// gameIDArg resolves an optional theme argument to a registered game ID.
// Full game IDs are accepted as well.
func gameIDArg(args []string) (string, error) {
	theme := ""
	if len(args) > 0 {
		theme = args[0]
	}
	if id := suika.IDForTheme(theme); id != "" {
		return id, nil
	}
	if theme == suika.IDBase || theme == suika.IDHalloween {
		return theme, nil
	}
	return "", fmt.Errorf("unknown theme %q", theme)
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the scores database. Failure is not fatal: the game still
// works without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// fileLogger builds the logger for interactive commands. The terminal belongs
// to Bubble Tea, so logs only go to --log-file.
func fileLogger() *logging.Logger {
	if flagLogFile == "" {
		return logging.Discard()
	}
	logger, err := logging.New(logging.Options{
		File:   flagLogFile,
		Level:  flagLogLevel,
		Prefix: "suika",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return logging.Discard()
	}
	return logger
}

// loadConfig reads suika.yaml, falling back to the built-in defaults.
func loadConfig() config.SuikaConfig {
	cfg, err := config.LoadSuika(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		return config.DefaultSuikaConfig()
	}
	return cfg
}

// tierNamesFunc maps game IDs to their tier names for the scoreboard.
func tierNamesFunc(cfg config.SuikaConfig) func(gameID string) []string {
	return func(gameID string) []string {
		return suika.TierNames(cfg, suika.ThemeForID(gameID))
	}
}
