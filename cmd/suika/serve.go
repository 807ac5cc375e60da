package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-suika/internal/logging"
	"github.com/vovakirdan/tui-suika/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the suika SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a theme picker menu.
Runs are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.suika/host_key

Examples:
  suika serve                           # Listen on :23234 with auto-generated key
  suika serve --ssh :2222               # Listen on port 2222
  suika serve --host-key ./my_host_key  # Use specific host key
  suika serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagReleaseAfter, "release-after", tui.DefaultReleaseAfter, "Synthetic key-up delay for held movement keys")
}

func runServe(cmd *cobra.Command, _ []string) {
	addr := flagSSHAddr
	if !cmd.Flags().Changed("ssh") && envCfg.SSHAddr != "" {
		addr = envCfg.SSHAddr
	}

	// The server has no TUI of its own, so it logs to stderr unless
	// --log-file is given.
	logger, err := logging.New(logging.Options{
		File:   flagLogFile,
		Output: os.Stderr,
		Level:  flagLogLevel,
		Prefix: "suika-ssh",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = addr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Session = tui.SessionConfig{
		Game:      tui.Options{ReleaseAfter: flagReleaseAfter},
		TierNames: tierNamesFunc(loadConfig()),
	}

	server, err := tui.NewSSHServer(cfg, store, logger.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting suika SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
