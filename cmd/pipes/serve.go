package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagServeTheme  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pipes SSH server",
	Long: `Start an SSH server where each connection plays its own game, with the
map picker and the results table. Results are shared by everyone on the
server and recorded under the SSH user name.

Host key handling:
  - If --host-key (or ssh.host_key_path) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.pipes/host_key

Examples:
  pipes serve                           # Listen on the settings address
  pipes serve --ssh :2222               # Listen on port 2222
  pipes serve --host-key ./my_host_key  # Use a specific host key

Players connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from settings)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from settings)")
	serveCmd.Flags().StringVar(&flagServeTheme, "theme", "", "Color theme: default, neon, mono")
}

func runServe(_ *cobra.Command, _ []string) {
	ssh := settings.SSH
	if flagSSHAddr != "" {
		ssh.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		ssh.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		ssh.IdleTimeout = flagIdleTimeout
	}

	theme, err := tui.LookupTheme(flagServeTheme)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := openLogger("pipes-ssh", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     ssh.Address,
		HostKeyPath: ssh.HostKeyPath,
		IdleTimeout: ssh.IdleTimeout,
		TickRate:    20,
		Theme:       theme,
		Store:       store,
		Levels:      func() []string { return mapNames(logger) },
		NewGame:     gameFactory(store, logger),
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting pipes SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
