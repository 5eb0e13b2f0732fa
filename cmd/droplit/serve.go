package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/elmandalorian-thx/droplit/internal/platform/tui"
	"github.com/elmandalorian-thx/droplit/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Droplit over SSH and WebSocket",
	Long: `Start the SSH server, the WebSocket server, or both.

Each SSH connection gets its own session starting at the menu; the SSH user
name is the player profile, so progress follows the name you connect with.
Each WebSocket connection on /ws owns one engine session for a browser
renderer. GET /healthz reports ok.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.droplit/host_key

Examples:
  droplit serve                          # SSH on :23234
  droplit serve --ssh :2222              # SSH on port 2222
  droplit serve --ssh "" --ws :8080      # WebSocket only
  droplit serve --ssh :23234 --ws :8080  # Both

Users can connect with:
  ssh ada@localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (empty to disable)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket server address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagWSAddr == "" {
		return errors.New("nothing to serve: set --ssh and/or --ws")
	}

	logger := newLogger(os.Stderr, "droplit")
	cfg, rules, err := loadGameConfig()
	if err != nil {
		return err
	}
	setupGame(cfg, logger)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := runtimeConfig()
	var servers []func(context.Context) error

	if flagSSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = flagSSHAddr
		sshCfg.HostKeyPath = flagHostKey
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
		sshCfg.TickRate = rc.TickRate
		sshCfg.Seed = rc.Seed

		srv, err := tui.NewSSHServer(sshCfg, store, rules, logger)
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		servers = append(servers, srv.ListenAndServe)
		fmt.Printf("SSH:       ssh <name>@localhost -p %s\n", portOf(flagSSHAddr))
	}

	if flagWSAddr != "" {
		srv, err := web.NewServer(cfg, rc.Seed, logger)
		if err != nil {
			return fmt.Errorf("creating WebSocket server: %w", err)
		}
		servers = append(servers, func(ctx context.Context) error {
			return srv.ListenAndServe(ctx, flagWSAddr)
		})
		fmt.Printf("WebSocket: ws://localhost:%s/ws\n", portOf(flagWSAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	// The first server to fail stops the others.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, len(servers))
	for _, serve := range servers {
		go func() {
			err := serve(ctx)
			cancel()
			errCh <- err
		}()
	}

	var firstErr error
	for range servers {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
