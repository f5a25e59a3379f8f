package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cookie-banner-clicker/internal/logging"
	"github.com/vovakirdan/cookie-banner-clicker/internal/metrics"
	"github.com/vovakirdan/cookie-banner-clicker/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagMetricsAddr string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets anyone connect and play.

Each SSH connection gets its own session with the menu, the game and the
leaderboard. All sessions share one score store. Players who connect with
a public key keep the same leaderboard identity across sessions.

Host key handling:
  - If --host-key (or CLICKER_HOST_KEY) is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cookieclicker/host_key

Examples:
  clicker serve                           # Listen on :23234
  clicker serve --ssh :2222               # Listen on port 2222
  clicker serve --metrics :9090           # Also expose /metrics
  clicker serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default CLICKER_SSH_ADDR or :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Prometheus metrics address, e.g. :9090 (default CLICKER_METRICS_ADDR)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func runServe(_ *cobra.Command, _ []string) {
	env := loadEnv()
	logger := logging.New(os.Stderr, env.LogLevel, "clicker-ssh")

	m := metrics.New()
	svc := buildServices(env, logger, m, "")
	defer svc.Close()

	var metricsSrv *metrics.Server
	if addr := firstSet(flagMetricsAddr, env.MetricsAddr); addr != "" {
		metricsSrv = metrics.NewServer(addr, "/metrics", m, logger)
		if err := metricsSrv.Start(); err != nil {
			svc.Close()
			exitf("starting metrics server: %v", err)
		}
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = firstSet(flagSSHAddr, env.SSHAddr, cfg.Address)
	cfg.HostKeyPath = firstSet(flagHostKey, env.HostKeyPath)
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, svc)
	if err != nil {
		svc.Close()
		exitf("creating server: %v", err)
	}

	fmt.Printf("Starting Cookie Banner Clicker SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()

	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		//nolint:errcheck // Best-effort shutdown
		metricsSrv.Shutdown(ctx)
		cancel()
	}
	if serveErr != nil {
		svc.Close()
		exitf("server: %v", serveErr)
	}
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
