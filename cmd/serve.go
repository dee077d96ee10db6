package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/authserver"
	"github.com/kitdeneme/kit/internal/config"
	"github.com/kitdeneme/kit/internal/infrastructure/ratelimit"
	"github.com/kitdeneme/kit/internal/infrastructure/sqlite"
	"github.com/kitdeneme/kit/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the account API over HTTP",
	Long: `Serve the accounts in the local database over a JSON API so that other
machines can use kit with backend.kind set to "http".

Verification links are written to the debug log (run with --debug).

Example:
  kit serve                    # Listen on server.listen_addr (default :8787)
  kit serve --addr :9000       # Listen on port 9000
  kit serve --public-url https://accounts.example.com`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr      string
	servePublicURL string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides config)")
	serveCmd.Flags().StringVar(&servePublicURL, "public-url", "", "Base URL used in verification links")
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := withPaths(cfg)
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = c.Server.ListenAddr
	}
	publicURL := servePublicURL
	if publicURL == "" {
		publicURL = defaultPublicURL(addr)
	}

	rules, err := c.Validation.Rules()
	if err != nil {
		return err
	}

	db, err := sqlite.NewDB(c.Backend.DBPath)
	if err != nil {
		return fmt.Errorf("opening account database: %w", err)
	}
	defer func() { _ = db.Close() }()

	svc := accounts.NewService(db.Accounts(),
		accounts.WithMailer(accounts.LogMailer{BaseURL: publicURL}))

	opts := []authserver.Option{authserver.WithRules(rules)}
	if c.Throttle.Enabled {
		opts = append(opts, authserver.WithLimiter(ratelimit.NewLimiter(c.Throttle.RPS, c.Throttle.Burst)))
	}
	server := authserver.New(svc, opts...)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kit serve listening on %s\n", addr)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, addr); err != nil {
		log.ErrorErr(log.CatHTTP, "Auth server failed", err, "addr", addr)
		return fmt.Errorf("server error: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Server stopped")
	return nil
}

// defaultPublicURL turns a listen address into a URL a browser on this
// machine can open.
func defaultPublicURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
