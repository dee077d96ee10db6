package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitdeneme/kit/internal/config"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Show or switch the account backend",
	Long: `Show the configured account backend, or switch it.

The change is written to the backend section of the config file; other
sections and their comments are kept.

Examples:
  kit backend                              # Show the current backend
  kit backend local                        # Use the SQLite database on this machine
  kit backend local --db ~/kit/accounts.db # ...at a custom path
  kit backend http http://accounts:8787    # Use a kit serve instance`,
	Args: cobra.NoArgs,
	RunE: runBackendShow,
}

var backendLocalCmd = &cobra.Command{
	Use:   "local",
	Short: "Use the SQLite database on this machine",
	Args:  cobra.NoArgs,
	RunE:  runBackendLocal,
}

var backendHTTPCmd = &cobra.Command{
	Use:   "http <base-url>",
	Short: "Use a kit serve instance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackendHTTP,
}

var (
	backendDBPath  string
	backendTimeout time.Duration
)

func init() {
	backendLocalCmd.Flags().StringVar(&backendDBPath, "db", "", "database path (default: ~/.config/kit/kit.db)")
	backendHTTPCmd.Flags().DurationVar(&backendTimeout, "timeout", 0, "per-request timeout (default: 10s)")

	backendCmd.AddCommand(backendLocalCmd, backendHTTPCmd)
	rootCmd.AddCommand(backendCmd)
}

func runBackendShow(cmd *cobra.Command, _ []string) error {
	b := withPaths(cfg).Backend
	out := cmd.OutOrStdout()

	switch b.Kind {
	case config.BackendHTTP:
		_, _ = fmt.Fprintf(out, "http %s (timeout %s)\n", b.BaseURL, b.Timeout)
	default:
		_, _ = fmt.Fprintf(out, "local %s\n", b.DBPath)
	}
	_, _ = fmt.Fprintf(out, "config: %s\n", configPath())
	return nil
}

func runBackendLocal(cmd *cobra.Command, _ []string) error {
	return saveBackend(cmd, config.BackendConfig{
		Kind:   config.BackendLocal,
		DBPath: backendDBPath,
	})
}

func runBackendHTTP(cmd *cobra.Command, args []string) error {
	return saveBackend(cmd, config.BackendConfig{
		Kind:    config.BackendHTTP,
		BaseURL: args[0],
		Timeout: backendTimeout,
	})
}

func saveBackend(cmd *cobra.Command, b config.BackendConfig) error {
	path := configPath()
	if err := config.SaveBackend(path, b); err != nil {
		return fmt.Errorf("saving backend: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backend set to %s in %s\n", b.Kind, path)
	return nil
}
