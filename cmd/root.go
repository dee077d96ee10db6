package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kitdeneme/kit/internal/app"
	"github.com/kitdeneme/kit/internal/config"
	"github.com/kitdeneme/kit/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".kit/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	logFile   string
	cfg       config.Config

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "kit",
	Short: "Account registration and sign-in from the terminal",
	Long: `kit manages an account on a local or remote account backend.

Run without a subcommand to open the terminal UI: sign in, create an
account, read the terms and privacy policy, change your password and
sign out. The subcommands do the same from scripts.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/kit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log (also enabled by KIT_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "debug.log",
		"debug log path")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable the session re-check when the local database changes")
}

func initConfig() {
	viper.Reset()

	defaults := config.Defaults()
	viper.SetDefault("backend.kind", defaults.Backend.Kind)
	viper.SetDefault("backend.db_path", defaults.Backend.DBPath)
	viper.SetDefault("backend.base_url", defaults.Backend.BaseURL)
	viper.SetDefault("backend.timeout", defaults.Backend.Timeout)
	viper.SetDefault("session.token_path", defaults.Session.TokenPath)
	viper.SetDefault("session.cache_ttl", defaults.Session.CacheTTL)
	viper.SetDefault("throttle.enabled", defaults.Throttle.Enabled)
	viper.SetDefault("throttle.rps", defaults.Throttle.RPS)
	viper.SetDefault("throttle.burst", defaults.Throttle.Burst)
	viper.SetDefault("stats.enabled", defaults.Stats.Enabled)
	viper.SetDefault("stats.prefix", defaults.Stats.Prefix)
	viper.SetDefault("stats.ttl", defaults.Stats.TTL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("legal.terms_url", defaults.Legal.TermsURL)
	viper.SetDefault("legal.privacy_url", defaults.Legal.PrivacyURL)
	viper.SetDefault("server.listen_addr", defaults.Server.ListenAddr)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .kit/config.yaml (current directory)
		// 2. ~/.config/kit/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else if dir := config.Dir(); dir != "" {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the default user config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if dir := config.Dir(); dir != "" {
				defaultPath := filepath.Join(dir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
}

// configPath is the file `kit backend` writes to.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	if dir := config.Dir(); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return localConfigPath
}

// setupLogging turns on the debug log via flag or env var.
func setupLogging(cmd *cobra.Command, _ []string) error {
	if !debugEnabled() || logCleanup != nil {
		return nil
	}

	logPath := logFile
	if env := os.Getenv("KIT_LOG"); env != "" && !cmd.Flags().Changed("log-file") {
		logPath = env
	}

	cleanup, err := log.InitWithTeaLog(logPath, "kit")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup

	log.Info(log.CatConfig, "kit starting", "command", cmd.Name(), "version", version,
		"config", viper.ConfigFileUsed(), "logPath", logPath)
	return nil
}

func debugEnabled() bool {
	return os.Getenv("KIT_DEBUG") != "" || debugFlag
}

func runApp(cmd *cobra.Command, _ []string) error {
	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	s, err := openStack(cfg)
	if err != nil {
		return err
	}

	model := app.New(s.services(), s.watchPaths(), debugEnabled())
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		model = fm
	}

	// Detach observers before the backend goes away
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
