package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/config"
	"github.com/Aaditya-jx/loadbalancing/internal/logging"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "lbdash",
	Short:   "Instrumentation toolkit for the load balancer dashboard",
	Version: version,
	Long: `lbdash serves the load balancer dashboard and exposes its building blocks
on the command line: page performance probing, counter animation, value
formatting, severity colors, CSV export and chart presets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command. Errors are printed to stderr.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger. --log-level overrides the configured
// level.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Logging
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		logCfg.Level = level
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), logCfg)
}

func noColor(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("no-color")
	return v
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	RootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	RootCmd.AddCommand(monitorCmd)
	RootCmd.AddCommand(animateCmd)
	RootCmd.AddCommand(formatCmd)
	RootCmd.AddCommand(severityCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(chartCmd)
	RootCmd.AddCommand(serveCmd)
}
