package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	Long: `Serve the dashboard page, its websocket and the instrumentation API.
With --config, the file is watched and reloaded when it changes.

  lbdash serve --config dashboard.yaml --addr :8080`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)

	configPath, _ := cmd.Flags().GetString("config")
	watch, _ := cmd.Flags().GetBool("watch")
	if configPath != "" && watch {
		go func() {
			if err := srv.WatchConfig(ctx, configPath); err != nil {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	return srv.ListenAndServe(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr)")
	serveCmd.Flags().Bool("watch", true, "Reload --config when it changes")
}
