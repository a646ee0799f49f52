package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aaditya-jx/loadbalancing/internal/animate"
	"github.com/Aaditya-jx/loadbalancing/internal/render"
)

var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Animate a counter on the terminal",
	Long: `Count a value up from --from to --to over --duration, redrawing the
counter in place on a terminal.

  lbdash animate --from 0 --to 12500 --duration 1s --surface requests`,
	RunE: runAnimate,
}

func runAnimate(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetFloat64("from")
	to, _ := cmd.Flags().GetFloat64("to")
	duration, _ := cmd.Flags().GetDuration("duration")
	surface, _ := cmd.Flags().GetString("surface")
	overshoot, _ := cmd.Flags().GetBool("overshoot")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	console := render.NewConsole(render.ConsoleConfig{
		Writer:          cmd.OutOrStdout(),
		RefreshInterval: cfg.Limits.Throttle.Std(),
	})
	defer console.Flush()

	opts := []animate.Option{
		animate.WithFrameInterval(cfg.Animation.FrameInterval.Std()),
		animate.WithLogger(logger),
	}
	if overshoot || cfg.Animation.Overshoot {
		opts = append(opts, animate.WithOvershoot())
	}

	animation, err := animate.New(console, opts...).Animate(surface, from, to, duration)
	if err != nil {
		return fmt.Errorf("cannot animate %s: %w", surface, err)
	}
	return animation.Wait(cmd.Context())
}

func init() {
	animateCmd.Flags().Float64("from", 0, "Start value")
	animateCmd.Flags().Float64("to", 100, "End value")
	animateCmd.Flags().Duration("duration", time.Second, "Animation duration")
	animateCmd.Flags().String("surface", "value", "Surface label")
	animateCmd.Flags().Bool("overshoot", false, "Show the final accumulated value instead of the exact end value")
}
