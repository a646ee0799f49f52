package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/config"
	"github.com/Aaditya-jx/loadbalancing/internal/format"
	"github.com/Aaditya-jx/loadbalancing/internal/monitor"
	"github.com/Aaditya-jx/loadbalancing/internal/notify"
	"github.com/Aaditya-jx/loadbalancing/internal/rate"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Probe a dashboard URL and report page performance",
	Long: `Fetch a URL a number of times at a steady rate, then sample the
results as one page session: network latency, render time, memory usage and
latency percentiles. A warning is printed when rendering was slow.

  lbdash monitor --url http://localhost:8080/ --samples 10 --rate 5`,
	RunE: runMonitor,
}

type monitorResult struct {
	Report   monitor.Report       `json:"report"`
	Latency  monitor.LatencyStats `json:"latency"`
	Failures int64                `json:"failures"`
	Elapsed  time.Duration        `json:"-"`
}

func runMonitor(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	samples, _ := cmd.Flags().GetInt("samples")
	perSecond, _ := cmd.Flags().GetFloat64("rate")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if url == "" {
		return errors.New("--url is required")
	}
	if samples < 1 {
		return fmt.Errorf("--samples must be at least 1, got %d", samples)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if perSecond <= 0 {
		perSecond = cfg.Limits.ProbeRate
	}

	probe := monitor.NewProbe(url,
		monitor.WithHTTPClient(&http.Client{Timeout: timeout}),
		monitor.WithProbeLogger(logger),
	)
	pacer := rate.NewPacer(perSecond)
	origin := time.Now()

	ctx := cmd.Context()
	for i := 0; i < samples; i++ {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}
		if _, err := probe.Sample(ctx); err != nil {
			logger.Warn("probe failed", zap.Int("sample", i+1), zap.Error(err))
		}
	}
	if probe.Failures() == int64(samples) {
		return fmt.Errorf("all %d probes of %s failed", samples, url)
	}

	mon := monitor.New(monitorConfig(cfg.Monitor),
		monitor.WithOrigin(origin),
		monitor.WithSource(monitor.Combine(probe, monitor.RuntimeSource{})),
		monitor.WithSink(notify.NewConsole(cmd.ErrOrStderr(), noColor(cmd))),
		monitor.WithDiagnosticLog(monitor.NewZapLog(logger)),
		monitor.WithLogger(logger),
	)

	result := monitorResult{
		Report:   mon.Start(),
		Latency:  probe.Stats(),
		Failures: probe.Failures(),
		Elapsed:  time.Since(origin),
	}

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printMonitorResult(cmd.OutOrStdout(), url, result, noColor(cmd))
	return nil
}

func printMonitorResult(w io.Writer, url string, r monitorResult, disableColor bool) {
	header := color.New(color.Bold)
	label := color.New(color.FgCyan)
	if disableColor {
		header.DisableColor()
		label.DisableColor()
	}

	row := func(name, value string) {
		fmt.Fprintf(w, "  %s %s\n", label.Sprintf("%-16s", name+":"), value)
	}

	header.Fprintf(w, "Page performance: %s\n", url)
	row("Page load", format.Millis(r.Report.PageLoadTime))
	row("Render time", format.Millis(r.Report.RenderTime))
	row("Network latency", format.Millis(r.Report.NetworkLatency))
	row("Memory", r.Report.Memory)
	fmt.Fprintln(w)

	header.Fprintf(w, "Latency (%s samples, %s failed)\n", format.Number(r.Latency.Count), format.Number(r.Failures))
	row("sampled in", format.Duration(r.Elapsed))
	row("min", format.DurationShort(r.Latency.Min))
	row("mean", format.DurationShort(r.Latency.Mean))
	row("p50", format.DurationShort(r.Latency.P50))
	row("p90", format.DurationShort(r.Latency.P90))
	row("p95", format.DurationShort(r.Latency.P95))
	row("p99", format.DurationShort(r.Latency.P99))
	row("max", format.DurationShort(r.Latency.Max))
}

func monitorConfig(c config.MonitorConfig) monitor.Config {
	return monitor.Config{
		SlowRenderThreshold:  c.SlowRenderThreshold.Std(),
		NotificationDuration: c.NotificationDuration.Std(),
		SlowRenderMessage:    c.SlowRenderMessage,
	}
}

func init() {
	monitorCmd.Flags().String("url", "", "URL to probe")
	monitorCmd.Flags().IntP("samples", "n", 5, "Number of probes")
	monitorCmd.Flags().Float64("rate", 0, "Probes per second (default: limits.probeRate)")
	monitorCmd.Flags().DurationP("timeout", "t", 30*time.Second, "Request timeout")
	monitorCmd.Flags().Bool("json", false, "Output results as JSON")
}
