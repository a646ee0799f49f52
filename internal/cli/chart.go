package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aaditya-jx/loadbalancing/internal/chart"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print Chart.js option presets",
	Long: `Print a Chart.js options preset as JSON (or YAML with --yaml).

  lbdash chart --preset line --theme light`,
	RunE: runChart,
}

func runChart(cmd *cobra.Command, args []string) error {
	preset, _ := cmd.Flags().GetString("preset")
	themeName, _ := cmd.Flags().GetString("theme")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	if themeName == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		themeName = cfg.Chart.Theme
	}
	theme, err := chart.ParseTheme(themeName)
	if err != nil {
		return err
	}

	options, err := chart.Preset(preset, theme)
	if err != nil {
		return err
	}

	var data []byte
	if asYAML {
		data, err = options.YAML()
	} else {
		data, err = options.JSON()
	}
	if err != nil {
		return fmt.Errorf("error encoding chart options: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func init() {
	chartCmd.Flags().String("preset", "default", "Preset: default, line or bar")
	chartCmd.Flags().String("theme", "", "Theme: dark or light (default: chart.theme)")
	chartCmd.Flags().Bool("yaml", false, "Output YAML instead of JSON")
}
