package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aaditya-jx/loadbalancing/internal/severity"
)

var severityCmd = &cobra.Command{
	Use:   "severity [name...]",
	Short: "Show the color token of severities and server status",
	Long: `Print the color token for each named severity, or for every severity
when no name is given. Unknown names resolve to info.

  lbdash severity critical LOW unknown
  lbdash severity --status up`,
	RunE: runSeverity,
}

func runSeverity(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if status, _ := cmd.Flags().GetString("status"); status != "" {
		switch status {
		case "up":
			fmt.Fprintln(out, severity.StatusColor(true))
		case "down":
			fmt.Fprintln(out, severity.StatusColor(false))
		default:
			return fmt.Errorf("invalid status %q (expected up or down)", status)
		}
		return nil
	}

	names := args
	if len(names) == 0 {
		for _, s := range severity.All() {
			names = append(names, string(s))
		}
	}

	for _, name := range names {
		s := severity.Parse(name)
		label := severity.Terminal(s)
		if noColor(cmd) {
			label.DisableColor()
		}
		fmt.Fprintf(out, "%s %s\n", label.Sprintf("%-8s", s), s.Color())
	}
	return nil
}

func init() {
	severityCmd.Flags().String("status", "", "Print the status color instead: up or down")
}
