package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/Aaditya-jx/loadbalancing/internal/format"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format values the way the dashboard displays them",
}

var formatBytesCmd = &cobra.Command{
	Use:   "bytes <count>",
	Short: "Format a byte count (e.g., 1536 -> 1.5 KB)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid byte count %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), format.Bytes(n))
		return nil
	},
}

var formatUptimeCmd = &cobra.Command{
	Use:   "uptime <seconds>",
	Short: "Format an uptime in seconds (e.g., 90061 -> 1d 1h 1m)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number of seconds %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), format.Uptime(n))
		return nil
	},
}

var formatNumberCmd = &cobra.Command{
	Use:   "number <value>",
	Short: "Format a number with digit grouping (e.g., 1234567 -> 1,234,567)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locale, _ := cmd.Flags().GetString("locale")
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		f := format.NewFormatter(tag)

		if strings.ContainsAny(args[0], ".eE") {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Decimal(v))
			return nil
		}

		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), f.Number(n))
		return nil
	},
}

func init() {
	formatNumberCmd.Flags().String("locale", "en", "BCP 47 locale for digit grouping")

	formatCmd.AddCommand(formatBytesCmd)
	formatCmd.AddCommand(formatUptimeCmd)
	formatCmd.AddCommand(formatNumberCmd)
}
