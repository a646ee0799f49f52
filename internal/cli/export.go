package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aaditya-jx/loadbalancing/internal/format"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard data",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv [input.json]",
	Short: "Convert a JSON array of objects to CSV",
	Long: `Convert a JSON array of objects to CSV. Headers come from the keys of the
first object; every value is quoted. Reads stdin when no input file is given
or the input is "-".

  lbdash export csv servers.json --output servers.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportCSV,
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	table, err := format.TableFromJSON(data)
	if err != nil {
		return fmt.Errorf("error converting to CSV: %w", err)
	}

	if outputPath != "" {
		if err := format.WriteCSVFile(outputPath, table); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d rows written to: %s\n", len(table.Rows), outputPath)
		return nil
	}

	if err := format.CSV(cmd.OutOrStdout(), table); err != nil {
		return err
	}
	if len(table.Rows) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func init() {
	exportCSVCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	exportCmd.AddCommand(exportCSVCmd)
}
