package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jpi-tools/schedule-export/app"
	"github.com/jpi-tools/schedule-export/pkg/export"
)

var machinesCmd = &cobra.Command{
	Use:   "machines",
	Short: "List the tracked machines and their spreadsheet columns",
	RunE:  runMachines,
}

func init() {
	rootCmd.AddCommand(machinesCmd)
}

func runMachines(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	cols, err := svc.Machines(cmd.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tMACHINE\tEXCEPTIONS")
	for col, m := range cols.All() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", export.ColumnName(col), m.Name, len(m.CalendarExceptions))
	}
	return tw.Flush()
}
