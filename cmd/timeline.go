package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpi-tools/schedule-export/app"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the schedule timeline derived from the JPI settings",
	RunE:  runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	tl, err := svc.Timeline(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "start: %s\n", tl.Start.Format(time.DateTime))
	fmt.Fprintf(out, "end:   %s\n", tl.End.Format(time.DateTime))
	fmt.Fprintf(out, "slots: %d\n", tl.Len())
	return nil
}
