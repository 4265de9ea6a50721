package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpi-tools/schedule-export/app"
	"github.com/jpi-tools/schedule-export/config"
	"github.com/jpi-tools/schedule-export/infra/logger"
	"github.com/jpi-tools/schedule-export/internal/opener"
)

var (
	cfgPath  string
	output   string
	format   string
	noOpen   bool
	openFile = opener.Open
)

const banner = `
       _ _____ _____   ______                       _
      | |  __ \_   _| |  ____|                     | |
      | | |__) || |   | |__  __  ___ __   ___  _ __| |_ ___ _ __
  _   | |  ___/ | |   |  __| \ \/ / '_ \ / _ \| '__| __/ _ \ '__|
 | |__| | |    _| |_  | |____ >  <| |_) | (_) | |  | ||  __/ |
  \____/|_|   |_____| |______/_/\_\ .__/ \___/|_|   \__\___|_|
                                  | |
                                  |_|
`

var rootCmd = &cobra.Command{
	Use:          "jpi-export",
	Short:        "Export the JPI machine schedule to a spreadsheet",
	SilenceUsage: true,
	RunE:         runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output file, overrides export.path")
	rootCmd.Flags().StringVar(&format, "format", "", "output format: xlsx, csv or json")
	rootCmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open the file after export")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) error {
	if output != "" {
		cfg.Export.Path = output
		if format == "" {
			cfg.Export.Format = config.FormatFromPath(output)
		}
	}
	if format != "" {
		cfg.Export.Format = strings.ToLower(format)
	}
	if noOpen {
		open := false
		cfg.Export.Open = &open
	}
	return cfg.Export.Validate()
}

func runExport(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, banner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	svc, err := app.New(cfg, out)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.Run(ctx)
	if err != nil {
		fmt.Fprintln(out, "Error:")
		for _, line := range failureLines(err, cfg.Export.Path) {
			fmt.Fprintf(out, "- %s\n", line)
		}
		return err
	}
	fmt.Fprintln(out, "- Schedule export completed successfully.")
	if cfg.Export.ShouldOpen() {
		fmt.Fprintln(out, "- Opening the exported file.")
		if err := openFile(res.Path); err != nil {
			logger.New("main").Warnf("open %s: %v", res.Path, err)
		}
	}
	return nil
}
