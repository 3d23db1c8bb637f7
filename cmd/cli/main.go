package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hiveden/sysintel/internal/config"
	"github.com/hiveden/sysintel/internal/hw"
	"github.com/hiveden/sysintel/internal/logger"
	"github.com/hiveden/sysintel/internal/platform"
	"github.com/hiveden/sysintel/internal/report"
)

var (
	cfg   *config.Config
	host  platform.Info
	query *hw.Query
)

func main() {
	if err := buildRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "sysintel",
		Short:         "Show hardware and operating system information",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(viper.GetViper(), configFile)
			if err != nil {
				return err
			}
			logger.Init(cfg.LogLevel, os.Stderr)

			host, err = platform.Detect(cmd.Context())
			if err != nil {
				logger.Main.Warn().Err(err).Msg("failed to detect platform")
				host.Class = platform.Classify(runtime.GOOS, "")
			}
			host.Class = cfg.Classify(host.Class)
			logger.Main.Debug().Str("class", host.Class.String()).Str("platform", host.Platform()).Msg("platform detected")

			sensors := hw.DefaultSensors(host)
			query = hw.NewQuery(sensors, hw.Probe(cmd.Context(), sensors), host.Class, hw.WithHumanClock(cfg.HumanClock))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return printAll(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml)")
	flags.String("format", config.FormatTable, "output format: table or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("human-clock", false, "show clock frequencies in the largest fitting unit instead of MHz")
	flags.String("os-class", "", "override the detected OS class (linux, ubuntu, darwin, windows, freebsd)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error or off")

	config.SetDefaults(viper.GetViper())
	if err := config.BindFlags(viper.GetViper(), flags); err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind flags: %v\n", err)
	}

	rootCmd.AddCommand(buildCPUCommand())
	rootCmd.AddCommand(buildOSCommand())

	return rootCmd
}

func buildCPUCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Show CPU vendor, clock speed, core counts and cache sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record := query.CPU(cmd.Context())
			if cfg.Format == config.FormatYAML {
				return report.WriteYAML(cmd.OutOrStdout(), report.CPUDocument(record))
			}
			return report.PrintCPU(cmd.OutOrStdout(), record, report.WithColor(cfg.Color))
		},
	}
}

func buildOSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "os",
		Short: "Show the operating system platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Format == config.FormatYAML {
				return report.WriteYAML(cmd.OutOrStdout(), report.OSDocument(host))
			}
			return report.PrintOS(cmd.OutOrStdout(), host, report.WithColor(cfg.Color))
		},
	}
}

func printAll(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	record := query.CPU(cmd.Context())
	if cfg.Format == config.FormatYAML {
		return report.WriteYAML(out, report.OSDocument(host), report.CPUDocument(record))
	}
	if err := report.PrintOS(out, host, report.WithColor(cfg.Color)); err != nil {
		return err
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return report.PrintCPU(out, record, report.WithColor(cfg.Color))
}
