package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bench-chart/internal/config"
	"bench-chart/internal/logging"
	"bench-chart/internal/plot"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

// loadEnvFile loads path into the environment if it exists and reports
// whether the file was found.
func loadEnvFile(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	logger := logging.GetLogger().WithField("file", path)
	if err := godotenv.Load(path); err != nil {
		logger.WithError(err).Warn("Error loading .env file")
	} else {
		logger.Debug("Loaded environment variables")
	}
	return true
}

// loadEnvironment reads .env from the working directory, falling back to
// the directory holding the executable.
func loadEnvironment() {
	if loadEnvFile(".env") {
		return
	}
	if execPath, err := os.Executable(); err == nil {
		loadEnvFile(filepath.Join(filepath.Dir(execPath), ".env"))
	}
}

func NewRootCommand() *cobra.Command {
	var configFile string
	var outputPath string
	var dpi int
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "bench-chart",
		Short:         "Benchmark comparison chart renderer",
		Long:          "Render grouped, log-scaled bar charts comparing proving times across workload sizes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				if err := logging.SetLogLevel(logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a comparison chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderChart(cmd.Context(), configFile, logLevel == "", plot.RenderOverrides{
				OutputPath: outputPath,
				DPI:        dpi,
			}, cmd.OutOrStdout())
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a chart configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(configFile)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}

	renderCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to chart configuration file")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output PNG path (overrides chart.output.path)")
	renderCmd.Flags().IntVar(&dpi, "dpi", 0, "Output resolution (overrides chart.output.dpi)")
	renderCmd.MarkFlagRequired("config")

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to chart configuration file")
	validateCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func Execute() error {
	loadEnvironment()
	return NewRootCommand().Execute()
}

func validateConfig(configFile string) error {
	logger := logging.GetLogger()

	_, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}
	logger.WithField("config_file", configFile).Info("Configuration is valid")
	return nil
}

func renderChart(ctx context.Context, configFile string, useConfigLogLevel bool, overrides plot.RenderOverrides, out io.Writer) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set log level from configuration unless given on the command line
	if useConfigLogLevel && cfg.Chart.LogLevel != "" {
		if err := logging.SetLogLevel(cfg.Chart.LogLevel); err != nil {
			logger.WithField("log_level", cfg.Chart.LogLevel).WithError(err).Warn("Invalid log level in config, using INFO")
			logging.SetLogLevel("info")
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	path, err := plot.NewPlotManager().GenerateComparisonChart(ctx, cfg, overrides)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"config_file": configFile,
			"chart":       cfg.Chart.Name,
		}).WithError(err).Error("Failed to generate chart")
		return err
	}

	fmt.Fprintln(out, path)
	return nil
}
