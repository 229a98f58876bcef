package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"stereodisparity/pkg/config"
)

var (
	cfgPath  string
	logLevel string
	scale    float64
	datasets []string
	outDir   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stereodisparity",
	Short: "Dense disparity maps from rectified stereo pairs",
	Long: `stereodisparity computes dense per-pixel disparity maps for rectified
stereo image pairs with either a window-based NCC matcher or a graph-cut
solver, and scores the results against ground truth.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))

		var err error
		cfg, err = config.LoadConfig(cfgPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "stereodisparity.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Float64Var(&scale, "scale", 1.0, "Rescale each pair before solving")
	rootCmd.PersistentFlags().StringSliceVar(&datasets, "dataset", nil, "Dataset names to process (default: all under the data root)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "results", "Directory for disparity PNGs")
}
