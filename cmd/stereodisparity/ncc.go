package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereodisparity/pkg/ncc"
)

var windowSize int

var nccCmd = &cobra.Command{
	Use:   "ncc",
	Short: "Solve with window-based normalized cross-correlation",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := windowSize
		if !cmd.Flags().Changed("window") {
			w = cfg.NCC.WindowSize
		}
		solver, err := ncc.New(w)
		if err != nil {
			return err
		}
		return runSolver("ncc", fmt.Sprintf("window=%d", w), solver)
	},
}

func init() {
	nccCmd.Flags().IntVar(&windowSize, "window", 9, "Template window side length (odd)")
	rootCmd.AddCommand(nccCmd)
}
