package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereodisparity/pkg/graphcut"
)

var (
	occlusionPenalty int64
	smoothPenalty    int64
	numIters         int
)

var graphcutCmd = &cobra.Command{
	Use:   "graphcut",
	Short: "Solve with alpha-expansion graph cuts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cp, v, iters := occlusionPenalty, smoothPenalty, numIters
		if !cmd.Flags().Changed("cp") {
			cp = cfg.GraphCut.Cp
		}
		if !cmd.Flags().Changed("v") {
			v = cfg.GraphCut.V
		}
		if !cmd.Flags().Changed("iters") {
			iters = cfg.GraphCut.NumIters
		}
		solver, err := graphcut.NewWithIterations(cp, v, iters)
		if err != nil {
			return err
		}
		return runSolver("graphcut", fmt.Sprintf("cp=%d,v=%d,iters=%d", cp, v, iters), solver)
	},
}

func init() {
	graphcutCmd.Flags().Int64Var(&occlusionPenalty, "cp", 20, "Per-pixel occlusion penalty")
	graphcutCmd.Flags().Int64Var(&smoothPenalty, "v", 5, "Per-pair smoothness penalty")
	graphcutCmd.Flags().IntVar(&numIters, "iters", graphcut.DefaultIterations, "Outer passes over the disparity range")
	rootCmd.AddCommand(graphcutCmd)
}
