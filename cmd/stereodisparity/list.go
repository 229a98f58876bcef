package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereodisparity/pkg/dataset"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets available under the data root",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := dataset.New(cfg.Dataset.Root).List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
