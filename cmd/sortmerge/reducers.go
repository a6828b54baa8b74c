package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.cubebuild.tech/sortmerge/reducers"
)

var reducersCmd = &cobra.Command{
	Use:   "reducers",
	Short: "List registered reducers",
	Args:  cobra.NoArgs,
	Run: wrapRun(func() error {
		for _, name := range reducers.Names() {
			if _, err := fmt.Fprintln(rootCmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reducersCmd)
}
