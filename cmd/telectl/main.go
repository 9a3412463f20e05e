package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "telectl",
		Short:         "Operations tool for the subscription lifecycle service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file")

	root.AddCommand(
		newMigrateCmd(&envFile),
		newSweepCmd(&envFile),
		newTokenCmd(&envFile),
	)
	return root
}
