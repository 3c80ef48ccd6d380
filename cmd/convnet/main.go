// Package main provides the convnet CLI: plan and run forward-only CNN
// pipelines described by YAML architecture files.
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("convnet: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "convnet",
		Short:         "Forward-only convolutional network inference",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newVersionCmd(),
		newInfoCmd(),
		newPlanCmd(),
		newPredictCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "convnet %s\n", version)
		},
	}
}
