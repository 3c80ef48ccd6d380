package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/convnet/internal/config"
)

func newPlanCmd() *cobra.Command {
	var archPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the output shape of every layer without running the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			arch, err := config.Load(archPath)
			if err != nil {
				return err
			}
			model, err := arch.Build()
			if err != nil {
				return err
			}
			shapes, err := model.Plan(arch.InputShape())
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "#\tLAYER\tOUTPUT\n")
			fmt.Fprintf(tw, "-\tinput\t%v\n", []int(arch.InputShape()))
			for i, shape := range shapes {
				fmt.Fprintf(tw, "%d\t%s\t%v\n", i, model.Layer(i), []int(shape))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&archPath, "arch", "a", "", "architecture YAML file")
	_ = cmd.MarkFlagRequired("arch")
	return cmd
}
