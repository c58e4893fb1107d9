package cli

import (
	"fmt"

	"github.com/futig/structure-engine/internal/entity"
	"github.com/spf13/cobra"
)

func newDiffCommand(g *globalOptions) *cobra.Command {
	var before, after string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show a unified line diff between two files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := readInput(cmd, before)
			if err != nil {
				return err
			}
			b, err := readInput(cmd, after)
			if err != nil {
				return err
			}

			text, stats := newUsecase("").Diff(g.context(cmd), a, b)

			// plain unified diff for humans, structured only when yaml is asked for
			if g.output == outputYAML {
				return write(cmd.OutOrStdout(), g.output, &entity.DiffResponse{Diff: text, Stats: stats})
			}
			if text == "" {
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "original file")
	cmd.Flags().StringVar(&after, "after", "", "changed file")
	_ = cmd.MarkFlagRequired("before")
	_ = cmd.MarkFlagRequired("after")

	return cmd
}
