package cli

import (
	"github.com/futig/structure-engine/internal/entity"
	"github.com/spf13/cobra"
)

func newNormalizeCommand(g *globalOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Convert a structure document into the canonical page form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readDocument(cmd, input)
			if err != nil {
				return err
			}

			canonical, warnings := newUsecase("").Normalize(g.context(cmd), content)
			return write(cmd.OutOrStdout(), g.output, &entity.NormalizeResponse{
				Canonical: canonical,
				Warnings:  warnings,
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "structure file, - for stdin")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
