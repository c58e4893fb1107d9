package cli

import (
	"github.com/futig/structure-engine/internal/entity"
	"github.com/spf13/cobra"
)

type processOptions struct {
	candidate string
	reference string
	auditDir  string
	raw       bool
}

func newProcessCommand(g *globalOptions) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Repair a candidate document against an optional reference",
		Long: `Repairs the candidate JSON, fills keys missing from it with the reference
values and normalizes the result into pages, sections and fields.
Use --raw to skip normalization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.candidate, "candidate", "c", "", "candidate file, - for stdin")
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "reference structure file")
	cmd.Flags().StringVar(&opts.auditDir, "audit-dir", "", "write audit records for repaired candidates here")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "skip normalization")
	_ = cmd.MarkFlagRequired("candidate")

	return cmd
}

func runProcess(cmd *cobra.Command, g *globalOptions, opts *processOptions) error {
	ctx := g.context(cmd)

	candidate, err := readInput(cmd, opts.candidate)
	if err != nil {
		return err
	}

	var reference any
	if opts.reference != "" {
		if reference, err = readDocument(cmd, opts.reference); err != nil {
			return err
		}
	}

	uc := newUsecase(opts.auditDir)

	var result *entity.ProcessResult
	if opts.raw {
		result, err = uc.Reconcile(ctx, candidate, reference)
	} else {
		result, err = uc.Process(ctx, candidate, reference)
	}
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), g.output, result)
}
