// Package cli implements the structure-cli commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/futig/structure-engine/internal/document"
	"github.com/futig/structure-engine/internal/repository"
	"github.com/futig/structure-engine/internal/usecase/normalize"
	"github.com/futig/structure-engine/internal/usecase/reconcile"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	output   string
	logLevel string
	logger   *zap.Logger
}

// NewRootCommand builds the command tree. Results go to out, logs to stderr.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "structure-cli",
		Short:         "Repair, reconcile and normalize structure documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != outputJSON && opts.output != outputYAML {
				return fmt.Errorf("unknown output format %q (want json or yaml)", opts.output)
			}
			logger, err := newLogger(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "output format: json or yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newProcessCommand(opts),
		newNormalizeCommand(opts),
		newDiffCommand(opts),
		newScanCommand(opts),
	)
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func (o *globalOptions) context(cmd *cobra.Command) context.Context {
	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return ctxzap.ToContext(cmd.Context(), logger)
}

// newUsecase wires the engine with a file audit store when auditDir is set
func newUsecase(auditDir string) *reconcile.Usecase {
	cfg := reconcile.Config{
		Codec:      document.NewJSONCodec(),
		Normalizer: normalize.NewNormalizer(),
	}
	if auditDir != "" {
		cfg.Storage = repository.NewAuditFileStorage(auditDir)
	}
	return reconcile.NewUsecase(cfg)
}

// readInput reads a file, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// readDocument reads and parses a well-formed JSON document
func readDocument(cmd *cobra.Command, path string) (any, error) {
	text, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
