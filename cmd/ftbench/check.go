package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ftbench/internal/corpus"
	"github.com/kailas-cloud/ftbench/internal/domain"
	logpkg "github.com/kailas-cloud/ftbench/internal/logger"
	healthuc "github.com/kailas-cloud/ftbench/internal/usecase/health"
)

func newCheckCmd(global *globalOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the engine answers and every corpus file exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			logger, err := global.logger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := logpkg.ContextWithLogger(cmd.Context(), logger)
			engine, err := openEngine(ctx, cfg, false, logger)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			corpora := make(map[string]string, len(cfg.Datasets))
			for _, d := range cfg.Datasets {
				corpora[d.Name] = d.Path
			}

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			rep := healthuc.New(engine, healthuc.CorpusCheckFunc(corpus.Check), corpora).Check(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			return checkError(rep)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Time allowed for the engine ping")
	return cmd
}

// checkError turns a failed report into an error carrying the most actionable cause.
func checkError(rep healthuc.Report) error {
	failed := rep.Failed()
	if len(failed) == 0 {
		return nil
	}
	if _, ok := rep.Errors[healthuc.CheckEngine]; ok {
		return fmt.Errorf("%w: %s", domain.ErrServiceUnavailable, rep.Errors[healthuc.CheckEngine])
	}
	return fmt.Errorf("%w: %d corpus file(s) unavailable: %v", domain.ErrDataNotFound, len(failed), failed)
}
