package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/domain"
	logpkg "github.com/kailas-cloud/ftbench/internal/logger"
	"github.com/kailas-cloud/ftbench/internal/usecase/bench"
)

// indexDropper is implemented by engines that can delete an index and its documents.
type indexDropper interface {
	DropIndex(ctx context.Context, name string) error
}

func newCleanCmd(global *globalOptions) *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop the benchmark indexes and their documents",
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

			datasets, err := selectDatasets(cfg, names)
			if err != nil {
				return err
			}

			ctx := logpkg.ContextWithLogger(cmd.Context(), logger)
			engine, err := openEngine(ctx, cfg, true, logger)
			if err != nil {
				return err
			}
			defer func() { _ = engine.Close() }()

			return dropIndexes(ctx, engine, datasets, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVar(&names, "datasets", nil, "Datasets whose indexes to drop (default: all)")
	return cmd
}

// dropIndexes drops the index of every dataset, reporting one line per index.
// An index that does not exist is reported as absent.
func dropIndexes(ctx context.Context, engine bench.Engine, datasets []bench.Dataset, w io.Writer) error {
	dropper, ok := engine.(indexDropper)
	if !ok {
		return fmt.Errorf("engine %s cannot drop indexes", engine.Name())
	}

	logger := logpkg.FromContext(ctx).With(zap.String("engine", engine.Name()))
	for _, d := range datasets {
		err := dropper.DropIndex(ctx, d.Index)
		switch {
		case err == nil:
			logger.Info("index dropped", zap.String("dataset", d.Name), zap.String("index", d.Index))
			_, _ = fmt.Fprintf(w, "dropped %s\n", d.Index)
		case errors.Is(err, domain.ErrIndexNotFound):
			_, _ = fmt.Fprintf(w, "absent %s\n", d.Index)
		default:
			return &domain.StepError{Dataset: d.Name, Step: domain.StepClean, Err: err}
		}
	}
	return nil
}
