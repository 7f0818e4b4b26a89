package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/config"
	"github.com/kailas-cloud/ftbench/internal/corpus"
	"github.com/kailas-cloud/ftbench/internal/domain/query"
	logpkg "github.com/kailas-cloud/ftbench/internal/logger"
	"github.com/kailas-cloud/ftbench/internal/metrics"
	"github.com/kailas-cloud/ftbench/internal/report"
	chiTransport "github.com/kailas-cloud/ftbench/internal/transport/chi"
	"github.com/kailas-cloud/ftbench/internal/usecase/bench"
	healthuc "github.com/kailas-cloud/ftbench/internal/usecase/health"
	"github.com/kailas-cloud/ftbench/internal/version"
)

type runOptions struct {
	engine      string
	maxDocs     int
	datasets    []string
	reportDir   string
	metricsPort int
	serve       bool
	outputJSON  bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Index every dataset, replay the query set and write reports",
		Long: `Run the full benchmark: for each configured dataset load the corpus,
recreate its index, bulk-index the documents, run every query once and
collect the index footprint. Results go to the report directory and a
summary is printed to stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			logger, err := global.logger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runBenchmark(cmd, cfg, opts, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.engine, "engine", "",
		"Engine driver: redis, bleve, memory (default from config)")
	flags.IntVar(&opts.maxDocs, "max-docs", 0,
		"Documents to index per dataset (0 = use config)")
	flags.StringSliceVar(&opts.datasets, "datasets", nil,
		"Datasets to run (default: all configured)")
	flags.StringVar(&opts.reportDir, "report-dir", "",
		"Directory for JSON and markdown reports (default from config)")
	flags.IntVar(&opts.metricsPort, "metrics-port", 0,
		"Port of the status server (0 = use config)")
	flags.BoolVar(&opts.serve, "serve", false,
		"Keep the status server running after the run until interrupted")
	flags.BoolVar(&opts.outputJSON, "json", false,
		"Print the summary as JSON instead of a markdown table")
	return cmd
}

// apply layers explicitly set flags over the config and revalidates it.
func (o runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Database.Driver = o.engine
	}
	if flags.Changed("max-docs") {
		cfg.Benchmark.MaxDocs = o.maxDocs
	}
	if flags.Changed("report-dir") {
		cfg.Report.Dir = o.reportDir
	}
	if flags.Changed("metrics-port") {
		cfg.Metrics.Port = o.metricsPort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func runBenchmark(cmd *cobra.Command, cfg config.Config, opts runOptions, logger *zap.Logger) error {
	ctx := logpkg.ContextWithLogger(cmd.Context(), logger)

	datasets, err := selectDatasets(cfg, opts.datasets)
	if err != nil {
		return err
	}

	logger.Info("Starting ftbench",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("driver", cfg.Database.Driver),
		zap.Int("datasets", len(datasets)),
		zap.Int("max_docs", cfg.Benchmark.MaxDocs),
	)

	engine, err := openEngine(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("Error closing engine", zap.Error(err))
		}
	}()

	writer := report.NewWriter(cfg.Report.Dir, cfg.Report.Markdown)

	stopServer := func() {}
	if cfg.Metrics.Port > 0 {
		stopServer = startStatusServer(ctx, cfg, engine, writer, logger)
	}
	defer stopServer()

	harness := bench.NewHarness(
		bench.WithMinElapsed(time.Duration(cfg.Benchmark.MinElapsedMS)*time.Millisecond),
		bench.WithOperationTimeout(time.Duration(cfg.Benchmark.OperationTimeoutSec)*time.Second),
		bench.WithBatchSize(cfg.Benchmark.BatchSize),
		bench.WithRecorder(metrics.NewRecorder()),
	)
	runner := bench.NewRunner(harness, engine, bench.LoaderFunc(corpus.Load), cfg.Benchmark.ResultSize)

	queries := query.Set()
	if _, err := writer.WriteQueries(queries); err != nil {
		return err
	}

	summary, err := runner.Run(ctx, datasets, queries)
	if err != nil {
		return err
	}

	paths, err := writer.WriteSummary(summary)
	if err != nil {
		return err
	}
	logger.Info("Reports written", zap.String("dir", writer.Dir()), zap.Int("files", len(paths)))

	out := cmd.OutOrStdout()
	if opts.outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.NewSummaryReport(summary)); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
	} else if _, err := fmt.Fprint(out, report.Markdown(summary)); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	if opts.serve && cfg.Metrics.Port > 0 {
		logger.Info("Serving status until interrupted", zap.Int("port", cfg.Metrics.Port))
		<-ctx.Done()
	}
	return nil
}

// startStatusServer runs /healthz, /metrics and /summary in the background; the returned func stops it.
func startStatusServer(
	ctx context.Context, cfg config.Config, engine bench.Engine, writer *report.Writer, logger *zap.Logger,
) func() {
	corpora := make(map[string]string, len(cfg.Datasets))
	for _, d := range cfg.Datasets {
		corpora[d.Name] = d.Path
	}
	health := healthuc.New(engine, healthuc.CorpusCheckFunc(corpus.Check), corpora)
	server := chiTransport.NewServer(health, writer, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      server.Router(cfg.Metrics.APIKeys),
		ReadTimeout:  time.Duration(cfg.Metrics.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Metrics.WriteTimeoutSec) * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(ctx, srv, time.Duration(cfg.Metrics.ShutdownSec)*time.Second); err != nil {
			logger.Error("Status server error", zap.Error(err))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
