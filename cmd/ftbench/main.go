// Package main provides the ftbench CLI: it indexes fixed corpora into a
// full-text engine, replays a fixed query set and reports latency,
// throughput and index footprint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/config"
	"github.com/kailas-cloud/ftbench/internal/domain"
	logpkg "github.com/kailas-cloud/ftbench/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "error: %v\n", err)
	if hint := domain.Remediation(err); hint != "" {
		_, _ = fmt.Fprintf(w, "hint: %s\n", hint)
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	env        string
	configPath string
	logLevel   string
}

func (o *globalOptions) load() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load(o.env)
}

func (o *globalOptions) logger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return logpkg.NewLogger(o.env, level)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "ftbench",
		Short: "Full-text search engine benchmark harness",
		Long: `ftbench loads the news and wiki corpora into a full-text search engine,
runs a fixed set of queries against each index and reports search latency
(mean, median, P95, P99), indexing throughput and index footprint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.env, "env", config.GetEnv(),
		"Environment: selects config/<env>.yaml and the log format")
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Path to a config file (overrides --env lookup)")
	flags.StringVar(&opts.logLevel, "log-level", "",
		"Log level override: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(opts),
		newQueriesCmd(),
		newCheckCmd(opts),
		newCleanCmd(opts),
		newVersionCmd(),
	)
	return root
}
