package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftbench/internal/config"
	dbRedis "github.com/kailas-cloud/ftbench/internal/db/redis"
	"github.com/kailas-cloud/ftbench/internal/domain"
	"github.com/kailas-cloud/ftbench/internal/domain/index"
	"github.com/kailas-cloud/ftbench/internal/repository/bleveindex"
	"github.com/kailas-cloud/ftbench/internal/repository/ftindex"
	"github.com/kailas-cloud/ftbench/internal/repository/memindex"
	"github.com/kailas-cloud/ftbench/internal/usecase/bench"
)

// openEngine creates the engine selected by database.driver.
// With wait set, a redis engine is polled until it answers or the readiness timeout expires.
func openEngine(ctx context.Context, cfg config.Config, wait bool, logger *zap.Logger) (bench.Engine, error) {
	switch cfg.Database.Driver {
	case config.DriverRedis:
		cmdTimeout := time.Duration(cfg.Database.CommandTimeoutSec) * time.Second
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:        cfg.Database.Addrs,
			Username:     cfg.Database.Username,
			Password:     cfg.Database.Password,
			DB:           cfg.Database.DB,
			DialTimeout:  cmdTimeout,
			WriteTimeout: cmdTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: create redis store: %w", domain.ErrServiceUnavailable, err)
		}
		if wait {
			readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
			if err := store.WaitForReady(ctx, readiness); err != nil {
				store.Close()
				return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
			}
			logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
		}
		return ftindex.New(store, cfg.Storage.KeyPrefix), nil
	case config.DriverBleve:
		return bleveindex.New(cfg.Storage.BleveDir), nil
	case config.DriverMemory:
		return memindex.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// selectDatasets turns configured datasets into benchmark inputs, keeping config order.
// An empty names list selects every dataset.
func selectDatasets(cfg config.Config, names []string) ([]bench.Dataset, error) {
	chosen := cfg.Datasets
	if len(names) > 0 {
		chosen = make([]config.DatasetConfig, 0, len(names))
		want := make(map[string]bool, len(names))
		for _, n := range names {
			if _, ok := cfg.Dataset(n); !ok {
				return nil, fmt.Errorf("unknown dataset %q", n)
			}
			want[n] = true
		}
		for _, d := range cfg.Datasets {
			if want[d.Name] {
				chosen = append(chosen, d)
			}
		}
	}

	out := make([]bench.Dataset, 0, len(chosen))
	for _, d := range chosen {
		settings, err := index.NewSettings(d.IDField, d.TextFields)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", d.Name, err)
		}
		settings.Weights = d.TextWeights
		settings.Language = d.Language
		settings.NoStem = d.NoStemFields

		out = append(out, bench.Dataset{
			Name:     d.Name,
			Path:     d.Path,
			Index:    d.Index,
			Settings: settings,
			MaxDocs:  cfg.EffectiveMaxDocs(d),
		})
	}
	return out, nil
}
