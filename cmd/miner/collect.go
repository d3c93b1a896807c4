package main

import (
	"context"
	"log/slog"

	"github.com/qepting91/tweet-miner/internal/collector"
	"github.com/qepting91/tweet-miner/internal/config"
	"github.com/qepting91/tweet-miner/internal/domain"
	"github.com/qepting91/tweet-miner/internal/enrich"
	"github.com/qepting91/tweet-miner/internal/miner"
	"github.com/qepting91/tweet-miner/internal/sentiment"
	"github.com/qepting91/tweet-miner/internal/storage"
)

func collect(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	searcher, err := collector.NewSearcher(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("Collector initialized", "mode", cfg.Mode)

	_, err = run(ctx, cfg, searcher, logger)
	return err
}

// run performs one collection into the configured output file. The sink is
// opened once and closed on every exit path.
func run(ctx context.Context, cfg *config.Config, searcher domain.Searcher, logger *slog.Logger) (res miner.Result, err error) {
	name, text, err := cfg.ResolveQuery()
	if err != nil {
		return miner.Result{}, err
	}
	query := domain.Query{Name: name, Text: text, PlaceID: cfg.PlaceID}
	path := cfg.OutputPath(name)

	sink, err := storage.Open(path, cfg.OutputFormat)
	if err != nil {
		return miner.Result{}, err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	logger.Info("Starting collection", "query", query.String(), "target", cfg.TargetCount, "file", path)

	loop := &miner.Loop{
		Fetch:   searcher.Search,
		Extract: enrich.NewExtractor(sentiment.New()).Extract,
		Append:  sink.Append,
		Logger:  logger,
	}
	res, err = loop.Run(ctx, miner.Params{
		Query:      query,
		Target:     cfg.TargetCount,
		PageSize:   cfg.PageSize,
		Lang:       cfg.Lang,
		ResultType: cfg.ResultType,
	})
	if err != nil {
		return res, err
	}

	switch res.Outcome {
	case miner.NoResults:
		logger.Warn("No results for query", "query", query.String())
	case miner.Exhausted:
		logger.Info("Results exhausted before target", "collected", res.Collected, "target", cfg.TargetCount)
	}
	logger.Info("Collection finished", "outcome", res.Outcome.String(), "collected", res.Collected, "file", path)
	return res, nil
}
