package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qepting91/tweet-miner/internal/config"
	"github.com/qepting91/tweet-miner/internal/dashboard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Run failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config
	var logger *slog.Logger

	root := &cobra.Command{
		Use:           "miner",
		Short:         "Collect social media posts for a query and score their sentiment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
			slog.SetDefault(logger)
			return nil
		},
	}
	root.AddCommand(newCollectCmd(&cfg, &logger), newDashboardCmd(&cfg, &logger))
	return root
}

func newCollectCmd(cfg **config.Config, logger **slog.Logger) *cobra.Command {
	var flags struct {
		mode, query, queryName, place, placeLabel, format, outDir string
		target, pageSize                                          int
	}
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection and write the enriched records to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			f := cmd.Flags()
			if f.Changed("mode") {
				c.Mode = flags.mode
			}
			if f.Changed("query") {
				c.Query = flags.query
			}
			if f.Changed("query-name") {
				c.QueryName = flags.queryName
			}
			if f.Changed("place") {
				c.PlaceID = flags.place
			}
			if f.Changed("place-label") {
				c.PlaceLabel = flags.placeLabel
			}
			if f.Changed("target") {
				c.TargetCount = flags.target
			}
			if f.Changed("page-size") {
				c.PageSize = flags.pageSize
			}
			if f.Changed("out-dir") {
				c.OutputDir = flags.outDir
			}
			if f.Changed("format") {
				if err := c.SetFormat(flags.format); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return collect(ctx, c, *logger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.mode, "mode", "", "search backend: twitter, reddit, public or mock")
	f.StringVarP(&flags.query, "query", "q", "", "raw search query")
	f.StringVarP(&flags.queryName, "query-name", "n", "", "named query from QUERY_FILE")
	f.StringVar(&flags.place, "place", "", "place id to restrict the search to")
	f.StringVar(&flags.placeLabel, "place-label", "", "place label used in the output file name")
	f.IntVarP(&flags.target, "target", "t", 0, "number of posts to collect")
	f.IntVar(&flags.pageSize, "page-size", 0, "posts per request (max 100)")
	f.StringVar(&flags.format, "format", "", "output format: csv, xlsx or ndjson (xlsx is saved only when the run ends)")
	f.StringVarP(&flags.outDir, "out-dir", "o", "", "output directory")
	return cmd
}

func newDashboardCmd(cfg **config.Config, logger **slog.Logger) *cobra.Command {
	var dataFile, port string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve sentiment charts for an output file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataFile == "" {
				return fmt.Errorf("--data is required")
			}
			if port == "" {
				port = (*cfg).Port
			}
			(*logger).Info("Starting Dashboard", "port", port, "data", dataFile)
			return dashboard.StartServer(dataFile, port, *logger)
		},
	}
	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "output file to chart")
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT)")
	return cmd
}
