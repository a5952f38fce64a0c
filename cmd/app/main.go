package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/veeti-k/sivupaja/internal"
	pkgconfig "github.com/veeti-k/sivupaja/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func commonOpts(cmd *cli.Command, cfg *internal.Config) []internal.Option {
	opts := []internal.Option{internal.WithConfig(cfg)}
	if mode := cmd.String("mode"); mode != "" {
		opts = append(opts, internal.WithMode(mode))
	}
	return opts
}

func runFetch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := commonOpts(cmd, cfg)
	if only := cmd.StringSlice("only"); len(only) > 0 {
		opts = append(opts, internal.WithOnly(only))
	}
	return internal.Fetch(ctx, opts...)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Serve(ctx, commonOpts(cmd, cfg)...)
}

func runReport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Report(ctx, commonOpts(cmd, cfg)...)
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
	modeFlag := &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "Execution mode (development, production, preview)",
		Sources: cli.EnvVars("APP_MODE"),
	}

	cmd := &cli.Command{
		Name:           "sivupaja",
		Usage:          "Build-time CMS asset pipeline: fetch, transform, and cache site content",
		DefaultCommand: "fetch",
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Run the fetch cycle for all content types",
				Action: runFetch,
				Flags: []cli.Flag{
					configFlag,
					modeFlag,
					&cli.StringSliceFlag{
						Name:  "only",
						Usage: "Fetch only the named content types (" + strings.Join(internal.FetcherNames(), ", ") + ")",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the asset root with manifest inspection and live-reload events",
				Action: runServe,
				Flags:  []cli.Flag{configFlag, modeFlag},
			},
			{
				Name:   "report",
				Usage:  "Print a per-content-type summary of the asset ledger",
				Action: runReport,
				Flags:  []cli.Flag{configFlag, modeFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
