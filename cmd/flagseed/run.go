package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.flipt.io/flagseed/pkg/admin"
	"go.flipt.io/flagseed/pkg/config"
	"go.flipt.io/flagseed/pkg/generate"
	"go.flipt.io/flagseed/pkg/present"
	"go.flipt.io/flagseed/pkg/publish"
	"go.flipt.io/flagseed/pkg/schema"
	"go.flipt.io/flagseed/pkg/transport/logger"
)

func run(ctx *cli.Context) error {
	cfg, err := config.Parse(ctx)
	if err != nil {
		return err
	}

	set, err := load(cfg)
	if err != nil {
		return err
	}

	if cfg.PrintToShell {
		format, err := present.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}

		return present.Write(ctx.App.Writer, format, set)
	}

	return upload(ctx.Context, cfg, set)
}

// load reads the set named by cfg.Input, or generates a new one.
func load(cfg config.Config) (generate.Set, error) {
	if cfg.Input == "" {
		set := generate.New(
			generate.WithSeed(cfg.Seed),
			generate.WithConstraintsPerStrategy(cfg.ConstraintsPerStrategy),
		).Generate(cfg.Count, cfg.StrategiesPerFeature)

		slog.Debug("Generated",
			"features", len(set.Features),
			"strategies", set.StrategyCount(),
			"seed", cfg.Seed,
		)

		return set, nil
	}

	ext := strings.TrimPrefix(filepath.Ext(cfg.Input), ".")
	if ext == "yml" {
		ext = "yaml"
	}

	format, err := present.ParseFormat(ext)
	if err != nil {
		return generate.Set{}, fmt.Errorf("input %q: %w", cfg.Input, err)
	}

	fi, err := os.Open(cfg.Input)
	if err != nil {
		return generate.Set{}, err
	}
	defer fi.Close()

	set, err := present.Read(fi, format)
	if err != nil {
		return generate.Set{}, fmt.Errorf("input %q: %w", cfg.Input, err)
	}

	slog.Debug("Loaded",
		"input", cfg.Input,
		"features", len(set.Features),
		"strategies", set.StrategyCount(),
	)

	return set, nil
}

func upload(ctx context.Context, cfg config.Config, set generate.Set) error {
	policy, err := publish.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return err
	}

	client := admin.New(cfg.BaseURL, cfg.Project, cfg.APIKey,
		admin.WithTimeout(cfg.Timeout),
		admin.WithMiddleware(logger.New(slog.Default().Handler())),
	)

	opts := []publish.Option{
		publish.WithLogger(slog.Default()),
		publish.WithConcurrency(cfg.Concurrency),
		publish.WithFailurePolicy(policy),
		publish.WithRetries(cfg.Retries),
		publish.WithRate(cfg.Rate),
	}

	if cfg.ValidatePayloads {
		validator, err := schema.New()
		if err != nil {
			return err
		}

		opts = append(opts, publish.WithValidator(validator))
	}

	slog.Info("Uploading", "url", client.FeaturesURL().String(), "environment", cfg.Environment)

	if err := publish.New(client, cfg.Environment, opts...).Publish(ctx, set); err != nil {
		return err
	}

	slog.Info("Upload complete",
		"features", len(set.Features),
		"strategies", set.StrategyCount(),
	)

	return nil
}
