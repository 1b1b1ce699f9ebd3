package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sqids/internal/attack"
	"sqids/internal/config"
	"sqids/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadBench()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var ids []string
	if cfg.BenchType != "encode" {
		ids, err = seed.Run(ctx, seed.Config{
			BaseURL:            cfg.BaseURL,
			Count:              cfg.SeedCount,
			BatchSize:          cfg.BatchSize,
			NumbersPerID:       cfg.NumbersPerID,
			BypassSecret:       cfg.RateLimitBypass,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Timeout:            cfg.SeedTimeout,
		}, os.Stdout)
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
	}

	return attack.Run(&attack.Config{
		BaseURL:            cfg.BaseURL,
		IDs:                ids,
		NumbersPerID:       cfg.NumbersPerID,
		Rate:               cfg.Rate,
		Duration:           cfg.Duration,
		EncodeRatio:        cfg.EncodeRatio,
		Type:               cfg.BenchType,
		RateLimitBypass:    cfg.RateLimitBypass,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		Connections:        cfg.Connections,
		MaxWorkers:         cfg.MaxWorkers,
	}, os.Stdout)
}
