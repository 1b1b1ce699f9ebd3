package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BenchConfig struct {
	BaseURL         string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	SeedCount       int           `env:"SEED_COUNT" envDefault:"100000"`
	BatchSize       int           `env:"SEED_BATCH_SIZE" envDefault:"1000"`
	NumbersPerID    int           `env:"SEED_NUMBERS_PER_ID" envDefault:"1"`
	Rate            int           `env:"RATE" envDefault:"1000"`
	Duration        time.Duration `env:"DURATION" envDefault:"30s"`
	EncodeRatio     float64       `env:"ENCODE_RATIO" envDefault:"0.1"`
	BenchType       string        `env:"BENCH_TYPE" envDefault:"mixed"`
	RateLimitBypass string        `env:"RATE_LIMIT_BYPASS_SECRET"`
	Connections     int           `env:"CONNECTIONS" envDefault:"10000"`
	MaxWorkers      uint64        `env:"MAX_WORKERS" envDefault:"0"`
	// TLS verification is skipped for self-signed local certificates only.
	InsecureSkipVerify bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	SeedTimeout        time.Duration `env:"SEED_TIMEOUT" envDefault:"30s"`
}

func LoadBench() (*BenchConfig, error) {
	var cfg BenchConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
