package codec

import (
	"fmt"

	"sqids"
	"sqids/internal/config"
)

// New builds the encoder described by cfg.
func New(cfg *config.SqidsConfig) (*sqids.Sqids, error) {
	opts := sqids.Options{
		Alphabet:  cfg.Alphabet,
		MinLength: cfg.MinLength,
		Blocklist: cfg.Blocklist,
	}
	if cfg.DisableBlocklist {
		opts.Blocklist = []string{}
	}

	s, err := sqids.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create sqids: %w", err)
	}
	return s, nil
}
