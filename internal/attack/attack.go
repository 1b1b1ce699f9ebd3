package attack

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

var ErrNoIDs = errors.New("attack requires seeded ids")

type Config struct {
	BaseURL            string
	IDs                []string
	NumbersPerID       int
	Rate               int
	Duration           time.Duration
	EncodeRatio        float64
	Type               string
	RateLimitBypass    string
	InsecureSkipVerify bool
	Connections        int
	MaxWorkers         uint64
}

func Targeter(cfg *Config) (vegeta.Targeter, error) {
	switch cfg.Type {
	case "encode":
		return EncodeTargeter(cfg.BaseURL, cfg.NumbersPerID, cfg.RateLimitBypass), nil
	case "decode":
		if len(cfg.IDs) == 0 {
			return nil, fmt.Errorf("decode: %w", ErrNoIDs)
		}
		return DecodeTargeter(cfg.BaseURL, cfg.IDs, cfg.RateLimitBypass), nil
	case "mixed":
		if len(cfg.IDs) == 0 {
			return nil, fmt.Errorf("mixed: %w", ErrNoIDs)
		}
		return MixedTargeter(cfg.BaseURL, cfg.IDs, cfg.NumbersPerID, cfg.EncodeRatio, cfg.RateLimitBypass), nil
	default:
		return nil, fmt.Errorf("unknown attack type: %s", cfg.Type)
	}
}

// Run attacks the service and writes a text report to w.
func Run(cfg *Config, w io.Writer) error {
	targeter, err := Targeter(cfg)
	if err != nil {
		return err
	}

	opts := []func(*vegeta.Attacker){
		vegeta.Redirects(-1),
		vegeta.KeepAlive(true),
		vegeta.Connections(cfg.Connections),
		vegeta.Timeout(5 * time.Second),
		vegeta.MaxBody(0),
		vegeta.HTTP2(false),
		vegeta.TLSConfig(&tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}),
	}
	if cfg.MaxWorkers > 0 {
		opts = append(opts, vegeta.MaxWorkers(cfg.MaxWorkers))
	}
	attacker := vegeta.NewAttacker(opts...)

	rate := vegeta.Rate{Freq: cfg.Rate, Per: time.Second}
	fmt.Fprintf(w, "Starting %s attack: rate=%d/s duration=%s\n", cfg.Type, cfg.Rate, cfg.Duration)

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, cfg.Duration, cfg.Type) {
		metrics.Add(res)
	}
	metrics.Close()

	return vegeta.NewTextReporter(&metrics).Report(w)
}
