package seed

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

type batchRequest struct {
	Items [][]uint64 `json:"items"`
}

type encodeResponse struct {
	ID string `json:"id"`
}

type batchResponse struct {
	IDs []encodeResponse `json:"ids"`
}

const bypassHeader = "X-Rate-Limit-Bypass"

type Config struct {
	BaseURL            string
	Count              int
	BatchSize          int
	NumbersPerID       int
	BypassSecret       string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Run encodes cfg.Count sequences through the batch endpoint and returns
// the IDs in sequence order. Sequence i is [i*n, i*n+1, ..., i*n+n-1].
func Run(ctx context.Context, cfg Config, w io.Writer) ([]string, error) {
	numWorkers := runtime.NumCPU() * 2
	batchSize := max(1, cfg.BatchSize)
	numbersPerID := max(1, cfg.NumbersPerID)
	fmt.Fprintf(w, "Seeding %d IDs (batch size: %d, workers: %d)...\n", cfg.Count, batchSize, numWorkers)

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
			MaxIdleConns:        numWorkers * 2,
			MaxIdleConnsPerHost: numWorkers * 2,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	numBatches := (cfg.Count + batchSize - 1) / batchSize
	results := make([][]string, numBatches)
	var progress atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for batchIndex := range numBatches {
		startIndex := batchIndex * batchSize
		currentBatch := min(batchSize, cfg.Count-startIndex)

		g.Go(func() error {
			items := makeItems(startIndex, currentBatch, numbersPerID)
			ids, err := encodeBatch(ctx, client, cfg, items)
			if err != nil {
				return fmt.Errorf("failed to encode batch at %d: %w", startIndex, err)
			}
			results[batchIndex] = ids
			done := progress.Add(int64(len(ids)))
			fmt.Fprintf(w, "\rProgress: %d/%d", done, cfg.Count)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, cfg.Count)
	for _, batch := range results {
		ids = append(ids, batch...)
	}

	fmt.Fprintf(w, "\nSeeding complete: %d ids\n", len(ids))
	return ids, nil
}

func makeItems(startIndex, count, numbersPerID int) [][]uint64 {
	items := make([][]uint64, count)
	for i := range count {
		base := uint64(startIndex+i) * uint64(numbersPerID)
		item := make([]uint64, numbersPerID)
		for j := range item {
			item[j] = base + uint64(j)
		}
		items[i] = item
	}
	return items
}

func encodeBatch(ctx context.Context, client *http.Client, cfg Config, items [][]uint64) ([]string, error) {
	body, err := json.Marshal(batchRequest{Items: items})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/api/v1/encode/batch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.BypassSecret != "" {
		req.Header.Set(bypassHeader, cfg.BypassSecret)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if len(result.IDs) != len(items) {
		return nil, fmt.Errorf("expected %d ids, got %d", len(items), len(result.IDs))
	}

	ids := make([]string, len(result.IDs))
	for i, r := range result.IDs {
		ids[i] = r.ID
	}
	return ids, nil
}
