package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"sqids/internal/config"
)

// Copier is the subset of *pgxpool.Pool the recorder writes through.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

type Recorder struct {
	logger       *slog.Logger
	cfg          *config.MetricsConfig
	http         *sink[HTTPMetric]
	business     *sink[BusinessMetric]
	infra        *sink[InfraMetric]
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewRecorder returns a recorder that batches metrics into db. db may be nil
// when cfg.Enabled is false.
func NewRecorder(db Copier, cfg *config.MetricsConfig, logger *slog.Logger) *Recorder {
	return &Recorder{
		logger:     logger,
		cfg:        cfg,
		http:       newSink(db, "http", "http_metrics", httpColumns, httpRow, cfg.BufferSize),
		business:   newSink(db, "business", "business_metrics", businessColumns, businessRow, cfg.BufferSize),
		infra:      newSink(db, "infra", "infra_metrics", infraColumns, infraRow, cfg.BufferSize),
		shutdownCh: make(chan struct{}),
	}
}

func (r *Recorder) RecordHTTP(m HTTPMetric) {
	if !r.cfg.Enabled {
		return
	}
	r.http.push(m, r.logger)
}

func (r *Recorder) RecordBusiness(name string, value float64, labels map[string]string) {
	if !r.cfg.Enabled {
		return
	}
	r.business.push(BusinessMetric{
		Time:       time.Now(),
		MetricName: name,
		Value:      value,
		Labels:     labels,
	}, r.logger)
}

func (r *Recorder) RecordInfra(m InfraMetric) {
	if !r.cfg.Enabled {
		return
	}
	r.infra.push(m, r.logger)
}

func (r *Recorder) Start(ctx context.Context) {
	if !r.cfg.Enabled {
		r.logger.Info("metrics recording disabled")
		return
	}

	flushInterval := time.Duration(r.cfg.FlushInterval) * time.Millisecond

	r.wg.Add(3)
	go r.run(ctx, flushInterval, r.http.loop)
	go r.run(ctx, flushInterval, r.business.loop)
	go r.run(ctx, flushInterval, r.infra.loop)

	r.logger.Info("metrics recorder started",
		slog.Int("buffer_size", r.cfg.BufferSize),
		slog.Int("flush_interval_ms", r.cfg.FlushInterval))
}

// Close flushes buffered metrics and waits for the writers to stop.
func (r *Recorder) Close() {
	r.shutdownOnce.Do(func() {
		close(r.shutdownCh)
		r.wg.Wait()
	})
}

func (r *Recorder) run(ctx context.Context, interval time.Duration, loop func(context.Context, time.Duration, <-chan struct{}, int, *slog.Logger)) {
	defer r.wg.Done()
	loop(ctx, interval, r.shutdownCh, r.cfg.FlushThreshold, r.logger)
}

func businessRow(m BusinessMetric) []any {
	labelsJSON, _ := json.Marshal(m.Labels)
	return []any{m.Time, m.MetricName, m.Value, labelsJSON}
}

// sink buffers one kind of metric and copies it into a single table.
type sink[T any] struct {
	db      Copier
	kind    string
	table   string
	columns []string
	row     func(T) []any
	ch      chan T
}

func newSink[T any](db Copier, kind, table string, columns []string, row func(T) []any, size int) *sink[T] {
	return &sink[T]{
		db:      db,
		kind:    kind,
		table:   table,
		columns: columns,
		row:     row,
		ch:      make(chan T, size),
	}
}

func (s *sink[T]) push(m T, logger *slog.Logger) {
	select {
	case s.ch <- m:
	default:
		logger.Warn(s.kind + " metrics buffer full, dropping metric")
	}
}

func (s *sink[T]) loop(ctx context.Context, interval time.Duration, shutdown <-chan struct{}, threshold int, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	batch := make([]T, 0, cap(s.ch))

	for {
		select {
		case <-ctx.Done():
			s.drain(batch, logger)
			return
		case <-shutdown:
			s.drain(batch, logger)
			return
		case m := <-s.ch:
			batch = append(batch, m)
			if len(batch) >= threshold {
				s.write(ctx, batch, logger)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.write(ctx, batch, logger)
				batch = batch[:0]
			}
		}
	}
}

func (s *sink[T]) drain(batch []T, logger *slog.Logger) {
	for {
		select {
		case m := <-s.ch:
			batch = append(batch, m)
		default:
			if len(batch) > 0 {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				s.write(ctx, batch, logger)
				cancel()
			}
			return
		}
	}
}

func (s *sink[T]) write(ctx context.Context, batch []T, logger *slog.Logger) {
	if len(batch) == 0 {
		return
	}

	rows := make([][]any, len(batch))
	for i, m := range batch {
		rows[i] = s.row(m)
	}

	_, err := s.db.CopyFrom(ctx, pgx.Identifier{s.table}, s.columns, pgx.CopyFromRows(rows))
	if err != nil {
		logger.Error("failed to write "+s.kind+" metrics batch", slog.String("error", err.Error()))
	}
}
