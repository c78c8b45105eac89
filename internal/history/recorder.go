// Package history persists simulation records off the request path.
//
// The simulation endpoint hands each record to a Recorder, which queues it
// and returns immediately. A single worker drains the queue into every
// configured sink. Persistence is best-effort: a full queue drops the record
// and a failing sink is logged and counted, neither reaches the caller.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
)

const (
	// writeTimeout bounds a single sink write.
	writeTimeout = 5 * time.Second

	// drainTimeout bounds flushing the queue after Run's context is cancelled.
	drainTimeout = 5 * time.Second
)

// Sink stores simulation records.
type Sink interface {
	Append(ctx context.Context, rec domain.SimulationRecord) error
}

// NamedSink labels a sink in logs and metrics.
type NamedSink struct {
	Name string
	Sink Sink
}

type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Recorder queues simulation records and writes them to its sinks.
type Recorder struct {
	queue   chan domain.SimulationRecord
	sinks   []NamedSink
	logger  *slog.Logger
	metrics *observability.Metrics
	running atomic.Bool
}

// NewRecorder creates a Recorder with a queue of queueSize records.
func NewRecorder(queueSize int, logger *slog.Logger, metrics *observability.Metrics, sinks ...NamedSink) *Recorder {
	return &Recorder{
		queue:   make(chan domain.SimulationRecord, max(queueSize, 1)),
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
	}
}

// Record enqueues rec without blocking. It reports false when the queue is
// full and the record was dropped.
func (r *Recorder) Record(rec domain.SimulationRecord) bool {
	select {
	case r.queue <- rec:
		r.metrics.HistoryQueueDepth.Set(float64(len(r.queue)))
		return true
	default:
		r.metrics.HistoryDropped.Inc()
		r.logger.Warn("history queue full, dropping simulation record", "id", rec.ID)
		return false
	}
}

// CheckReadiness returns nil while Run is active and every sink that can
// report readiness is ready.
func (r *Recorder) CheckReadiness(ctx context.Context) error {
	if !r.running.Load() {
		return errors.New("history recorder is not running")
	}
	for _, s := range r.sinks {
		rc, ok := s.Sink.(readinessChecker)
		if !ok {
			continue
		}
		if err := rc.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("history sink %s: %w", s.Name, err)
		}
	}
	return nil
}

// Run drains the queue into the sinks until ctx is cancelled, then flushes
// whatever is still queued under a fresh bounded context.
func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Info("history recorder started", "queue_size", cap(r.queue), "sinks", r.sinkNames())
	r.running.Store(true)
	r.metrics.RecorderRunning.Set(1)
	defer func() {
		r.running.Store(false)
		r.metrics.RecorderRunning.Set(0)
	}()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("history recorder stopping", "reason", ctx.Err(), "pending", len(r.queue))
			r.drain()
			return nil
		case rec := <-r.queue:
			r.metrics.HistoryQueueDepth.Set(float64(len(r.queue)))
			r.persist(context.WithoutCancel(ctx), rec)
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	flushed := 0
	for {
		select {
		case rec := <-r.queue:
			r.persist(ctx, rec)
			flushed++
		default:
			r.metrics.HistoryQueueDepth.Set(0)
			if flushed > 0 {
				r.logger.Info("history queue flushed", "records", flushed)
			}
			return
		}
	}
}

// persist writes rec to every sink. One sink failing does not stop the others.
func (r *Recorder) persist(ctx context.Context, rec domain.SimulationRecord) {
	for _, s := range r.sinks {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := s.Sink.Append(writeCtx, rec)
		cancel()

		if err != nil {
			r.metrics.HistoryWrites.WithLabelValues(s.Name, "error").Inc()
			r.logger.Error("persist simulation record failed", "sink", s.Name, "id", rec.ID, "error", err)
			continue
		}
		r.metrics.HistoryWrites.WithLabelValues(s.Name, "success").Inc()
	}
}

func (r *Recorder) sinkNames() []string {
	names := make([]string, len(r.sinks))
	for i, s := range r.sinks {
		names[i] = s.Name
	}
	return names
}
