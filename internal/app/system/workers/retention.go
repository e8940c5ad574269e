// internal/app/system/workers/retention.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/campusdesk/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pruner deletes records older than a cutoff. audit.Store and
// loginstore.Store both satisfy it.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention is a background worker that prunes audit events and login
// records older than the configured retention period.
type Retention struct {
	targets  map[string]Pruner
	log      *zap.Logger
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRetention creates a retention worker.
//
// Parameters:
//   - targets: collection label -> pruner (labels only appear in logs)
//   - logger: zap logger for logging
//   - interval: how often to prune (e.g., 1 hour)
//   - maxAge: records older than this are removed (e.g., 90 days)
func NewRetention(targets map[string]Pruner, logger *zap.Logger, interval, maxAge time.Duration) *Retention {
	return &Retention{
		targets:  targets,
		log:      logger,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one prune immediately, then one per interval.
func (w *Retention) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("retention worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("max_age", w.maxAge))
}

// Stop signals the worker to stop and waits for it to finish. Safe to
// call more than once.
func (w *Retention) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("retention worker stopped")
	})
}

func (w *Retention) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Prune()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Prune()
		}
	}
}

// Prune removes expired records from every target. A failing target is
// logged and does not stop the others.
func (w *Retention) Prune() {
	cutoff := w.now().UTC().Add(-w.maxAge)
	for label, p := range w.targets {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
		n, err := p.DeleteBefore(ctx, cutoff)
		cancel()
		if err != nil {
			w.log.Error("retention prune failed", zap.String("collection", label), zap.Error(err))
			continue
		}
		if n > 0 {
			w.log.Info("pruned expired records",
				zap.String("collection", label),
				zap.Int64("count", n),
				zap.Time("cutoff", cutoff))
		}
	}
}
