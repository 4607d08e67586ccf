package capture

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pruner periodically deletes snapshots older than the retention window.
type Pruner struct {
	store     *Store
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPruner creates a retention pruner.
func NewPruner(store *Store, retention, interval time.Duration, logger *zap.Logger) *Pruner {
	return &Pruner{
		store:     store,
		retention: retention,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins periodic pruning in a background goroutine.
func (p *Pruner) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
	p.logger.Info("capture pruner started",
		zap.Duration("interval", p.interval),
		zap.Duration("retention", p.retention))
}

// Stop cancels the pruner and waits for the goroutine to finish.
func (p *Pruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
	p.logger.Info("capture pruner stopped")
}

func (p *Pruner) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce runs a single retention pass and returns the number of
// snapshots removed.
func (p *Pruner) PruneOnce(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		p.logger.Warn("snapshot pruning failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		p.logger.Info("pruned old snapshots",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff))
	}
	return n
}
