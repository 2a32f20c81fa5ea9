package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/fatflowers/duesledger/pkg/config"
	"go.uber.org/zap"
)

// Scheduler runs a reconciliation pass on a fixed interval.
type Scheduler struct {
	reconciler *Reconciler
	interval   time.Duration
	enabled    bool
	log        *zap.SugaredLogger

	ticker *time.Ticker
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler(cfg *config.Config, r *Reconciler, log *zap.SugaredLogger) *Scheduler {
	interval := cfg.Reconcile.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{reconciler: r, interval: interval, enabled: cfg.Reconcile.Enabled, log: log}
}

// Start runs one pass immediately, then one per interval.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		s.log.Infow("reconcile scheduler disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.ticker = time.NewTicker(s.interval)
	s.wg.Add(1)
	go s.run(ctx, s.ticker)

	s.log.Infow("reconcile scheduler started", "interval", s.interval.String())
}

// Stop cancels the running pass between records and waits for it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	s.cancel()
	s.wg.Wait()
	s.ticker = nil
	s.log.Infow("reconcile scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, ticker *time.Ticker) {
	defer s.wg.Done()

	s.RunNow(ctx)
	for {
		select {
		case <-ticker.C:
			s.RunNow(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunNow executes one pass and logs its failure.
func (s *Scheduler) RunNow(ctx context.Context) *RunResult {
	res, err := s.reconciler.Run(ctx)
	if err != nil {
		s.log.Errorw("reconciliation pass failed", "error", err)
		return nil
	}
	return res
}
