package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ticker submits tasks to a Scheduler at fixed intervals
type Ticker struct {
	scheduler *Scheduler
	logger    *zap.Logger
	entries   []tickEntry

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

type tickEntry struct {
	task     string
	interval time.Duration
}

// NewTicker creates a ticker for s
func NewTicker(s *Scheduler, logger *zap.Logger) *Ticker {
	return &Ticker{scheduler: s, logger: logger.Named("ticker")}
}

// Every submits task once per interval. Non-positive intervals are ignored.
func (t *Ticker) Every(task string, interval time.Duration) *Ticker {
	if interval > 0 {
		t.entries = append(t.entries, tickEntry{task: task, interval: interval})
	}
	return t
}

// Start runs one loop per registered task
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	for _, e := range t.entries {
		t.wg.Add(1)
		go t.loop(ctx, e)
		t.logger.Info("Periodic task scheduled", zap.String("task", e.task), zap.Duration("interval", e.interval))
	}
	return nil
}

// Stop ends the loops
func (t *Ticker) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Ticker) loop(ctx context.Context, e tickEntry) {
	defer t.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.scheduler.Submit(e.task); err != nil {
				if errors.Is(err, ErrSchedulerNotRunning) {
					return
				}
				t.logger.Warn("Failed to submit periodic task", zap.String("task", e.task), zap.Error(err))
			}
		}
	}
}
