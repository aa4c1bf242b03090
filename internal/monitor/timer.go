package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Timer periodically runs health checks and stores the results.
type Timer struct {
	monitor  *Monitor
	interval time.Duration
	logger   *slog.Logger
	stop     chan struct{}
	running  atomic.Bool
}

// NewTimer creates a monitoring timer.
func NewTimer(monitor *Monitor, interval time.Duration, logger *slog.Logger) *Timer {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Timer{
		monitor:  monitor,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Running reports whether the timer loop is actively running.
func (t *Timer) Running() bool {
	return t.running.Load()
}

// Start begins the monitoring loop. Call in a goroutine.
func (t *Timer) Start(ctx context.Context) {
	t.running.Store(true)
	defer t.running.Store(false)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case <-ticker.C:
			t.safeCheck(ctx)
		}
	}
}

// Stop signals the timer to stop.
func (t *Timer) Stop() {
	select {
	case t.stop <- struct{}{}:
	default:
	}
}

func (t *Timer) safeCheck(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("panic in rpc monitor timer", "panic", fmt.Sprint(r))
		}
	}()

	result, err := t.monitor.CheckAndStore(ctx)
	if err != nil {
		t.logger.Error("failed to store rpc check", "error", err)
		return
	}
	if result.Status != StatusHealthy {
		t.logger.Warn("rpc endpoint not healthy",
			"status", result.Status,
			"total_ms", result.ResponseTimes.Total,
			"error", result.Error)
	}
}
