package api

import (
	"context"
	"sync/atomic"
	"time"
)

// WorkerPool bounds concurrent request processing. Command operations
// (rolls, moves, state queries) are cheap and get a wide pool; search
// operations (bot turns, hints) run the sequence search and get a
// narrow one so they cannot starve interactive play.
type WorkerPool struct {
	commandSem chan struct{}
	searchSem  chan struct{}

	queuedCommands int64
	queuedSearches int64
	activeCommands int64
	activeSearches int64
	totalCommands  int64
	totalSearches  int64
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxCommandWorkers int // max concurrent command operations (default 100)
	MaxSearchWorkers  int // max concurrent search operations (default 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxCommandWorkers: 100,
		MaxSearchWorkers:  4,
	}
}

// NewWorkerPool creates a worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	if config.MaxCommandWorkers <= 0 {
		config.MaxCommandWorkers = 100
	}
	if config.MaxSearchWorkers <= 0 {
		config.MaxSearchWorkers = 4
	}
	return &WorkerPool{
		commandSem: make(chan struct{}, config.MaxCommandWorkers),
		searchSem:  make(chan struct{}, config.MaxSearchWorkers),
	}
}

// AcquireCommand acquires a command slot, or fails when the context is
// cancelled while waiting.
func (p *WorkerPool) AcquireCommand(ctx context.Context) error {
	atomic.AddInt64(&p.queuedCommands, 1)
	defer atomic.AddInt64(&p.queuedCommands, -1)

	select {
	case p.commandSem <- struct{}{}:
		atomic.AddInt64(&p.activeCommands, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseCommand releases a command slot.
func (p *WorkerPool) ReleaseCommand() {
	atomic.AddInt64(&p.activeCommands, -1)
	atomic.AddInt64(&p.totalCommands, 1)
	<-p.commandSem
}

// AcquireSearch acquires a search slot, or fails when the context is
// cancelled while waiting.
func (p *WorkerPool) AcquireSearch(ctx context.Context) error {
	atomic.AddInt64(&p.queuedSearches, 1)
	defer atomic.AddInt64(&p.queuedSearches, -1)

	select {
	case p.searchSem <- struct{}{}:
		atomic.AddInt64(&p.activeSearches, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseSearch releases a search slot.
func (p *WorkerPool) ReleaseSearch() {
	atomic.AddInt64(&p.activeSearches, -1)
	atomic.AddInt64(&p.totalSearches, 1)
	<-p.searchSem
}

// TryAcquireSearch tries to acquire a search slot without blocking.
func (p *WorkerPool) TryAcquireSearch() bool {
	select {
	case p.searchSem <- struct{}{}:
		atomic.AddInt64(&p.activeSearches, 1)
		return true
	default:
		return false
	}
}

// AcquireSearchWithTimeout tries to acquire a search slot with a timeout.
func (p *WorkerPool) AcquireSearchWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.AcquireSearch(ctx)
}

// PoolStats is a point-in-time snapshot of pool activity.
type PoolStats struct {
	ActiveCommands int64 `json:"active_commands"`
	ActiveSearches int64 `json:"active_searches"`
	QueuedCommands int64 `json:"queued_commands"`
	QueuedSearches int64 `json:"queued_searches"`
	TotalCommands  int64 `json:"total_commands"`
	TotalSearches  int64 `json:"total_searches"`
	MaxCommands    int   `json:"max_commands"`
	MaxSearches    int   `json:"max_searches"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveCommands: atomic.LoadInt64(&p.activeCommands),
		ActiveSearches: atomic.LoadInt64(&p.activeSearches),
		QueuedCommands: atomic.LoadInt64(&p.queuedCommands),
		QueuedSearches: atomic.LoadInt64(&p.queuedSearches),
		TotalCommands:  atomic.LoadInt64(&p.totalCommands),
		TotalSearches:  atomic.LoadInt64(&p.totalSearches),
		MaxCommands:    cap(p.commandSem),
		MaxSearches:    cap(p.searchSem),
	}
}
