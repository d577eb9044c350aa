package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SyncProcessorConfig holds configuration for the sync processor
type SyncProcessorConfig struct {
	// PollInterval is how often pending transactions are synced (default: 10s)
	PollInterval time.Duration

	// RetryInterval is how often failed syncs are put back in the queue (default: 1h)
	RetryInterval time.Duration
}

// DefaultSyncProcessorConfig returns sensible defaults
func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval:  10 * time.Second,
		RetryInterval: 1 * time.Hour,
	}
}

// PendingSyncer syncs one batch of pending transactions.
type PendingSyncer interface {
	ProcessPendingTransactions(ctx context.Context) error
}

// SyncRetrier resets failed syncs to pending.
type SyncRetrier interface {
	RetrySyncErrors(ctx context.Context) (int, error)
}

// SyncProcessor periodically drains the pending sync queue, independent of
// AMQP delivery.
type SyncProcessor struct {
	syncer  PendingSyncer
	retrier SyncRetrier
	config  SyncProcessorConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSyncProcessor creates a new sync processor. retrier may be nil.
func NewSyncProcessor(syncer PendingSyncer, retrier SyncRetrier, config SyncProcessorConfig) *SyncProcessor {
	def := DefaultSyncProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = def.RetryInterval
	}
	return &SyncProcessor{
		syncer:  syncer,
		retrier: retrier,
		config:  config,
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Sync processor started",
		"poll_interval", p.config.PollInterval,
		"retry_interval", p.config.RetryInterval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

// IsRunning returns whether the processor is currently running
func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	pollTicker := time.NewTicker(p.config.PollInterval)
	defer pollTicker.Stop()

	retryTicker := time.NewTicker(p.config.RetryInterval)
	defer retryTicker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			p.processBatch(ctx)
		case <-retryTicker.C:
			p.retryFailed(ctx)
		}
	}
}

func (p *SyncProcessor) processBatch(ctx context.Context) {
	if p.syncer == nil {
		return
	}
	if err := p.syncer.ProcessPendingTransactions(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to process pending transactions", "error", err)
	}
}

func (p *SyncProcessor) retryFailed(ctx context.Context) {
	if p.retrier == nil {
		return
	}
	if _, err := p.retrier.RetrySyncErrors(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to reset sync errors", "error", err)
	}
}
