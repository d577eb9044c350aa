package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finboard/internal/core"
	"finboard/internal/ledger"
)

// TransactionStore is the durable side of TransactionService.
type TransactionStore interface {
	ledger.TransactionWriter
	ledger.TransactionDeleter
	Close() error
}

// SyncPublisher announces new transactions to the sync worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id string, version int64) error
	Close() error
}

// TransactionService orchestrates transaction writes across SQLite and AMQP
type TransactionService struct {
	storage   TransactionStore
	publisher SyncPublisher
}

// NewTransactionService wires storage and an optional publisher. Pass a nil
// interface, not a nil pointer, when AMQP is disabled.
func NewTransactionService(storage TransactionStore, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// Record saves a transaction locally and publishes a sync message. The
// returned transaction carries the assigned id.
func (s *TransactionService) Record(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.storage.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	tx.ID = id

	// version 1: rows are never edited in place
	if err := s.publishSyncMessage(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}

	return tx, nil
}

// Append implements ledger.TransactionWriter on top of Record.
func (s *TransactionService) Append(ctx context.Context, tx core.Transaction) (string, error) {
	saved, err := s.Record(ctx, tx)
	if err != nil {
		return "", err
	}
	return saved.ID, nil
}

// Delete removes a transaction locally. Rows already mirrored to the
// spreadsheet stay there.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id string, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "id", id)
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id, version)
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close transaction service: %w", err)
	}
	return nil
}
