// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"

	"github.com/google/uuid"
)

// TransferQuery narrows a transfer history lookup.
type TransferQuery struct {
	UserID uuid.UUID
	Before *time.Time // Only records created strictly before this instant.
	Limit  int
}

// TransferRepository defines the interface for transfer record persistence.
type TransferRepository interface {
	// CreateTransfer appends a transfer record. Records are never updated by the relay.
	CreateTransfer(ctx context.Context, transfer *entity.Transfer) error

	// FindTransfersByUser lists a user's transfer records, newest first.
	FindTransfersByUser(ctx context.Context, query TransferQuery) ([]*entity.Transfer, error)
}

// ErrDuplicateTransfer is returned when a transfer ID is already recorded.
var ErrDuplicateTransfer = errors.New("transfer already recorded")
