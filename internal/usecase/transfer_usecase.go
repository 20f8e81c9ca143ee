package usecase

import (
	"context"
	"time"

	"devicerelay/internal/domain/entity"

	"github.com/google/uuid"
)

// TransferListQuery is a page request over a user's transfer history
type TransferListQuery struct {
	Before *time.Time
	Limit  int
}

// TransferUsecase defines the interface for transfer history use cases
type TransferUsecase interface {
	// ListTransfers returns the user's transfers, newest first
	ListTransfers(ctx context.Context, userID uuid.UUID, query TransferListQuery) ([]*entity.Transfer, error)
}
