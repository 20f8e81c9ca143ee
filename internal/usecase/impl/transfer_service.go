package impl

import (
	"context"

	"devicerelay/internal/domain/entity"
	domainerrors "devicerelay/internal/domain/errors"
	"devicerelay/internal/domain/repository"
	"devicerelay/internal/errors"
	"devicerelay/internal/usecase"

	"github.com/google/uuid"
)

const (
	defaultTransferPageSize = 50
	maxTransferPageSize     = 200
)

type transferService struct {
	transferRepo repository.TransferRepository
}

// NewTransferService creates a new transfer service instance
func NewTransferService(transferRepo repository.TransferRepository) usecase.TransferUsecase {
	return &transferService{
		transferRepo: transferRepo,
	}
}

// ListTransfers returns the user's transfers, newest first
func (s *transferService) ListTransfers(ctx context.Context, userID uuid.UUID, query usecase.TransferListQuery) ([]*entity.Transfer, error) {
	limit := query.Limit
	switch {
	case limit < 0:
		return nil, domainerrors.ErrValidationFailed.WithDetails("limit must not be negative")
	case limit == 0:
		limit = defaultTransferPageSize
	case limit > maxTransferPageSize:
		limit = maxTransferPageSize
	}

	transfers, err := s.transferRepo.FindTransfersByUser(ctx, repository.TransferQuery{
		UserID: userID,
		Before: query.Before,
		Limit:  limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find transfers by user")
	}

	return transfers, nil
}
