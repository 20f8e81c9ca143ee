package postgres

import (
	"context"

	"devicerelay/internal/domain/entity"
	domainerrors "devicerelay/internal/domain/errors"
	"devicerelay/internal/domain/repository"
	"devicerelay/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// transferRepository implements the repository.TransferRepository interface.
type transferRepository struct {
	db *gorm.DB
}

// NewTransferRepository is the constructor for transferRepository.
func NewTransferRepository(db *gorm.DB) repository.TransferRepository {
	return &transferRepository{
		db: db,
	}
}

// CreateTransfer appends one transfer record.
func (repo *transferRepository) CreateTransfer(ctx context.Context, transfer *entity.Transfer) error {
	transferM := fromTransferDomain(transfer)

	if err := repo.db.WithContext(ctx).Create(transferM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateTransfer
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required transfer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create transfer")
	}

	transfer.CreatedAt = transferM.CreatedAt

	return nil
}

// FindTransfersByUser lists a user's transfers, newest first.
func (repo *transferRepository) FindTransfersByUser(ctx context.Context, query repository.TransferQuery) ([]*entity.Transfer, error) {
	var transferModels []*model.TransferModel

	tx := repo.db.WithContext(ctx).
		Where("send_user_id = ?", query.UserID)
	if query.Before != nil {
		tx = tx.Where("created_at < ?", *query.Before)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	if err := tx.Order("created_at DESC").Order("id DESC").Find(&transferModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find transfers by user")
	}

	transfers := make([]*entity.Transfer, 0, len(transferModels))
	for _, transferM := range transferModels {
		transfers = append(transfers, toTransferDomain(transferM))
	}

	return transfers, nil
}

func fromTransferDomain(data *entity.Transfer) *model.TransferModel {
	if data == nil {
		return nil
	}

	return &model.TransferModel{
		ID:              data.ID,
		SendUserID:      data.SenderUserID,
		SendDeviceID:    data.SenderDeviceID,
		ReceiveDeviceID: data.ReceiverDeviceID,
		ContentText:     data.ContentText,
		FileID:          data.FileID,
		CreatedAt:       data.CreatedAt,
	}
}

func toTransferDomain(data *model.TransferModel) *entity.Transfer {
	if data == nil {
		return nil
	}

	return &entity.Transfer{
		ID:               data.ID,
		SenderUserID:     data.SendUserID,
		SenderDeviceID:   data.SendDeviceID,
		ReceiverDeviceID: data.ReceiveDeviceID,
		ContentText:      data.ContentText,
		FileID:           data.FileID,
		CreatedAt:        data.CreatedAt,
	}
}
