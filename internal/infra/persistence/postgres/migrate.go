package postgres

import (
	"context"

	"devicerelay/internal/errors"
	"devicerelay/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables owned by the relay.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.TransferModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate transfers table")
	}

	return nil
}
