package model

import (
	"time"

	"github.com/google/uuid"
)

// TransferModel is the GORM-specific struct for the 'transfers' table.
// IDs are generated by the relay, so the column carries no database default.
type TransferModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	SendUserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_transfers_user_created,priority:1"`
	SendDeviceID    string    `gorm:"type:varchar(128);not null"`
	ReceiveDeviceID string    `gorm:"type:varchar(128);not null"`
	ContentText     *string   `gorm:"type:text"`
	FileID          *string   `gorm:"type:varchar(512);index"`
	CreatedAt       time.Time `gorm:"not null;index:idx_transfers_user_created,priority:2,sort:desc"`
}

// TableName explicitly sets the table name for GORM.
func (TransferModel) TableName() string {
	return "transfers"
}
