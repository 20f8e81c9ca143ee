package entity

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is the durable record of a text or file sent between two devices of the same user.
type Transfer struct {
	ID               uuid.UUID `json:"id"`                     // The Global Unique Identifier (GUID) for the record.
	SenderUserID     uuid.UUID `json:"send_user_id"`           // Owner of both devices.
	SenderDeviceID   string    `json:"send_device_id"`         // Registration tag of the sending connection.
	ReceiverDeviceID string    `json:"receive_device_id"`      // Device the transfer was addressed to.
	ContentText      *string   `json:"content_text,omitempty"` // Set for text transfers.
	FileID           *string   `json:"file_id,omitempty"`      // Storage reference for file transfers.
	CreatedAt        time.Time `json:"created_at"`
}

// IsFile reports whether the transfer references a stored file.
func (t *Transfer) IsFile() bool {
	return t.FileID != nil
}
