package service

import (
	"context"
)

// TransferEvent is published after a transfer record has been stored
type TransferEvent struct {
	RequestID        string `json:"request_id,omitempty"` // For distributed tracing
	TransferID       string `json:"transfer_id"`
	UserID           string `json:"user_id"`
	SenderDeviceID   string `json:"send_device_id"`
	ReceiverDeviceID string `json:"receive_device_id"`
	Kind             string `json:"kind"` // "text" or "file"
	FileID           string `json:"file_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishTransferEvent publishes a transfer event for downstream consumers
	PublishTransferEvent(ctx context.Context, event *TransferEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
