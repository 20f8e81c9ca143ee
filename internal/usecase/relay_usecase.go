package usecase

import (
	"context"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/relay"

	"github.com/google/uuid"
)

// RelayUsecase defines the interface for the device relay use cases
type RelayUsecase interface {
	// IssueHandshakeToken binds a device identity to a single-use socket token
	IssueHandshakeToken(ctx context.Context, userID uuid.UUID, identity entity.DeviceIdentity) (string, error)

	// RedeemHandshakeToken consumes a token before the socket upgrade
	RedeemHandshakeToken(ctx context.Context, userID uuid.UUID, token string) (entity.DeviceIdentity, error)

	// Attach registers an upgraded socket and serves it until it closes
	Attach(userID uuid.UUID, socket *relay.WebSocket, identity entity.DeviceIdentity) error

	// OnlineDevices lists the devices currently connected for a user
	OnlineDevices(ctx context.Context, userID uuid.UUID) ([]entity.DeviceIdentity, error)
}
