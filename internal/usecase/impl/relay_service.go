package impl

import (
	"context"

	"devicerelay/internal/domain/entity"
	domainerrors "devicerelay/internal/domain/errors"
	"devicerelay/internal/errors"
	"devicerelay/internal/relay"
	"devicerelay/internal/usecase"

	"github.com/google/uuid"
)

type relayService struct {
	hub *relay.Hub
}

// NewRelayService creates a new relay service instance
func NewRelayService(hub *relay.Hub) usecase.RelayUsecase {
	return &relayService{
		hub: hub,
	}
}

// IssueHandshakeToken binds a device identity to a single-use socket token
func (s *relayService) IssueHandshakeToken(ctx context.Context, userID uuid.UUID, identity entity.DeviceIdentity) (string, error) {
	token, err := s.hub.IssueToken(ctx, userID, identity)
	if err != nil {
		return "", mapRelayError(err, "failed to issue handshake token")
	}

	return token, nil
}

// RedeemHandshakeToken consumes a token before the socket upgrade
func (s *relayService) RedeemHandshakeToken(ctx context.Context, userID uuid.UUID, token string) (entity.DeviceIdentity, error) {
	if token == "" {
		s.hub.RejectHandshake("missing")

		return entity.DeviceIdentity{}, domainerrors.ErrTokenMissing
	}

	identity, err := s.hub.ConsumeToken(ctx, userID, token)
	if err != nil {
		return entity.DeviceIdentity{}, mapRelayError(err, "failed to redeem handshake token")
	}

	return identity, nil
}

// Attach registers an upgraded socket and serves it until it closes
func (s *relayService) Attach(userID uuid.UUID, socket *relay.WebSocket, identity entity.DeviceIdentity) error {
	if err := s.hub.Serve(userID, socket, identity); err != nil {
		return mapRelayError(err, "failed to attach socket")
	}

	return nil
}

// OnlineDevices lists the devices currently connected for a user
func (s *relayService) OnlineDevices(ctx context.Context, userID uuid.UUID) ([]entity.DeviceIdentity, error) {
	devices, err := s.hub.OnlineDevices(ctx, userID)
	if err != nil {
		return nil, mapRelayError(err, "failed to list online devices")
	}

	return devices, nil
}

func mapRelayError(err error, message string) error {
	switch {
	case errors.Is(err, relay.ErrInvalidIdentity):
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	case errors.Is(err, relay.ErrTokenNotFound):
		return domainerrors.ErrTokenInvalid
	case errors.Is(err, relay.ErrHubClosed), errors.Is(err, relay.ErrCoordinatorStopped):
		return domainerrors.ErrRelayUnavailable
	default:
		return errors.Wrap(err, message)
	}
}
