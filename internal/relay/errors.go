package relay

import "devicerelay/internal/errors"

var (
	// ErrMalformedFrame is returned by Decode for frames that are not a valid envelope.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrInvalidIdentity is returned when a device identity misses required fields.
	ErrInvalidIdentity = errors.New("invalid device identity")
	// ErrTokenNotFound is returned when a handshake token is unknown, expired or already consumed.
	ErrTokenNotFound = errors.New("invalid token")
	// ErrSocketClosed is returned when sending on a closed socket.
	ErrSocketClosed = errors.New("socket closed")
	// ErrSendQueueFull is returned when a socket's outbound queue is full.
	ErrSendQueueFull = errors.New("send queue full")
	// ErrCoordinatorStopped is returned when an event reaches a hibernated coordinator.
	ErrCoordinatorStopped = errors.New("coordinator stopped")
	// ErrHubClosed is returned once the hub has shut down.
	ErrHubClosed = errors.New("hub closed")
)
