package relay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// Options configures coordinators.
type Options struct {
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	TokenTTL          time.Duration
	TokenCapacity     int
	EventBuffer       int
	IdleTimeout       time.Duration
}

// socketSource exposes the sockets the hub holds for a user.
type socketSource interface {
	sockets(userID uuid.UUID) []Socket
	forget(userID uuid.UUID, socket Socket)
}

// Coordinator is the relay actor of one user account. Every event runs on a
// single goroutine, so the registry, the token set and the heartbeat monitor
// need no locking.
type Coordinator struct {
	userID   uuid.UUID
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *Metrics
	recorder TransferRecorder
	source   socketSource

	registry *registry
	tokens   *TokenIssuer
	monitor  *heartbeatMonitor
	sweeps   int

	events  chan func()
	quit    chan struct{}
	stopped chan struct{}

	mu     sync.RWMutex
	closed bool

	lastActivity atomic.Int64
}

type coordinatorDeps struct {
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *Metrics
	recorder TransferRecorder
	source   socketSource
}

func newCoordinator(userID uuid.UUID, opts Options, deps coordinatorDeps) (*Coordinator, error) {
	tokens, err := NewTokenIssuer(deps.clock, opts.TokenCapacity, opts.TokenTTL)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		userID:   userID,
		clock:    deps.clock,
		logger:   deps.logger.With(slog.String("user_id", userID.String())),
		metrics:  deps.metrics,
		recorder: deps.recorder,
		source:   deps.source,
		registry: newRegistry(),
		tokens:   tokens,
		events:   make(chan func(), max(opts.EventBuffer, 1)),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	c.monitor = newHeartbeatMonitor(deps.clock, opts.HeartbeatInterval, opts.HeartbeatTimeout, func(generation uint64) {
		_ = c.submit(func() { c.sweep(generation) })
	})
	c.touch()

	go c.loop()

	return c, nil
}

func (c *Coordinator) loop() {
	defer close(c.stopped)

	c.rehydrate()

	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.quit:
			for {
				select {
				case fn := <-c.events:
					fn()
				default:
					c.shutdown()

					return
				}
			}
		}
	}
}

// submit queues fn on the coordinator goroutine.
func (c *Coordinator) submit(fn func()) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrCoordinatorStopped
	}
	c.events <- fn

	return nil
}

// call runs fn on the coordinator goroutine and waits for it.
func (c *Coordinator) call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := c.submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// stop drains pending events and ends the coordinator. Sockets stay open.
func (c *Coordinator) stop() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		<-c.stopped

		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.quit)
	<-c.stopped
}

// touch marks client activity; the janitor hibernates coordinators without any.
func (c *Coordinator) touch() {
	c.lastActivity.Store(c.clock.Now().UnixNano())
}

func (c *Coordinator) idleSince() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

// rehydrate rebuilds the registry from the attachments of the user's sockets.
func (c *Coordinator) rehydrate() {
	for _, socket := range c.source.sockets(c.userID) {
		rec, err := decodeRecord(socket.Attachment())
		if err != nil {
			c.logger.Warn("Closing socket with unreadable attachment",
				slog.String("socket_id", socket.ID()),
				slog.Any("error", err),
			)
			socket.Close(CloseInvalidState, "invalid connection state")
			c.source.forget(c.userID, socket)

			continue
		}
		c.registry.add(socket, rec)
	}

	if c.registry.len() > 0 {
		c.logger.Debug("Coordinator rehydrated", slog.Int("sockets", c.registry.len()))
		c.monitor.arm()
	}
}

func (c *Coordinator) shutdown() {
	c.monitor.stop()
	c.tokens.Purge()
}

// issueToken binds identity to a fresh handshake token.
func (c *Coordinator) issueToken(identity entity.DeviceIdentity) (string, error) {
	return c.tokens.Issue(identity)
}

// consumeToken redeems a handshake token.
func (c *Coordinator) consumeToken(token string) (entity.DeviceIdentity, error) {
	return c.tokens.Consume(token)
}

// register adds an accepted socket, announces it to the other devices and
// arms the heartbeat sweep.
func (c *Coordinator) register(socket Socket, rec ConnectionRecord) {
	e := c.registry.add(socket, rec)
	c.persist(e)

	c.logger.Info("Device connected",
		slog.String("device_id", rec.Tag),
		slog.String("socket_id", socket.ID()),
	)

	c.broadcast(e, Envelope{Type: TypeDeviceOnline, Data: rec.Metadata})
	c.monitor.arm()
}

// disconnect handles a socket whose read side has ended.
func (c *Coordinator) disconnect(socket Socket) {
	if e, ok := c.registry.get(socket.ID()); ok {
		c.remove(e)
	}
	c.source.forget(c.userID, socket)
}

// remove evicts a connection and announces its departure. It is idempotent.
func (c *Coordinator) remove(e *entry) {
	if _, ok := c.registry.remove(e.socket.ID()); !ok {
		return
	}

	c.logger.Info("Device disconnected",
		slog.String("device_id", e.record.Tag),
		slog.String("socket_id", e.socket.ID()),
	)

	c.broadcast(e, Envelope{Type: TypeDeviceOffline, Data: OfflineNotice{ID: e.record.Tag}})
}

// sweep runs an armed heartbeat check.
func (c *Coordinator) sweep(generation uint64) {
	if !c.monitor.fired(generation) {
		return
	}
	c.evictExpired()
}

// evictExpired closes every connection whose last heartbeat is older than the
// timeout and re-arms while connections remain.
func (c *Coordinator) evictExpired() {
	c.sweeps++

	now := c.clock.Now()
	var expired []*entry
	c.registry.each(func(e *entry) {
		if c.monitor.expired(e.record.LastHeartbeatAt, now) {
			expired = append(expired, e)
		}
	})

	for _, e := range expired {
		c.logger.Info("Closing socket after heartbeat timeout",
			slog.String("device_id", e.record.Tag),
			slog.Time("last_heartbeat_at", e.record.LastHeartbeatAt),
		)
		c.metrics.HeartbeatEvictions.Inc()
		e.socket.Close(CloseHeartbeatTimeout, "heartbeat timeout")
		c.remove(e)
		c.source.forget(c.userID, e.socket)
	}

	if c.registry.len() > 0 {
		c.monitor.arm()
	}
}

// snapshot returns the identities of every registered device.
func (c *Coordinator) snapshot() []entity.DeviceIdentity {
	return c.registry.peers(nil)
}

// persist re-serializes the record onto the socket so it survives hibernation.
func (c *Coordinator) persist(e *entry) {
	e.socket.SetAttachment(e.record.encode())
}
