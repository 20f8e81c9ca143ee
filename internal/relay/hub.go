package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const deliverAttempts = 3

// Hub owns every accepted socket of the process and routes events to the
// coordinator of the socket's user, creating it on demand. Coordinators can be
// hibernated at any time; the sockets and their attachments stay with the hub,
// and a wake-up timer brings the coordinator back when the stalest socket
// reaches the heartbeat bound.
type Hub struct {
	opts     Options
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *Metrics
	recorder TransferRecorder

	mu           sync.Mutex
	coordinators map[string]*Coordinator
	wakeups      map[string]*clock.Timer
	closed       bool

	socketsMu sync.Mutex
	byUser    map[string]map[string]Socket

	janitorStop chan struct{}
	janitorDone chan struct{}
}

// HubDeps are the collaborators of a Hub.
type HubDeps struct {
	Clock    clock.Clock
	Logger   *slog.Logger
	Metrics  *Metrics
	Recorder TransferRecorder
}

// NewHub creates a hub. The idle janitor runs when opts.IdleTimeout is positive.
func NewHub(opts Options, deps HubDeps) *Hub {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}

	h := &Hub{
		opts:         opts,
		clock:        clk,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		recorder:     deps.Recorder,
		coordinators: make(map[string]*Coordinator),
		wakeups:      make(map[string]*clock.Timer),
		byUser:       make(map[string]map[string]Socket),
		janitorStop:  make(chan struct{}),
		janitorDone:  make(chan struct{}),
	}

	if opts.IdleTimeout > 0 {
		go h.janitor()
	} else {
		close(h.janitorDone)
	}

	return h
}

// shardKey maps an account to its coordinator.
func shardKey(userID uuid.UUID) string {
	return userID.String()
}

// IssueToken binds identity to a handshake token on the user's coordinator.
func (h *Hub) IssueToken(ctx context.Context, userID uuid.UUID, identity entity.DeviceIdentity) (string, error) {
	var (
		token string
		err   error
	)
	if callErr := h.invoke(ctx, userID, func(c *Coordinator) {
		token, err = c.issueToken(identity)
	}); callErr != nil {
		return "", callErr
	}

	return token, err
}

// ConsumeToken redeems a handshake token; it must precede the socket upgrade.
func (h *Hub) ConsumeToken(ctx context.Context, userID uuid.UUID, token string) (entity.DeviceIdentity, error) {
	var (
		identity entity.DeviceIdentity
		err      error
	)
	if callErr := h.invoke(ctx, userID, func(c *Coordinator) {
		identity, err = c.consumeToken(token)
	}); callErr != nil {
		return entity.DeviceIdentity{}, callErr
	}
	if err != nil {
		h.metrics.HandshakeRejections.WithLabelValues("invalid").Inc()
	}

	return identity, err
}

// RejectHandshake counts an upgrade refused before a token lookup.
func (h *Hub) RejectHandshake(reason string) {
	h.metrics.HandshakeRejections.WithLabelValues(reason).Inc()
}

// OnlineDevices lists the identities currently connected for a user.
func (h *Hub) OnlineDevices(ctx context.Context, userID uuid.UUID) ([]entity.DeviceIdentity, error) {
	var devices []entity.DeviceIdentity
	if err := h.invoke(ctx, userID, func(c *Coordinator) {
		devices = c.snapshot()
	}); err != nil {
		return nil, err
	}

	return devices, nil
}

// Accept adopts a socket for identity and registers it with the user's coordinator.
func (h *Hub) Accept(userID uuid.UUID, socket Socket, identity entity.DeviceIdentity) error {
	rec := ConnectionRecord{
		Tag:             identity.ID,
		Metadata:        identity,
		LastHeartbeatAt: h.clock.Now(),
	}
	socket.SetAttachment(rec.encode())

	if !h.adopt(userID, socket) {
		socket.Close(websocket.CloseGoingAway, "server shutting down")

		return ErrHubClosed
	}

	if err := h.deliver(userID, func(c *Coordinator) { c.register(socket, rec) }); err != nil {
		h.forget(userID, socket)
		socket.Close(websocket.CloseGoingAway, "server shutting down")

		return err
	}

	return nil
}

// Serve accepts a WebSocket and pumps it until it closes.
func (h *Hub) Serve(userID uuid.UUID, socket *WebSocket, identity entity.DeviceIdentity) error {
	if err := h.Accept(userID, socket, identity); err != nil {
		return err
	}

	socket.Run(
		func(frame []byte) { h.Frame(userID, socket, frame) },
		func() { h.Disconnect(userID, socket) },
	)

	return nil
}

// Frame routes one inbound frame.
func (h *Hub) Frame(userID uuid.UUID, socket Socket, frame []byte) {
	if err := h.deliver(userID, func(c *Coordinator) { c.handleFrame(socket, frame) }); err != nil {
		h.logger.Debug("Frame not delivered", slog.String("socket_id", socket.ID()), slog.Any("error", err))
	}
}

// Disconnect removes a socket whose connection has ended.
func (h *Hub) Disconnect(userID uuid.UUID, socket Socket) {
	if err := h.deliver(userID, func(c *Coordinator) { c.disconnect(socket) }); err != nil {
		h.forget(userID, socket)
	}
}

// Hibernate tears down the user's coordinator. Tokens are lost; sockets stay
// open and are picked up by the next coordinator, which the hub starts on its
// own once a silent socket is due for eviction.
func (h *Hub) Hibernate(userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hibernateLocked(shardKey(userID), nil)
}

// Close stops every coordinator and closes all sockets.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()

		return nil
	}
	h.closed = true
	for key := range h.coordinators {
		h.hibernateLocked(key, nil)
	}
	for key := range h.wakeups {
		h.cancelWakeLocked(key)
	}
	h.mu.Unlock()

	close(h.janitorStop)

	h.socketsMu.Lock()
	for _, sockets := range h.byUser {
		for _, socket := range sockets {
			socket.Close(websocket.CloseGoingAway, "server shutting down")
		}
	}
	h.socketsMu.Unlock()

	select {
	case <-h.janitorDone:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// coordinator returns the user's coordinator, creating it when asleep.
func (h *Hub) coordinator(userID uuid.UUID) (*Coordinator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	key := shardKey(userID)
	if c, ok := h.coordinators[key]; ok {
		return c, nil
	}

	c, err := newCoordinator(userID, h.opts, coordinatorDeps{
		clock:    h.clock,
		logger:   h.logger,
		metrics:  h.metrics,
		recorder: h.recorder,
		source:   h,
	})
	if err != nil {
		return nil, err
	}
	h.coordinators[key] = c
	h.cancelWakeLocked(key)
	h.metrics.Coordinators.Inc()

	return c, nil
}

// deliver queues fn on the user's coordinator, retrying when it was
// hibernated in between.
func (h *Hub) deliver(userID uuid.UUID, fn func(c *Coordinator)) error {
	for range deliverAttempts {
		c, err := h.coordinator(userID)
		if err != nil {
			return err
		}
		c.touch()
		if err := c.submit(func() { fn(c) }); err == nil {
			return nil
		}
	}

	return ErrCoordinatorStopped
}

// invoke runs fn on the user's coordinator and waits for it.
func (h *Hub) invoke(ctx context.Context, userID uuid.UUID, fn func(c *Coordinator)) error {
	for range deliverAttempts {
		c, err := h.coordinator(userID)
		if err != nil {
			return err
		}
		c.touch()
		err = c.call(ctx, func() { fn(c) })
		if !errors.Is(err, ErrCoordinatorStopped) {
			return err
		}
	}

	return ErrCoordinatorStopped
}

// hibernateLocked stops the coordinator under key. When expect is set only
// that instance is stopped. h.mu must be held.
func (h *Hub) hibernateLocked(key string, expect *Coordinator) bool {
	c, ok := h.coordinators[key]
	if !ok || (expect != nil && c != expect) {
		return false
	}
	delete(h.coordinators, key)
	c.stop()
	h.metrics.Coordinators.Dec()
	h.logger.Debug("Coordinator hibernated", slog.String("user_id", key))
	h.scheduleWakeLocked(c.userID)

	return true
}

// scheduleWakeLocked arms a timer that restarts a hibernated user's
// coordinator when its stalest socket exceeds the heartbeat bound. h.mu must
// be held.
func (h *Hub) scheduleWakeLocked(userID uuid.UUID) {
	key := shardKey(userID)
	h.cancelWakeLocked(key)
	if h.closed {
		return
	}

	deadline, ok := h.heartbeatDeadline(userID)
	if !ok {
		return
	}
	h.wakeups[key] = h.clock.AfterFunc(max(deadline.Sub(h.clock.Now()), 0), func() {
		h.wake(userID)
	})
}

func (h *Hub) cancelWakeLocked(key string) {
	if timer, ok := h.wakeups[key]; ok {
		timer.Stop()
		delete(h.wakeups, key)
	}
}

// heartbeatDeadline returns the instant the stalest socket of a user passes
// timeout plus one sweep interval. It reports false when no sockets remain.
func (h *Hub) heartbeatDeadline(userID uuid.UUID) (time.Time, bool) {
	var (
		stalest time.Time
		found   bool
	)
	for _, socket := range h.sockets(userID) {
		rec, err := decodeRecord(socket.Attachment())
		if err != nil {
			// The next coordinator closes it during rehydration.
			return h.clock.Now(), true
		}
		if !found || rec.LastHeartbeatAt.Before(stalest) {
			stalest = rec.LastHeartbeatAt
			found = true
		}
	}
	if !found {
		return time.Time{}, false
	}

	return stalest.Add(h.opts.HeartbeatTimeout + h.opts.HeartbeatInterval), true
}

// wake restarts a hibernated coordinator and sweeps its sockets right away.
func (h *Hub) wake(userID uuid.UUID) {
	if err := h.deliver(userID, func(c *Coordinator) { c.evictExpired() }); err != nil {
		h.logger.Debug("Heartbeat wake-up skipped",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
	}
}

// janitor hibernates coordinators that have been idle for IdleTimeout and
// hold no outstanding tokens.
func (h *Hub) janitor() {
	defer close(h.janitorDone)

	ticker := h.clock.Ticker(max(h.opts.IdleTimeout/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-h.janitorStop:
			return
		case <-ticker.C:
			h.hibernateIdle()
		}
	}
}

func (h *Hub) hibernateIdle() {
	h.mu.Lock()
	candidates := make(map[string]*Coordinator, len(h.coordinators))
	for key, c := range h.coordinators {
		if h.clock.Since(c.idleSince()) >= h.opts.IdleTimeout {
			candidates[key] = c
		}
	}
	h.mu.Unlock()

	for key, c := range candidates {
		seen := c.idleSince()

		var live bool
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := c.call(ctx, func() { live = c.tokens.Live() })
		cancel()
		if err != nil || live {
			continue
		}

		h.mu.Lock()
		if c.idleSince().Equal(seen) {
			h.hibernateLocked(key, c)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) adopt(userID uuid.UUID, socket Socket) bool {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return false
	}

	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()

	key := shardKey(userID)
	sockets, ok := h.byUser[key]
	if !ok {
		sockets = make(map[string]Socket)
		h.byUser[key] = sockets
	}
	sockets[socket.ID()] = socket
	h.metrics.ActiveSockets.Inc()

	return true
}

// sockets implements socketSource.
func (h *Hub) sockets(userID uuid.UUID) []Socket {
	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()

	sockets := h.byUser[shardKey(userID)]
	out := make([]Socket, 0, len(sockets))
	for _, socket := range sockets {
		out = append(out, socket)
	}

	return out
}

// forget implements socketSource.
func (h *Hub) forget(userID uuid.UUID, socket Socket) {
	h.socketsMu.Lock()
	defer h.socketsMu.Unlock()

	key := shardKey(userID)
	sockets, ok := h.byUser[key]
	if !ok {
		return
	}
	if _, ok := sockets[socket.ID()]; !ok {
		return
	}
	delete(sockets, socket.ID())
	h.metrics.ActiveSockets.Dec()
	if len(sockets) == 0 {
		delete(h.byUser, key)
	}
}
