package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"devicerelay/internal/domain/entity"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testInterval = 30 * time.Second
	testTimeout  = 60 * time.Second
	waitFor      = 2 * time.Second
	tick         = 5 * time.Millisecond
)

type fakeSocket struct {
	id string

	mu          sync.Mutex
	frames      [][]byte
	attachment  []byte
	closed      bool
	closeCode   int
	closeReason string
	sendErr     error
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{id: uuid.NewString()}
}

func (s *fakeSocket) ID() string { return s.id }

func (s *fakeSocket) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSocketClosed
	}
	if s.sendErr != nil {
		return s.sendErr
	}
	s.frames = append(s.frames, frame)

	return nil
}

func (s *fakeSocket) Close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.closeCode = code
	s.closeReason = reason
}

func (s *fakeSocket) Attachment() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attachment
}

func (s *fakeSocket) SetAttachment(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attachment = data
}

type receivedEnvelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *fakeSocket) envelopes(t *testing.T) []receivedEnvelope {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]receivedEnvelope, 0, len(s.frames))
	for _, frame := range s.frames {
		var env receivedEnvelope
		require.NoError(t, json.Unmarshal(frame, &env))
		out = append(out, env)
	}

	return out
}

func (s *fakeSocket) ofType(t *testing.T, typ MessageType) []receivedEnvelope {
	t.Helper()

	var out []receivedEnvelope
	for _, env := range s.envelopes(t) {
		if env.Type == typ {
			out = append(out, env)
		}
	}

	return out
}

func (s *fakeSocket) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frames = nil
}

func (s *fakeSocket) closeState() (bool, int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed, s.closeCode, s.closeReason
}

type fakeRecorder struct {
	mu        sync.Mutex
	transfers []*entity.Transfer
}

func (r *fakeRecorder) Record(transfer *entity.Transfer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transfers = append(r.transfers, transfer)
}

func (r *fakeRecorder) recorded() []*entity.Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*entity.Transfer(nil), r.transfers...)
}

type hubFixture struct {
	hub      *Hub
	clock    *clock.Mock
	recorder *fakeRecorder
	metrics  *Metrics
	userID   uuid.UUID
}

func testOptions() Options {
	return Options{
		HeartbeatInterval: testInterval,
		HeartbeatTimeout:  testTimeout,
		TokenTTL:          time.Minute,
		TokenCapacity:     16,
		EventBuffer:       64,
	}
}

func newHubFixture(t *testing.T, opts Options) *hubFixture {
	t.Helper()

	recorder := &fakeRecorder{}
	fx := newHubFixtureWithRecorder(t, opts, NewMetrics(prometheus.NewRegistry()), recorder)
	fx.recorder = recorder

	return fx
}

// newHubFixtureWithRecorder builds a hub around a caller-provided recorder.
// The fixture's recorder field stays nil.
func newHubFixtureWithRecorder(t *testing.T, opts Options, metrics *Metrics, recorder TransferRecorder) *hubFixture {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	hub := NewHub(opts, HubDeps{
		Clock:    clk,
		Logger:   slog.New(slog.DiscardHandler),
		Metrics:  metrics,
		Recorder: recorder,
	})
	t.Cleanup(func() {
		_ = hub.Close(context.Background())
	})

	return &hubFixture{
		hub:     hub,
		clock:   clk,
		metrics: metrics,
		userID:  uuid.New(),
	}
}

// connect runs the handshake for identity and accepts a fake socket.
func (fx *hubFixture) connect(t *testing.T, id string) *fakeSocket {
	t.Helper()

	ctx := context.Background()
	identity := entity.DeviceIdentity{ID: id, Name: "Device " + id}

	token, err := fx.hub.IssueToken(ctx, fx.userID, identity)
	require.NoError(t, err)
	got, err := fx.hub.ConsumeToken(ctx, fx.userID, token)
	require.NoError(t, err)

	socket := newFakeSocket()
	require.NoError(t, fx.hub.Accept(fx.userID, socket, got))
	fx.flush(t)

	return socket
}

func (fx *hubFixture) send(t *testing.T, socket *fakeSocket, frame string) {
	t.Helper()

	fx.hub.Frame(fx.userID, socket, []byte(frame))
	fx.flush(t)
}

// flush waits until every event queued so far has been handled.
func (fx *hubFixture) flush(t *testing.T) {
	t.Helper()

	_, err := fx.hub.OnlineDevices(context.Background(), fx.userID)
	require.NoError(t, err)
}

func (fx *hubFixture) sweeps(t *testing.T) int {
	t.Helper()

	var n int
	require.NoError(t, fx.hub.invoke(context.Background(), fx.userID, func(c *Coordinator) {
		n = c.sweeps
	}))

	return n
}

// advance moves the clock by one heartbeat interval and waits for the sweep.
func (fx *hubFixture) advance(t *testing.T) {
	t.Helper()

	before := fx.sweeps(t)
	fx.clock.Add(testInterval)
	require.Eventually(t, func() bool {
		return fx.sweeps(t) > before
	}, waitFor, tick)
}

func (fx *hubFixture) awake() int {
	fx.hub.mu.Lock()
	defer fx.hub.mu.Unlock()

	return len(fx.hub.coordinators)
}
