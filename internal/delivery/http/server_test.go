package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devicerelay/config"
	httpmiddleware "devicerelay/internal/delivery/http/middleware"
	"devicerelay/internal/delivery/http/router"
	"devicerelay/internal/delivery/http/router/handler"
	"devicerelay/internal/domain/entity"
	"devicerelay/internal/domain/repository"
	"devicerelay/internal/domain/service"
	"devicerelay/internal/infra/auth"
	"devicerelay/internal/infra/metrics"
	mockrepository "devicerelay/internal/mocks/repository"
	"devicerelay/internal/relay"
	"devicerelay/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const waitFor = 5 * time.Second

type recordSink chan *entity.Transfer

func (s recordSink) Record(transfer *entity.Transfer) {
	s <- transfer
}

type serverFixture struct {
	url      string
	tokenSvc service.TokenService
	records  recordSink
	repo     *mockrepository.MockTransferRepository
	hub      *relay.Hub
}

func createTestServer(t *testing.T) *serverFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "test-secret"
	cfg.Metrics = &config.MetricsConfig{Enabled: true, Path: "/metrics"}
	logger := slog.New(slog.DiscardHandler)

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	reg := metrics.NewRegistry()
	records := make(recordSink, 16)
	hub := relay.NewHub(relay.Options{
		HeartbeatInterval: time.Minute,
		HeartbeatTimeout:  2 * time.Minute,
		TokenTTL:          time.Minute,
		TokenCapacity:     8,
		EventBuffer:       16,
	}, relay.HubDeps{
		Logger:   logger,
		Metrics:  relay.NewMetrics(reg),
		Recorder: records,
	})
	repo := mockrepository.NewMockTransferRepository(t)

	e := NewEcho(ServerParams{
		Cfg:             cfg,
		Logger:          logger,
		ErrorMiddleware: httpmiddleware.NewErrorMiddleware(logger),
		RouterParams: router.RouterParams{
			RelayHandler: handler.NewRelayHandler(handler.RelayHandlerParams{
				RelayUC:    impl.NewRelayService(hub),
				SocketOpts: relay.WebSocketOptions{SendQueueSize: 16, WriteTimeout: time.Second, MaxMessageSize: 1 << 16},
				Logger:     logger,
				Config:     cfg,
			}),
			TransferHandler: handler.NewTransferHandler(handler.TransferHandlerParams{
				TransferUC: impl.NewTransferService(repo),
			}),
			AuthMiddleware: httpmiddleware.NewAuthMiddleware(tokenSvc),
			Registry:       reg,
			Config:         cfg,
		},
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = hub.Close(context.Background()) })

	return &serverFixture{
		url:      srv.URL,
		tokenSvc: tokenSvc,
		records:  records,
		repo:     repo,
		hub:      hub,
	}
}

func (f *serverFixture) accessToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := f.tokenSvc.GenerateAccessToken(userID)
	require.NoError(t, err)

	return token
}

func (f *serverFixture) do(t *testing.T, method, path, access, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.url+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(data)
}

func (f *serverFixture) handshake(t *testing.T, access, identity string) string {
	t.Helper()

	status, body := f.do(t, http.MethodPost, "/relay/wstoken", access, identity)
	require.Equal(t, http.StatusOK, status, body)

	var resp handler.IssueTokenResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func (f *serverFixture) dial(access, token string) (*websocket.Conn, *http.Response, error) {
	wsURL := "ws" + strings.TrimPrefix(f.url, "http") + "/relay/ws?token=" + token

	return websocket.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + access}})
}

func (f *serverFixture) connect(t *testing.T, access, identity string) *websocket.Conn {
	t.Helper()

	conn, resp, err := f.dial(access, f.handshake(t, access, identity))
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func (f *serverFixture) waitOnline(t *testing.T, access string, ids ...string) {
	t.Helper()

	require.Eventually(t, func() bool {
		status, body := f.do(t, http.MethodGet, "/relay/devices", access, "")
		if status != http.StatusOK {
			return false
		}
		for _, id := range ids {
			if !strings.Contains(body, `"id":"`+id+`"`) {
				return false
			}
		}

		return true
	}, waitFor, 10*time.Millisecond)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(frame, &env))

	return env
}

func TestServer_Health(t *testing.T) {
	f := createTestServer(t)

	status, body := f.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)
}

func TestServer_RelayRequiresAccessToken(t *testing.T) {
	f := createTestServer(t)

	status, _ := f.do(t, http.MethodPost, "/relay/wstoken", "", `{"id":"a","name":"A"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, http.MethodGet, "/relay/devices", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServer_RelayEndToEnd(t *testing.T) {
	f := createTestServer(t)
	access := f.accessToken(t, uuid.New())

	connA := f.connect(t, access, `{"id":"a","name":"Laptop","emoji":"💻"}`)
	f.waitOnline(t, access, "a")

	connB := f.connect(t, access, `{"id":"b","name":"Phone"}`)

	online := readEnvelope(t, connA)
	assert.Equal(t, "device_online", online["type"])
	assert.Equal(t, map[string]any{"id": "b", "name": "Phone", "emoji": ""}, online["data"])

	require.NoError(t, connB.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"send_text","data":{"receiver_id":"a","content":"hi","sender_id":"spoofed"}}`)))

	text := readEnvelope(t, connA)
	assert.Equal(t, "send_text", text["type"])
	data, ok := text["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "b", data["sender_id"])
	assert.Equal(t, "hi", data["content"])

	select {
	case rec := <-f.records:
		assert.Equal(t, "b", rec.SenderDeviceID)
		assert.Equal(t, "a", rec.ReceiverDeviceID)
		require.NotNil(t, rec.ContentText)
		assert.Equal(t, "hi", *rec.ContentText)
	case <-time.After(waitFor):
		t.Fatal("transfer was not recorded")
	}

	require.NoError(t, connA.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, "pong", readEnvelope(t, connA)["type"])

	status, body := f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "devicerelay_active_sockets 2")
}

func TestServer_HandshakeTokenIsSingleUse(t *testing.T) {
	f := createTestServer(t)
	access := f.accessToken(t, uuid.New())
	token := f.handshake(t, access, `{"id":"a","name":"Laptop"}`)

	conn, resp, err := f.dial(access, token)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	_, resp, err = f.dial(access, token)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = f.dial(access, "")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_TokenIsScopedToAccount(t *testing.T) {
	f := createTestServer(t)
	owner := f.accessToken(t, uuid.New())
	other := f.accessToken(t, uuid.New())
	token := f.handshake(t, owner, `{"id":"a","name":"Laptop"}`)

	_, resp, err := f.dial(other, token)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ShutdownClosesSockets(t *testing.T) {
	f := createTestServer(t)
	access := f.accessToken(t, uuid.New())
	conn := f.connect(t, access, `{"id":"a","name":"Laptop"}`)
	f.waitOnline(t, access, "a")

	require.NoError(t, f.hub.Close(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseGoingAway, closeErr.Code)
}

func TestServer_Transfers(t *testing.T) {
	f := createTestServer(t)
	userID := uuid.New()
	access := f.accessToken(t, userID)
	text := "hi"
	f.repo.EXPECT().FindTransfersByUser(mock.Anything, mock.MatchedBy(func(q repository.TransferQuery) bool {
		return q.UserID == userID && q.Limit == 5
	})).Return([]*entity.Transfer{{ID: uuid.New(), SenderUserID: userID, SenderDeviceID: "b", ReceiverDeviceID: "a", ContentText: &text}}, nil)

	status, body := f.do(t, http.MethodGet, "/transfers?limit=5", access, "")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"send_device_id":"b"`)
}
