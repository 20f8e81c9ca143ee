package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"devicerelay/config"
	"devicerelay/internal/domain/entity"
	domainerrors "devicerelay/internal/domain/errors"
	mockusecase "devicerelay/internal/mocks/usecase"
	"devicerelay/internal/relay"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type relayHandlerFixture struct {
	relayUC *mockusecase.MockRelayUsecase
	userID  uuid.UUID
	echo    func(authenticated bool) http.Handler
}

func createTestRelayHandler(t *testing.T) *relayHandlerFixture {
	t.Helper()

	relayUC := mockusecase.NewMockRelayUsecase(t)
	h := NewRelayHandler(RelayHandlerParams{
		RelayUC:    relayUC,
		SocketOpts: relay.WebSocketOptions{SendQueueSize: 4},
		Logger:     slog.New(slog.DiscardHandler),
		Config:     &config.Config{},
	})
	userID := uuid.New()

	return &relayHandlerFixture{
		relayUC: relayUC,
		userID:  userID,
		echo: func(authenticated bool) http.Handler {
			id := userID
			if !authenticated {
				id = uuid.Nil
			}
			e := newTestEcho(id)
			e.POST("/relay/wstoken", h.IssueToken)
			e.GET("/relay/ws", h.Connect)
			e.GET("/relay/devices", h.OnlineDevices)

			return e
		},
	}
}

func TestRelayHandler_IssueToken(t *testing.T) {
	fx := createTestRelayHandler(t)
	identity := entity.DeviceIdentity{ID: "a", Name: "Laptop", Emoji: "💻"}
	fx.relayUC.EXPECT().IssueHandshakeToken(mock.Anything, fx.userID, identity).Return("tok-1", nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/wstoken", jsonBody(`{"id":"a","name":"Laptop","emoji":"💻"}`))
	req.Header.Set("Content-Type", "application/json")
	fx.echo(true).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok-1"}`, rec.Body.String())
}

func TestRelayHandler_IssueTokenRejectsInvalidIdentity(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		details string
	}{
		{name: "missing name", body: `{"id":"a"}`, details: "Name: required"},
		{name: "missing id", body: `{"name":"Laptop"}`, details: "ID: required"},
		{name: "not json", body: `{"id":`, details: "request body must be a device identity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestRelayHandler(t)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/relay/wstoken", jsonBody(tt.body))
			req.Header.Set("Content-Type", "application/json")
			fx.echo(true).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
			assert.Contains(t, body.Error.Details, tt.details)
		})
	}
}

func TestRelayHandler_IssueTokenRequiresUser(t *testing.T) {
	fx := createTestRelayHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/wstoken", jsonBody(`{"id":"a","name":"Laptop"}`))
	req.Header.Set("Content-Type", "application/json")
	fx.echo(false).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Error.Code)
}

func TestRelayHandler_IssueTokenRelayUnavailable(t *testing.T) {
	fx := createTestRelayHandler(t)
	fx.relayUC.EXPECT().IssueHandshakeToken(mock.Anything, fx.userID, mock.Anything).Return("", domainerrors.ErrRelayUnavailable)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/relay/wstoken", jsonBody(`{"id":"a","name":"Laptop"}`))
	req.Header.Set("Content-Type", "application/json")
	fx.echo(true).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "RELAY_UNAVAILABLE", decodeError(t, rec).Error.Code)
}

func TestRelayHandler_ConnectRequiresUpgrade(t *testing.T) {
	fx := createTestRelayHandler(t)

	rec := httptest.NewRecorder()
	fx.echo(true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/relay/ws?token=tok-1", nil))

	assert.Equal(t, http.StatusUpgradeRequired, rec.Code)
	assert.Equal(t, "UPGRADE_REQUIRED", decodeError(t, rec).Error.Code)
}

func TestRelayHandler_ConnectRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name   string
		target string
		token  string
		err    error
		status int
		code   string
	}{
		{name: "missing", target: "/relay/ws", token: "", err: domainerrors.ErrTokenMissing, status: http.StatusBadRequest, code: "TOKEN_MISSING"},
		{name: "unknown", target: "/relay/ws?token=nope", token: "nope", err: domainerrors.ErrTokenInvalid, status: http.StatusUnauthorized, code: "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestRelayHandler(t)
			fx.relayUC.EXPECT().RedeemHandshakeToken(mock.Anything, fx.userID, tt.token).Return(entity.DeviceIdentity{}, tt.err)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
			rec := httptest.NewRecorder()
			fx.echo(true).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestRelayHandler_OnlineDevices(t *testing.T) {
	fx := createTestRelayHandler(t)
	fx.relayUC.EXPECT().OnlineDevices(mock.Anything, fx.userID).Return([]entity.DeviceIdentity{
		{ID: "a", Name: "Laptop"},
	}, nil)

	rec := httptest.NewRecorder()
	fx.echo(true).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/relay/devices", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[{"id":"a","name":"Laptop","emoji":""}]`)
}
