package handler

import (
	"log/slog"
	"net/http"

	"devicerelay/config"
	deliverycontext "devicerelay/internal/delivery/context"
	"devicerelay/internal/delivery/http/response"
	"devicerelay/internal/domain/entity"
	domainerrors "devicerelay/internal/domain/errors"
	"devicerelay/internal/relay"
	"devicerelay/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RelayHandlerParams holds dependencies for RelayHandler, injected by Fx.
type RelayHandlerParams struct {
	fx.In

	RelayUC    usecase.RelayUsecase
	SocketOpts relay.WebSocketOptions
	Logger     *slog.Logger
	Config     *config.Config
}

// RelayHandler serves the handshake and the socket upgrade of the device relay
type RelayHandler struct {
	relayUC    usecase.RelayUsecase
	socketOpts relay.WebSocketOptions
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewRelayHandler is the constructor for RelayHandler
func NewRelayHandler(params RelayHandlerParams) *RelayHandler {
	return &RelayHandler{
		relayUC:    params.RelayUC,
		socketOpts: params.SocketOpts,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: params.Config.HTTP.Timeouts.ReadHeaderTimeout,
			// Sockets are authenticated by the handshake token, not by origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: params.Logger,
	}
}

// IssueTokenResponse is the body returned by the handshake endpoint
type IssueTokenResponse struct {
	Token string `json:"token"`
}

// IssueToken binds the posted device identity to a single-use socket token
func (h *RelayHandler) IssueToken(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var identity entity.DeviceIdentity
	if err := c.Bind(&identity); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("request body must be a device identity")
	}

	if err := c.Validate(&identity); err != nil {
		return err
	}

	token, err := h.relayUC.IssueHandshakeToken(c.Request().Context(), userID, identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, IssueTokenResponse{Token: token})
}

// Connect redeems the handshake token and upgrades to a relay socket. The
// handler returns when the socket closes.
func (h *RelayHandler) Connect(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	if !websocket.IsWebSocketUpgrade(c.Request()) {
		return domainerrors.ErrUpgradeRequired
	}

	ctx := c.Request().Context()
	identity, err := h.relayUC.RedeemHandshakeToken(ctx, userID, c.QueryParam("token"))
	if err != nil {
		return err
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("device_id", identity.ID),
	)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error
		logger.Warn("WebSocket upgrade failed", slog.Any("error", err))

		return nil
	}

	// The connection is hijacked; record the status for the access log
	c.Response().Status = http.StatusSwitchingProtocols

	socket := relay.NewWebSocket(conn, h.socketOpts, logger)
	if err := h.relayUC.Attach(userID, socket, identity); err != nil {
		logger.Warn("Relay socket rejected", slog.Any("error", err))
	}

	return nil
}

// OnlineDevices lists the caller's connected devices
func (h *RelayHandler) OnlineDevices(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	devices, err := h.relayUC.OnlineDevices(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, devices)
}
