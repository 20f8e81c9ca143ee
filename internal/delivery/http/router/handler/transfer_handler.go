package handler

import (
	"net/http"
	"time"

	deliverycontext "devicerelay/internal/delivery/context"
	"devicerelay/internal/delivery/http/response"
	domainerrors "devicerelay/internal/domain/errors"
	"devicerelay/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TransferHandlerParams holds dependencies for TransferHandler, injected by Fx.
type TransferHandlerParams struct {
	fx.In

	TransferUC usecase.TransferUsecase
}

// TransferHandler serves the transfer history
type TransferHandler struct {
	transferUC usecase.TransferUsecase
}

// NewTransferHandler is the constructor for TransferHandler
func NewTransferHandler(params TransferHandlerParams) *TransferHandler {
	return &TransferHandler{
		transferUC: params.TransferUC,
	}
}

// ListTransfers handles GET /transfers?limit=&before=
func (h *TransferHandler) ListTransfers(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var (
		query  usecase.TransferListQuery
		before time.Time
	)
	err := echo.QueryParamsBinder(c).
		Int("limit", &query.Limit).
		Time("before", &before, time.RFC3339).
		BindError()
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("limit must be an integer and before an RFC 3339 timestamp")
	}
	if !before.IsZero() {
		query.Before = &before
	}

	transfers, err := h.transferUC.ListTransfers(c.Request().Context(), userID, query)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, transfers)
}
