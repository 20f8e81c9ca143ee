package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"devicerelay/internal/domain/service"
	"devicerelay/internal/errors"

	"github.com/labstack/echo/v4"
)

const (
	pushSubscription = "projects/local/subscriptions/transfer-events"
	pushTimeout      = 10 * time.Second
)

// pushEnvelope is the body Cloud Pub/Sub POSTs to push subscriptions.
type pushEnvelope struct {
	Message      pushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

type pushMessage struct {
	Data        string            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
}

// pushPublisher delivers events straight to a push endpoint in the shape a
// push subscription would, so consumers can be developed without Pub/Sub.
type pushPublisher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func newPushPublisher(endpoint string, logger *slog.Logger) (*pushPublisher, error) {
	if endpoint == "" {
		return nil, errors.New("pubsub.localEndpoint is required for the local provider")
	}

	return &pushPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: pushTimeout},
		logger:   logger.With(slog.String("endpoint", endpoint)),
	}, nil
}

func (p *pushPublisher) PublishTransferEvent(ctx context.Context, event *service.TransferEvent) error {
	data, attributes, err := encodeEvent(event)
	if err != nil {
		return err
	}

	body, err := json.Marshal(pushEnvelope{
		Subscription: pushSubscription,
		Message: pushMessage{
			Data:        base64.StdEncoding.EncodeToString(data),
			Attributes:  attributes,
			MessageID:   event.TransferID,
			PublishTime: time.Now().UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return errors.Wrap(err, "marshal push envelope")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if event.RequestID != "" {
		req.Header.Set(echo.HeaderXRequestID, event.RequestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "push transfer %s", event.TransferID)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("push endpoint answered %d for transfer %s", resp.StatusCode, event.TransferID)
	}

	p.logger.DebugContext(ctx, "Transfer event pushed", slog.String("transfer_id", event.TransferID))

	return nil
}

func (p *pushPublisher) Close() error {
	p.client.CloseIdleConnections()

	return nil
}
