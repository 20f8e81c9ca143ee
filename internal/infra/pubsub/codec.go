package pubsub

import (
	"encoding/json"

	"devicerelay/internal/domain/service"
	"devicerelay/internal/errors"
)

// encodeEvent renders a transfer event as a message body plus the
// attributes subscriptions filter on.
func encodeEvent(event *service.TransferEvent) ([]byte, map[string]string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal transfer event")
	}

	attributes := map[string]string{
		"transfer_id": event.TransferID,
		"user_id":     event.UserID,
		"kind":        event.Kind,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return data, attributes, nil
}
