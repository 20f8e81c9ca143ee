package relay

import (
	"encoding/json"
	"time"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"
)

// ConnectionRecord is the routing state of one accepted socket. A serialized
// copy travels with the socket as its attachment so a fresh coordinator can
// rebuild its registry without a new handshake.
type ConnectionRecord struct {
	Tag             string                `json:"tag"`
	Metadata        entity.DeviceIdentity `json:"metadata"`
	LastHeartbeatAt time.Time             `json:"last_heartbeat_at"`
}

func (r ConnectionRecord) encode() []byte {
	data, _ := json.Marshal(r)

	return data
}

func decodeRecord(data []byte) (ConnectionRecord, error) {
	var rec ConnectionRecord
	if len(data) == 0 {
		return rec, errors.New("empty attachment")
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, errors.Wrap(err, "decode attachment")
	}
	if rec.Tag == "" {
		return rec, errors.New("attachment without tag")
	}

	return rec, nil
}
