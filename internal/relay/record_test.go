package relay

import (
	"testing"
	"time"

	"devicerelay/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRecord_RoundTrip(t *testing.T) {
	rec := ConnectionRecord{
		Tag:             "a",
		Metadata:        entity.DeviceIdentity{ID: "a", Name: "Laptop", Emoji: "💻"},
		LastHeartbeatAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	got, err := decodeRecord(rec.encode())
	require.NoError(t, err)
	assert.Equal(t, rec.Tag, got.Tag)
	assert.Equal(t, rec.Metadata, got.Metadata)
	assert.True(t, rec.LastHeartbeatAt.Equal(got.LastHeartbeatAt))
}

func TestDecodeRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not json", data: []byte("{")},
		{name: "missing tag", data: []byte(`{"metadata":{"id":"a","name":"A"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRecord(tt.data)
			assert.Error(t, err)
		})
	}
}
