package relay

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"devicerelay/config"
	"devicerelay/internal/domain/entity"
	mockrepository "devicerelay/internal/mocks/repository"
	mockservice "devicerelay/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testConfig() *config.Config {
	cfg := &config.Config{Relay: &config.RelayConfig{
		HeartbeatInterval: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}}
	cfg.Relay.ApplyDefaults()

	return cfg
}

func TestNewOptions(t *testing.T) {
	cfg := testConfig()

	opts := NewOptions(cfg)

	assert.Equal(t, 10*time.Second, opts.HeartbeatInterval)
	assert.Equal(t, cfg.Relay.HeartbeatTimeout, opts.HeartbeatTimeout)
	assert.Equal(t, cfg.Relay.TokenTTL, opts.TokenTTL)
	assert.Equal(t, cfg.Relay.TokenCapacity, opts.TokenCapacity)
	assert.Equal(t, time.Minute, opts.IdleTimeout)

	sockOpts := NewWebSocketOptions(cfg)
	assert.Equal(t, cfg.Relay.SendQueueSize, sockOpts.SendQueueSize)
	assert.Equal(t, cfg.Relay.MaxMessageSize, sockOpts.MaxMessageSize)
}

func TestProviders_LifecycleClosesHubAndRecorder(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	logger := slog.New(slog.DiscardHandler)
	metrics := NewMetrics(prometheus.NewRegistry())

	recorder := provideRecorder(recorderParams{
		Lc:        lc,
		Config:    testConfig(),
		Repo:      mockrepository.NewMockTransferRepository(t),
		Publisher: mockservice.NewMockEventPublisher(t),
		Logger:    logger,
		Metrics:   metrics,
	})
	hub := provideHub(hubParams{
		Lc:       lc,
		Options:  NewOptions(testConfig()),
		Logger:   logger,
		Metrics:  metrics,
		Recorder: recorder,
	})

	lc.RequireStart()
	lc.RequireStop()

	_, err := hub.IssueToken(context.Background(), uuid.New(), entity.DeviceIdentity{ID: "a", Name: "Laptop"})
	require.ErrorIs(t, err, ErrHubClosed)
}
