package pubsub

import (
	"context"
	"testing"

	"devicerelay/config"
	"devicerelay/internal/domain/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newPublisherParams(t *testing.T, cfg *config.PubSubConfig) PublisherParams {
	t.Helper()

	return PublisherParams{
		Lc:     fxtest.NewLifecycle(t),
		Ctx:    context.Background(),
		Config: &config.Config{PubSub: cfg},
		Logger: newDiscardLogger(),
	}
}

func TestNewEventPublisher_NotConfigured(t *testing.T) {
	publisher, err := NewEventPublisher(newPublisherParams(t, nil))
	require.NoError(t, err)

	_, ok := publisher.(discardPublisher)
	assert.True(t, ok)
	assert.NoError(t, publisher.PublishTransferEvent(context.Background(), testTransferEvent()))
	assert.NoError(t, publisher.Close())
}

func TestNewEventPublisher_Local(t *testing.T) {
	publisher, err := NewEventPublisher(newPublisherParams(t, &config.PubSubConfig{
		Provider:      constants.PubSubProviderLocal,
		LocalEndpoint: "http://127.0.0.1:0/push",
	}))
	require.NoError(t, err)

	_, ok := publisher.(*pushPublisher)
	assert.True(t, ok)
}

func TestNewEventPublisher_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.PubSubConfig
	}{
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderLocal}},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, TopicID: "t"}},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, ProjectID: "p"}},
		{name: "unknown provider", cfg: &config.PubSubConfig{Provider: "kafka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventPublisher(newPublisherParams(t, tt.cfg))
			assert.Error(t, err)
		})
	}
}
