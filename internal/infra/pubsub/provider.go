package pubsub

import (
	"context"
	"log/slog"

	"devicerelay/config"
	"devicerelay/internal/domain/constants"
	"devicerelay/internal/domain/service"
	"devicerelay/internal/errors"

	"go.uber.org/fx"
)

// Module provides the transfer event publisher selected by pubsub.provider.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher builds the configured publisher and closes it on stop.
// Without a provider, events are dropped.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	logger := params.Logger.With(slog.String("component", "event_publisher"))

	publisher, err := newPublisher(params.Ctx, params.Config.PubSub, logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

func newPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Transfer events disabled")

		return discardPublisher{}, nil
	}

	logger = logger.With(slog.String("provider", cfg.Provider))
	logger.Info("Transfer events enabled")

	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		return newPushPublisher(cfg.LocalEndpoint, logger)
	case constants.PubSubProviderGoogle:
		return newGooglePublisher(ctx, cfg, logger)
	default:
		return nil, errors.Errorf("unknown pubsub provider %q", cfg.Provider)
	}
}

type discardPublisher struct{}

func (discardPublisher) PublishTransferEvent(context.Context, *service.TransferEvent) error {
	return nil
}

func (discardPublisher) Close() error {
	return nil
}
