package relay

import (
	"context"
	"log/slog"

	"devicerelay/config"
	"devicerelay/internal/domain/lifecycle"
	"devicerelay/internal/domain/repository"
	"devicerelay/internal/domain/service"

	"go.uber.org/fx"
)

// Module provides the hub, the recorder and their tuning to an fx application.
var Module = fx.Options(
	fx.Provide(
		NewOptions,
		NewWebSocketOptions,
		NewMetrics,
		provideRecorder,
		provideHub,
	),
)

// NewOptions maps the relay configuration onto coordinator options.
func NewOptions(cfg *config.Config) Options {
	rc := cfg.Relay

	return Options{
		HeartbeatInterval: rc.HeartbeatInterval,
		HeartbeatTimeout:  rc.HeartbeatTimeout,
		TokenTTL:          rc.TokenTTL,
		TokenCapacity:     rc.TokenCapacity,
		EventBuffer:       rc.SendQueueSize,
		IdleTimeout:       rc.IdleTimeout,
	}
}

// NewWebSocketOptions maps the relay configuration onto socket options.
func NewWebSocketOptions(cfg *config.Config) WebSocketOptions {
	return WebSocketOptions{
		SendQueueSize:  cfg.Relay.SendQueueSize,
		WriteTimeout:   cfg.Relay.WriteTimeout,
		MaxMessageSize: cfg.Relay.MaxMessageSize,
	}
}

type recorderParams struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Repo      repository.TransferRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
	Metrics   *Metrics
}

func provideRecorder(params recorderParams) *Recorder {
	recorder := NewRecorder(params.Repo, params.Publisher, params.Logger, params.Metrics, RecorderOptions{
		Workers:   params.Config.Relay.RecorderWorkers,
		QueueSize: params.Config.Relay.RecorderQueueSize,
	})

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Draining transfer recorder")

			return recorder.Close(ctx)
		},
	})

	return recorder
}

type hubParams struct {
	fx.In

	Lc       fx.Lifecycle
	Options  Options
	Logger   *slog.Logger
	Metrics  *Metrics
	Recorder *Recorder
}

func provideHub(params hubParams) *Hub {
	hub := NewHub(params.Options, HubDeps{
		Logger:   params.Logger,
		Metrics:  params.Metrics,
		Recorder: params.Recorder,
	})

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing relay hub")
			stopCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			return hub.Close(stopCtx)
		},
	})

	return hub
}
