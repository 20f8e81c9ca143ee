package pubsub

import (
	"context"
	"log/slog"

	"devicerelay/config"
	"devicerelay/internal/domain/service"
	"devicerelay/internal/errors"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
)

// googlePublisher sends transfer events to a Cloud Pub/Sub topic. Events are
// ordered per user so subscribers see each user's history in order.
type googlePublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

func newGooglePublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (*googlePublisher, error) {
	if cfg.ProjectID == "" || cfg.TopicID == "" {
		return nil, errors.New("pubsub.projectId and pubsub.topicId are required for the google provider")
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, errors.Wrap(err, "create pubsub client")
	}

	topic := "projects/" + cfg.ProjectID + "/topics/" + cfg.TopicID
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topic}); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "look up topic %s", topic)
	}

	publisher := client.Publisher(cfg.TopicID)
	publisher.EnableMessageOrdering = true

	return &googlePublisher{
		client:    client,
		publisher: publisher,
		logger:    logger.With(slog.String("topic", topic)),
	}, nil
}

func (p *googlePublisher) PublishTransferEvent(ctx context.Context, event *service.TransferEvent) error {
	data, attributes, err := encodeEvent(event)
	if err != nil {
		return err
	}

	serverID, err := p.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		Attributes:  attributes,
		OrderingKey: event.UserID,
	}).Get(ctx)
	if err != nil {
		// Ordered publishing halts the key after a failure.
		p.publisher.ResumePublish(event.UserID)

		return errors.Wrapf(err, "publish transfer %s", event.TransferID)
	}

	p.logger.DebugContext(ctx, "Transfer event published",
		slog.String("transfer_id", event.TransferID),
		slog.String("message_id", serverID),
	)

	return nil
}

func (p *googlePublisher) Close() error {
	p.publisher.Stop()

	return errors.WithStack(p.client.Close())
}
