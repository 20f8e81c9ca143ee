package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"

	"github.com/google/uuid"
)

// handleFrame decodes one inbound frame and routes it. Malformed frames are
// logged and dropped; the connection stays open.
func (c *Coordinator) handleFrame(socket Socket, frame []byte) {
	sender, ok := c.registry.get(socket.ID())
	if !ok {
		c.logger.Debug("Frame from unregistered socket dropped", slog.String("socket_id", socket.ID()))

		return
	}

	msg, err := Decode(frame)
	if err != nil {
		c.metrics.MalformedFrames.Inc()
		c.logger.Warn("Discarding malformed frame",
			slog.String("device_id", sender.record.Tag),
			slog.Any("error", err),
		)

		return
	}
	c.metrics.Frames.WithLabelValues(frameKind(msg.Kind())).Inc()

	c.route(sender, msg)
}

func (c *Coordinator) route(sender *entry, msg Message) {
	switch m := msg.(type) {
	case Ping:
		sender.record.LastHeartbeatAt = c.clock.Now()
		c.persist(sender)
		c.send(sender, Envelope{Type: TypePong})

	case DeviceListRequest:
		c.send(sender, Envelope{Type: TypeDeviceList, Data: c.registry.peers(sender)})

	case DeviceUpdate:
		identity := m.Identity
		identity.ID = sender.record.Tag
		sender.record.Metadata = identity
		c.persist(sender)
		c.broadcast(sender, Envelope{Type: TypeDeviceUpdate, Data: identity})

	case SendText:
		c.forward(sender, m.ReceiverID, TypeSendText, m.fields)
		content := m.Content
		c.record(sender, m.ReceiverID, &content, nil)

	case SendFile:
		c.forward(sender, m.ReceiverID, TypeSendFile, m.fields)
		if m.StorageKey != "" {
			fileID := m.StorageKey
			c.record(sender, m.ReceiverID, nil, &fileID)
		}

	case Forward:
		c.forward(sender, m.ReceiverID, m.Type, m.fields)
	}
}

// forward delivers fields to the receiver's connection with sender_id set to
// the sender's registration tag. Unknown receivers are ignored.
func (c *Coordinator) forward(sender *entry, receiverID string, kind MessageType, fields payloadFields) {
	receiver, ok := c.registry.lookup(receiverID)
	if !ok {
		c.logger.Debug("Receiver offline, frame not forwarded",
			slog.String("device_id", sender.record.Tag),
			slog.String("receiver_id", receiverID),
			slog.String("type", string(kind)),
		)

		return
	}

	c.send(receiver, Envelope{Type: kind, Data: fields.withSender(sender.record.Tag)})
}

// record hands a transfer record to the recorder after forwarding is done.
func (c *Coordinator) record(sender *entry, receiverID string, text, fileID *string) {
	if c.recorder == nil {
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	c.recorder.Record(&entity.Transfer{
		ID:               id,
		SenderUserID:     c.userID,
		SenderDeviceID:   sender.record.Tag,
		ReceiverDeviceID: receiverID,
		ContentText:      text,
		FileID:           fileID,
		CreatedAt:        c.clock.Now(),
	})
}

// send writes an envelope to one connection without waiting for the peer.
func (c *Coordinator) send(to *entry, env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("Failed to encode envelope", slog.String("type", string(env.Type)), slog.Any("error", err))

		return
	}
	c.deliver(to, frame)
}

// broadcast writes an envelope to every connection except the origin.
func (c *Coordinator) broadcast(origin *entry, env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("Failed to encode envelope", slog.String("type", string(env.Type)), slog.Any("error", err))

		return
	}

	c.registry.each(func(e *entry) {
		if e != origin {
			c.deliver(e, frame)
		}
	})
}

func (c *Coordinator) deliver(to *entry, frame []byte) {
	if err := to.socket.Send(frame); err != nil {
		c.metrics.DroppedSends.Inc()
		level := slog.LevelDebug
		if errors.Is(err, ErrSendQueueFull) {
			level = slog.LevelWarn
		}
		c.logger.Log(context.Background(), level, "Frame dropped",
			slog.String("device_id", to.record.Tag),
			slog.Any("error", err),
		)
	}
}
