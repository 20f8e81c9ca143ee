package relay

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Close codes sent by the relay.
const (
	CloseHeartbeatTimeout = 4000
	CloseInvalidState     = 4001
)

// Socket is an accepted connection. Sockets belong to the hub and outlive
// any single coordinator; the attachment is the only state a coordinator may
// rely on after hibernation.
type Socket interface {
	// ID uniquely identifies the socket within the process.
	ID() string

	// Send enqueues a frame without waiting for the peer.
	Send(frame []byte) error

	// Close closes the socket with a close code and reason. Closing twice is a no-op.
	Close(code int, reason string)

	// Attachment returns the serialized connection record.
	Attachment() []byte

	// SetAttachment replaces the serialized connection record.
	SetAttachment(data []byte)
}

// WebSocketOptions tunes a WebSocket.
type WebSocketOptions struct {
	SendQueueSize  int
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// WebSocket adapts a gorilla connection to Socket. Writes go through a single
// writer goroutine fed by a bounded queue.
type WebSocket struct {
	id     string
	conn   *websocket.Conn
	opts   WebSocketOptions
	logger *slog.Logger

	send chan []byte
	done chan struct{}

	closeOnce   sync.Once
	closeCode   int
	closeReason string

	mu         sync.Mutex
	attachment []byte
}

// NewWebSocket wraps an upgraded connection.
func NewWebSocket(conn *websocket.Conn, opts WebSocketOptions, logger *slog.Logger) *WebSocket {
	id := uuid.NewString()

	return &WebSocket{
		id:     id,
		conn:   conn,
		opts:   opts,
		logger: logger.With(slog.String("socket_id", id)),
		send:   make(chan []byte, opts.SendQueueSize),
		done:   make(chan struct{}),
	}
}

func (s *WebSocket) ID() string {
	return s.id
}

func (s *WebSocket) Send(frame []byte) error {
	select {
	case <-s.done:
		return ErrSocketClosed
	default:
	}

	select {
	case s.send <- frame:
		return nil
	case <-s.done:
		return ErrSocketClosed
	default:
		return ErrSendQueueFull
	}
}

func (s *WebSocket) Close(code int, reason string) {
	s.closeOnce.Do(func() {
		s.closeCode = code
		s.closeReason = reason
		close(s.done)
	})
}

func (s *WebSocket) Attachment() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attachment
}

func (s *WebSocket) SetAttachment(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attachment = data
}

// Run pumps frames until the connection ends. onFrame receives every text or
// binary frame; onClose is called exactly once after the read side stops.
func (s *WebSocket) Run(onFrame func(frame []byte), onClose func()) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump()
	}()

	s.readPump(onFrame)
	s.Close(websocket.CloseNormalClosure, "")
	<-writerDone
	onClose()
}

func (s *WebSocket) readPump(onFrame func(frame []byte)) {
	if s.opts.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.opts.MaxMessageSize)
	}

	for {
		msgType, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) && !s.closed() {
				s.logger.Warn("Socket read failed", slog.Any("error", err))
			}

			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		onFrame(frame)
	}
}

func (s *WebSocket) writePump() {
	defer s.conn.Close()

	for {
		select {
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.logger.Debug("Socket write failed", slog.Any("error", err))
				s.Close(websocket.CloseAbnormalClosure, "")

				return
			}

		case <-s.done:
			if s.closeCode != websocket.CloseAbnormalClosure {
				msg := websocket.FormatCloseMessage(s.closeCode, s.closeReason)
				_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.opts.WriteTimeout))
			}

			return
		}
	}
}

func (s *WebSocket) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
