package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/domain/repository"
	"devicerelay/internal/domain/service"
	"devicerelay/internal/errors"
)

const (
	recordTimeout  = 5 * time.Second
	publishTimeout = 5 * time.Second

	transferKindText = "text"
	transferKindFile = "file"
)

// TransferRecorder appends transfer records off the forwarding path.
type TransferRecorder interface {
	Record(transfer *entity.Transfer)
}

// RecorderOptions sizes the recorder worker pool.
type RecorderOptions struct {
	Workers   int
	QueueSize int
}

// Recorder writes transfer records with a small worker pool. Failures are
// logged and counted; they never reach the relay.
type Recorder struct {
	repo      repository.TransferRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	metrics   *Metrics

	queue chan *entity.Transfer
	wg    sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewRecorder starts the recorder workers. publisher may be nil.
func NewRecorder(repo repository.TransferRepository, publisher service.EventPublisher, logger *slog.Logger, metrics *Metrics, opts RecorderOptions) *Recorder {
	workers := max(opts.Workers, 1)

	r := &Recorder{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		queue:     make(chan *entity.Transfer, opts.QueueSize),
	}

	r.wg.Add(workers)
	for range workers {
		go func() {
			defer r.wg.Done()
			for transfer := range r.queue {
				r.store(transfer)
			}
		}()
	}

	return r
}

// Record queues a transfer record without waiting. When the recorder is
// stopped or its queue is full the record is dropped, logged and counted.
func (r *Recorder) Record(transfer *entity.Transfer) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.drop(transfer, "recorder stopped")

		return
	}

	select {
	case r.queue <- transfer:
	default:
		r.drop(transfer, "queue full")
	}
}

func (r *Recorder) drop(transfer *entity.Transfer, reason string) {
	r.metrics.TransferRecords.WithLabelValues("dropped").Inc()
	r.logger.Error("Transfer record dropped",
		slog.String("reason", reason),
		slog.String("transfer_id", transfer.ID.String()),
		slog.String("user_id", transfer.SenderUserID.String()),
		slog.String("send_device_id", transfer.SenderDeviceID),
		slog.String("receive_device_id", transfer.ReceiverDeviceID),
	)
}

// Close stops accepting records and waits for queued ones to be written.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "recorder drain")
	}
}

func (r *Recorder) store(transfer *entity.Transfer) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.repo.CreateTransfer(ctx, transfer); err != nil {
		r.metrics.TransferRecords.WithLabelValues("error").Inc()
		r.logger.Error("Failed to record transfer",
			slog.String("transfer_id", transfer.ID.String()),
			slog.String("user_id", transfer.SenderUserID.String()),
			slog.String("send_device_id", transfer.SenderDeviceID),
			slog.String("receive_device_id", transfer.ReceiverDeviceID),
			slog.Any("error", err),
		)

		return
	}
	r.metrics.TransferRecords.WithLabelValues("ok").Inc()

	if r.publisher == nil {
		return
	}

	pubCtx, pubCancel := context.WithTimeout(context.Background(), publishTimeout)
	defer pubCancel()

	if err := r.publisher.PublishTransferEvent(pubCtx, newTransferEvent(transfer)); err != nil {
		r.logger.Warn("Failed to publish transfer event",
			slog.String("transfer_id", transfer.ID.String()),
			slog.Any("error", err),
		)
	}
}

func newTransferEvent(transfer *entity.Transfer) *service.TransferEvent {
	event := &service.TransferEvent{
		TransferID:       transfer.ID.String(),
		UserID:           transfer.SenderUserID.String(),
		SenderDeviceID:   transfer.SenderDeviceID,
		ReceiverDeviceID: transfer.ReceiverDeviceID,
		Kind:             transferKindText,
		CreatedAt:        transfer.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if transfer.IsFile() {
		event.Kind = transferKindFile
		event.FileID = *transfer.FileID
	}

	return event
}
