// Package worker consumes purchase notifications from Kafka and turns them
// into confirmation emails.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Pool for decoded notifications
var notificationRequestPool = sync.Pool{
	New: func() interface{} {
		return &model.NotificationRequest{}
	},
}

// resetNotificationRequest clears a notification request for reuse
func resetNotificationRequest(req *model.NotificationRequest) {
	req.ID = uuid.Nil
	req.Type = ""
	req.RecipientEmail = ""
	req.PurchaseData = model.NotificationPurchaseData{}
	req.Timestamp = time.Time{}
}

// MessageReader is the part of *kafka.Reader the processor consumes.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// EmailSender delivers rendered emails.
type EmailSender interface {
	Send(ctx context.Context, email *model.EmailTemplate) error
}

// LogEmailSender only logs the email it is given.
type LogEmailSender struct {
	logger *zap.Logger
}

func NewLogEmailSender(logger *zap.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger}
}

func (s *LogEmailSender) Send(ctx context.Context, email *model.EmailTemplate) error {
	s.logger.Info("mock email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body),
	)
	return nil
}

type NotificationProcessor struct {
	consumer MessageReader
	sender   EmailSender
	logger   *zap.Logger

	// Worker pool for managing goroutines
	workerPool chan chan kafka.Message
	workers    []*NotificationWorker
	wg         sync.WaitGroup

	metricsInterval time.Duration

	// Metrics
	processedCount int64
	failedCount    int64
	activeWorkers  int64
}

type NotificationWorker struct {
	id         int
	processor  *NotificationProcessor
	jobChannel chan kafka.Message
	workerPool chan chan kafka.Message
	quit       chan struct{}
}

func NewNotificationProcessor(consumer MessageReader, sender EmailSender, maxWorkers int, logger *zap.Logger) *NotificationProcessor {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	processor := &NotificationProcessor{
		consumer:        consumer,
		sender:          sender,
		logger:          logger,
		workerPool:      make(chan chan kafka.Message, maxWorkers),
		workers:         make([]*NotificationWorker, maxWorkers),
		metricsInterval: 30 * time.Second,
	}

	// Initialize worker pool
	for i := 0; i < maxWorkers; i++ {
		processor.workers[i] = &NotificationWorker{
			id:         i,
			processor:  processor,
			jobChannel: make(chan kafka.Message),
			workerPool: processor.workerPool,
			quit:       make(chan struct{}),
		}
	}

	return processor
}

// Processed reports how many messages have been handled, failures included.
func (p *NotificationProcessor) Processed() int64 {
	return atomic.LoadInt64(&p.processedCount)
}

// Failed reports how many messages could not be handled.
func (p *NotificationProcessor) Failed() int64 {
	return atomic.LoadInt64(&p.failedCount)
}

// Start consumes notifications until ctx is cancelled. It always returns a
// non-nil error, ctx.Err() on a clean stop.
func (p *NotificationProcessor) Start(ctx context.Context) error {
	p.logger.Info("starting notification processor", zap.Int("workers", len(p.workers)))

	for _, worker := range p.workers {
		worker.start()
	}
	defer p.shutdown()

	go p.reportMetrics(ctx)

	for {
		msg, err := p.consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("notification processor shutting down")
				return ctx.Err()
			}
			p.logger.Warn("error reading message", zap.Error(err))
			continue
		}

		// Dispatch to worker pool (blocks if all workers busy)
		select {
		case jobChannel := <-p.workerPool:
			select {
			case jobChannel <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *NotificationWorker) start() {
	w.processor.wg.Add(1)
	go func() {
		defer w.processor.wg.Done()
		for {
			// Register this worker in the pool
			select {
			case w.workerPool <- w.jobChannel:
			case <-w.quit:
				return
			}

			select {
			case job := <-w.jobChannel:
				w.processor.handle(job, w.id)
			case <-w.quit:
				return
			}
		}
	}()
}

func (w *NotificationWorker) stop() {
	close(w.quit)
}

func (p *NotificationProcessor) handle(msg kafka.Message, workerID int) {
	atomic.AddInt64(&p.activeWorkers, 1)
	defer atomic.AddInt64(&p.activeWorkers, -1)

	if err := p.processNotification(context.Background(), msg); err != nil {
		atomic.AddInt64(&p.failedCount, 1)
		p.logger.Error("error processing notification",
			zap.Int("worker", workerID),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
	}
	atomic.AddInt64(&p.processedCount, 1)
}

// shutdown stops every worker and waits for in-flight notifications
func (p *NotificationProcessor) shutdown() {
	for _, worker := range p.workers {
		worker.stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("all notification workers finished gracefully")
	case <-time.After(shutdownTimeout):
		p.logger.Warn("shutdown timeout reached, forcing exit",
			zap.Int64("active_workers", atomic.LoadInt64(&p.activeWorkers)))
	}
}

// reportMetrics logs throughput until ctx is cancelled
func (p *NotificationProcessor) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(p.metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.logger.Info("notification processor metrics",
				zap.Int64("processed", atomic.LoadInt64(&p.processedCount)),
				zap.Int64("failed", atomic.LoadInt64(&p.failedCount)),
				zap.Int64("active_workers", atomic.LoadInt64(&p.activeWorkers)),
			)
		}
	}
}

func (p *NotificationProcessor) processNotification(ctx context.Context, msg kafka.Message) error {
	req := notificationRequestPool.Get().(*model.NotificationRequest)
	defer func() {
		resetNotificationRequest(req)
		notificationRequestPool.Put(req)
	}()

	if err := json.Unmarshal(msg.Value, req); err != nil {
		return fmt.Errorf("failed to unmarshal notification request: %w", err)
	}

	var email *model.EmailTemplate
	switch req.Type {
	case model.NotificationTicketsPurchased:
		email = req.GeneratePurchaseConfirmationEmail()
	default:
		p.logger.Warn("unknown notification type", zap.String("type", req.Type))
		return nil
	}

	if err := p.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	p.logger.Info("purchase confirmation sent",
		zap.String("notification_id", req.ID.String()),
		zap.String("recipient", req.RecipientEmail),
		zap.Strings("seats", req.PurchaseData.Seats),
	)
	return nil
}
