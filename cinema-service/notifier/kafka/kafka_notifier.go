package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/notifier"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the notifier needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaNotifier struct {
	writer MessageWriter
}

var _ notifier.Notifier = (*KafkaNotifier)(nil)

// NewKafkaNotifier writes notifications to topic on brokers.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return NewKafkaNotifierWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
}

func NewKafkaNotifierWithWriter(writer MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

// NotifyPurchase publishes req keyed by its id.
func (n *KafkaNotifier) NotifyPurchase(ctx context.Context, req *model.NotificationRequest) error {
	msgBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.ID.String()),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
