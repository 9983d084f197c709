package notifier

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"go.uber.org/zap"
)

// LogNotifier only logs notifications. It is used when Kafka is disabled.
type LogNotifier struct {
	logger *zap.Logger
}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyPurchase(ctx context.Context, req *model.NotificationRequest) error {
	n.logger.Info("purchase notification",
		zap.String("id", req.ID.String()),
		zap.String("type", req.Type),
		zap.String("recipient", req.RecipientEmail),
		zap.Strings("seats", req.PurchaseData.Seats),
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
