package notifier

import (
	"context"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
)

// Notifier publishes purchase notifications for the notification worker.
type Notifier interface {
	NotifyPurchase(ctx context.Context, req *model.NotificationRequest) error
	Close() error
}
