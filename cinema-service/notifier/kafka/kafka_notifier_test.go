package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNotifyPurchase_WritesJSONKeyedByID(t *testing.T) {
	w := &recordingWriter{}
	n := NewKafkaNotifierWithWriter(w)

	req := &model.NotificationRequest{
		ID:             uuid.New(),
		Type:           model.NotificationTicketsPurchased,
		RecipientEmail: "neo@example.com",
		PurchaseData: model.NotificationPurchaseData{
			ShowtimeID:  3,
			MovieTitle:  "Inception",
			Seats:       []string{"1-1", "1-2"},
			TotalAmount: 600,
		},
	}
	require.NoError(t, n.NotifyPurchase(context.Background(), req))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, req.ID.String(), string(w.msgs[0].Key))

	var got model.NotificationRequest
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, []string{"1-1", "1-2"}, got.PurchaseData.Seats)
	assert.Equal(t, 600.0, got.PurchaseData.TotalAmount)

	require.NoError(t, n.Close())
	assert.True(t, w.closed)
}

func TestNotifyPurchase_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	n := NewKafkaNotifierWithWriter(&recordingWriter{err: boom})

	err := n.NotifyPurchase(context.Background(), &model.NotificationRequest{ID: uuid.New()})
	assert.ErrorIs(t, err, boom)
}
