// FILE: internal/service/notifier.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"job-board-be/internal/entity"
	"job-board-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// NotificationMessage is the payload pushed onto the notification topic.
// Everything the worker needs travels in the message so it never has to
// re-read the subscription row.
type NotificationMessage struct {
	Event          entity.NotificationEvent `json:"event"`
	UserId         uuid.UUID                `json:"user_id"`
	UserEmail      string                   `json:"user_email"`
	SubscriptionId uuid.UUID                `json:"subscription_id"`
	PlanName       string                   `json:"plan_name"`
	Reason         string                   `json:"reason,omitempty"`
	DaysLeft       int                      `json:"days_left,omitempty"`
	EndDate        *time.Time               `json:"end_date,omitempty"`
}

// INotifier dispatches lifecycle notifications. Implementations are
// fire-and-forget: Notify never blocks a state transition and never
// returns an error to the caller's business path.
type INotifier interface {
	Notify(ctx context.Context, msg NotificationMessage)
}

type watermillNotifier struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewWatermillNotifier(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) INotifier {
	return &watermillNotifier{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (n *watermillNotifier) Notify(ctx context.Context, msg NotificationMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("NOTIFIER", "Failed to marshal notification message", map[string]interface{}{
			"event": string(msg.Event),
			"error": err.Error(),
		})
		return
	}

	wmMsg := message.NewMessage(watermill.NewUUID(), payload)
	if err := n.pubSub.Publish(n.topicName, wmMsg); err != nil {
		// Notification loss is acceptable; state changes are not rolled back.
		n.logger.Warn("NOTIFIER", "Failed to publish notification", map[string]interface{}{
			"event":           string(msg.Event),
			"subscription_id": msg.SubscriptionId.String(),
			"error":           err.Error(),
		})
	}
}
