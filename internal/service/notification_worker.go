// FILE: internal/service/notification_worker.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"job-board-be/internal/entity"
	"job-board-be/internal/model"
	"job-board-be/internal/pkg/logger"
	"job-board-be/internal/pkg/mailer"
	"job-board-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// INotificationWorker drains the notification topic: each message becomes
// an inbox row plus a best-effort email.
type INotificationWorker interface {
	Consume(ctx context.Context) error
}

type notificationWorker struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationWorker(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) INotificationWorker {
	return &notificationWorker{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
	}
}

func (w *notificationWorker) Consume(ctx context.Context) error {
	messages, err := w.pubSub.Subscribe(ctx, w.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			w.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (w *notificationWorker) processMessage(ctx context.Context, msg *message.Message) {
	var payload NotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		w.logger.Error("NOTIF_WORKER", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	title, body := renderNotification(payload)

	metaMap := map[string]interface{}{
		"subscription_id": payload.SubscriptionId.String(),
		"plan_name":       payload.PlanName,
	}
	if payload.Reason != "" {
		metaMap["reason"] = payload.Reason
	}
	if payload.DaysLeft > 0 {
		metaMap["days_left"] = payload.DaysLeft
	}
	metaJSON, _ := json.Marshal(metaMap)

	notif := &model.Notification{
		ID:        uuid.New(),
		UserID:    payload.UserId,
		TypeCode:  string(payload.Event),
		Title:     title,
		Message:   body,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	uow := w.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notif); err != nil {
		w.logger.Error("NOTIF_WORKER", "Failed to save notification", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	// Email delivery is best-effort: the inbox row is the durable record.
	if payload.UserEmail != "" {
		if err := w.sendEmail(payload); err != nil {
			w.logger.Warn("NOTIF_WORKER", "Failed to send email", map[string]interface{}{
				"user_id": payload.UserId.String(),
				"event":   string(payload.Event),
				"error":   err.Error(),
			})
		}
	}

	msg.Ack()
}

func (w *notificationWorker) sendEmail(payload NotificationMessage) error {
	endDate := ""
	if payload.EndDate != nil {
		endDate = payload.EndDate.Format("2 January 2006")
	}

	switch payload.Event {
	case entity.NotificationSubscriptionActivated:
		return w.emailService.SendSubscriptionActivated(payload.UserEmail, payload.PlanName, endDate)
	case entity.NotificationSubscriptionRejected:
		return w.emailService.SendSubscriptionRejected(payload.UserEmail, payload.PlanName, payload.Reason)
	case entity.NotificationSubscriptionExpiring:
		return w.emailService.SendExpiryReminder(payload.UserEmail, payload.PlanName, payload.DaysLeft, endDate)
	case entity.NotificationSubscriptionExpired:
		return w.emailService.SendSubscriptionExpired(payload.UserEmail, payload.PlanName)
	default:
		return fmt.Errorf("no email template for event %s", payload.Event)
	}
}

func renderNotification(payload NotificationMessage) (title, body string) {
	switch payload.Event {
	case entity.NotificationSubscriptionActivated:
		return "Subscription activated",
			fmt.Sprintf("Your %s plan is now active.", payload.PlanName)
	case entity.NotificationSubscriptionRejected:
		if payload.Reason != "" {
			return "Payment rejected",
				fmt.Sprintf("Your payment for the %s plan was rejected: %s.", payload.PlanName, payload.Reason)
		}
		return "Payment rejected",
			fmt.Sprintf("Your payment for the %s plan was rejected.", payload.PlanName)
	case entity.NotificationSubscriptionExpiring:
		dayWord := "days"
		if payload.DaysLeft == 1 {
			dayWord = "day"
		}
		return "Subscription expiring soon",
			fmt.Sprintf("Your %s plan expires in %d %s.", payload.PlanName, payload.DaysLeft, dayWord)
	case entity.NotificationSubscriptionExpired:
		return "Subscription expired",
			fmt.Sprintf("Your %s plan has expired.", payload.PlanName)
	default:
		return string(payload.Event), ""
	}
}
