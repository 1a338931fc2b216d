// FILE: internal/service/webhook_service.go
package service

import (
	"context"
	"errors"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"
	"job-board-be/internal/gateway"
	"job-board-be/internal/lifecycle"
	"job-board-be/internal/pkg/logger"
	"job-board-be/internal/repository/contract"
	"job-board-be/internal/repository/specification"
	"job-board-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ErrInvalidSignature marks a callback whose signature does not match. The
// payload is discarded; the transport still acknowledges it to the gateway.
var ErrInvalidSignature = errors.New("invalid webhook signature")

type IWebhookService interface {
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type webhookService struct {
	uowFactory     unitofwork.RepositoryFactory
	paymentGateway gateway.PaymentGateway
	notifier       INotifier
	logger         logger.ILogger
	now            func() time.Time
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	paymentGateway gateway.PaymentGateway,
	notifier INotifier,
	log logger.ILogger,
	now func() time.Time,
) IWebhookService {
	if now == nil {
		now = time.Now
	}
	return &webhookService{
		uowFactory:     uowFactory,
		paymentGateway: paymentGateway,
		notifier:       notifier,
		logger:         log,
		now:            now,
	}
}

// HandleNotification processes a gateway callback. Business rejections and
// unknown statuses return nil: the gateway retries on non-2xx and retrying
// them would never succeed. Only infrastructure errors propagate.
func (s *webhookService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if !s.paymentGateway.VerifySignature(req.OrderId, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		s.logger.Warn("WEBHOOK", "Signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return ErrInvalidSignature
	}

	subId, err := uuid.Parse(req.OrderId)
	if err != nil {
		s.logger.Warn("WEBHOOK", "Order id is not a subscription id", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return nil
	}

	var event lifecycle.Event
	switch req.TransactionStatus {
	case "capture":
		if req.FraudStatus != "" && req.FraudStatus != "accept" {
			s.logger.Warn("WEBHOOK", "Capture held by fraud check", map[string]interface{}{
				"order_id":     req.OrderId,
				"fraud_status": req.FraudStatus,
			})
			return nil
		}
		event = lifecycle.EventPaymentVerified
	case "settlement":
		event = lifecycle.EventPaymentVerified
	case "deny", "cancel", "expire":
		event = lifecycle.EventReject
	case "pending":
		return nil
	default:
		s.logger.Info("WEBHOOK", "Ignoring unknown transaction status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subId})
	if err != nil {
		return err
	}
	if sub == nil {
		s.logger.Warn("WEBHOOK", "Subscription not found", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return nil
	}
	if sub.PaymentMethod != entity.PaymentMethodMidtrans {
		s.logger.Warn("WEBHOOK", "Callback for non-gateway subscription", map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"payment_method":  string(sub.PaymentMethod),
		})
		return nil
	}

	var plan *entity.SubscriptionPlan
	if event == lifecycle.EventPaymentVerified {
		plan, err = uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
		if err != nil {
			return err
		}
	}

	next, rej := lifecycle.Apply(*sub, plan, event, s.now())
	if rej != nil {
		// Replayed callback against an already moved record. Ack and drop.
		s.logger.Info("WEBHOOK", "Transition rejected, acknowledging", map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"event":           string(event),
			"reason":          string(rej.Reason),
		})
		return nil
	}

	err = uow.SubscriptionRepository().CompareAndUpdateSubscription(ctx,
		sub.Id, sub.Status, sub.PaymentStatus, &next)
	if errors.Is(err, contract.ErrConflict) {
		// A concurrent writer already applied an equivalent or newer change.
		s.logger.Info("WEBHOOK", "Lost compare-and-set race, acknowledging", map[string]interface{}{
			"subscription_id": sub.Id.String(),
		})
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("WEBHOOK", "Subscription updated from gateway callback", map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"from":            string(sub.Status),
		"to":              string(next.Status),
	})

	s.notifyOutcome(ctx, uow, &next, plan, event, req.TransactionStatus)
	return nil
}

func (s *webhookService) notifyOutcome(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sub *entity.Subscription,
	plan *entity.SubscriptionPlan,
	event lifecycle.Event,
	transactionStatus string,
) {
	if s.notifier == nil {
		return
	}

	msg := NotificationMessage{
		UserId:         sub.UserId,
		SubscriptionId: sub.Id,
		EndDate:        sub.EndDate,
	}
	switch event {
	case lifecycle.EventPaymentVerified:
		msg.Event = entity.NotificationSubscriptionActivated
	case lifecycle.EventReject:
		msg.Event = entity.NotificationSubscriptionRejected
		msg.Reason = "payment " + transactionStatus
	default:
		return
	}

	if plan == nil {
		plan, _ = uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	}
	if plan != nil {
		msg.PlanName = plan.Name
	}
	if user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId}); err == nil && user != nil {
		msg.UserEmail = user.Email
	}

	s.notifier.Notify(ctx, msg)
}
