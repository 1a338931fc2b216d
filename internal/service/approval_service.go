// FILE: internal/service/approval_service.go
package service

import (
	"context"
	"errors"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"
	"job-board-be/internal/lifecycle"
	"job-board-be/internal/pkg/logger"
	"job-board-be/internal/repository/contract"
	"job-board-be/internal/repository/specification"
	"job-board-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IApprovalService is the admin-facing half of the bank transfer flow:
// list what is waiting, then approve or reject each checkout.
type IApprovalService interface {
	ListPending(ctx context.Context, limit, offset int) ([]*dto.PendingSubscriptionResponse, error)
	Approve(ctx context.Context, req *dto.ApproveSubscriptionRequest) error
	Reject(ctx context.Context, req *dto.RejectSubscriptionRequest) error
}

type approvalService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   INotifier
	logger     logger.ILogger
	now        func() time.Time
}

func NewApprovalService(
	uowFactory unitofwork.RepositoryFactory,
	notifier INotifier,
	log logger.ILogger,
	now func() time.Time,
) IApprovalService {
	if now == nil {
		now = time.Now
	}
	return &approvalService{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     log,
		now:        now,
	}
}

func (s *approvalService) ListPending(ctx context.Context, limit, offset int) ([]*dto.PendingSubscriptionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusPending)},
		specification.Filter("payment_method", string(entity.PaymentMethodBankTransfer)),
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PendingSubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		item := &dto.PendingSubscriptionResponse{
			Id:            sub.Id,
			UserId:        sub.UserId,
			PaymentMethod: string(sub.PaymentMethod),
			PaymentProof:  sub.PaymentProof,
			CreatedAt:     sub.CreatedAt,
		}

		if user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId}); err == nil && user != nil {
			item.UserEmail = user.Email
		}
		if plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId}); err == nil && plan != nil {
			item.PlanName = plan.Name
		}

		result = append(result, item)
	}
	return result, nil
}

func (s *approvalService) Approve(ctx context.Context, req *dto.ApproveSubscriptionRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: req.SubscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		return lifecycle.NotFound("subscription")
	}
	if sub.PaymentMethod != entity.PaymentMethodBankTransfer {
		return &lifecycle.Rejection{
			Reason:  lifecycle.ReasonWrongPaymentMethod,
			Message: "only bank transfers are approved manually",
		}
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return err
	}

	next, rej := lifecycle.Apply(*sub, plan, lifecycle.EventPaymentVerified, s.now())
	if rej != nil {
		if rej.Reason == lifecycle.ReasonNotPending && sub.Status == entity.SubscriptionStatusActive {
			// Double-click or concurrent webhook already activated it.
			return nil
		}
		return rej
	}

	err = uow.SubscriptionRepository().CompareAndUpdateSubscription(ctx,
		sub.Id, sub.Status, sub.PaymentStatus, &next)
	if errors.Is(err, contract.ErrConflict) {
		return s.resolveApproveConflict(ctx, uow, sub.Id)
	}
	if err != nil {
		return err
	}

	s.logger.Info("APPROVAL", "Subscription approved", map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"user_id":         sub.UserId.String(),
	})

	s.notifyOutcome(ctx, uow, &next, plan, entity.NotificationSubscriptionActivated, "")
	return nil
}

// resolveApproveConflict re-reads a record after a lost compare-and-set race.
// If the other writer activated it, the admin's intent is already satisfied.
func (s *approvalService) resolveApproveConflict(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) error {
	current, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if current != nil && current.Status == entity.SubscriptionStatusActive {
		return nil
	}
	return &lifecycle.Rejection{
		Reason:  lifecycle.ReasonNotPending,
		Message: "subscription changed concurrently, refresh and retry",
	}
}

func (s *approvalService) Reject(ctx context.Context, req *dto.RejectSubscriptionRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: req.SubscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		return lifecycle.NotFound("subscription")
	}
	if sub.PaymentMethod != entity.PaymentMethodBankTransfer {
		// Gateway orders settle through the webhook; cancelling one here
		// could race its settlement and strand a charged user.
		return &lifecycle.Rejection{
			Reason:  lifecycle.ReasonWrongPaymentMethod,
			Message: "only bank transfers are rejected manually",
		}
	}

	next, rej := lifecycle.Apply(*sub, nil, lifecycle.EventReject, s.now())
	if rej != nil {
		return rej
	}

	err = uow.SubscriptionRepository().CompareAndUpdateSubscription(ctx,
		sub.Id, sub.Status, sub.PaymentStatus, &next)
	if errors.Is(err, contract.ErrConflict) {
		return &lifecycle.Rejection{
			Reason:  lifecycle.ReasonNotPending,
			Message: "subscription changed concurrently, refresh and retry",
		}
	}
	if err != nil {
		return err
	}

	s.logger.Info("APPROVAL", "Subscription rejected", map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"reason":          req.Reason,
	})

	plan, _ := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	s.notifyOutcome(ctx, uow, &next, plan, entity.NotificationSubscriptionRejected, req.Reason)
	return nil
}

func (s *approvalService) notifyOutcome(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sub *entity.Subscription,
	plan *entity.SubscriptionPlan,
	event entity.NotificationEvent,
	reason string,
) {
	if s.notifier == nil {
		return
	}

	msg := NotificationMessage{
		Event:          event,
		UserId:         sub.UserId,
		SubscriptionId: sub.Id,
		Reason:         reason,
		EndDate:        sub.EndDate,
	}
	if plan != nil {
		msg.PlanName = plan.Name
	}
	if user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId}); err == nil && user != nil {
		msg.UserEmail = user.Email
	}

	s.notifier.Notify(ctx, msg)
}
