// FILE: internal/service/checkout_service.go
package service

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"
	"job-board-be/internal/gateway"
	"job-board-be/internal/lifecycle"
	"job-board-be/internal/repository/contract"
	"job-board-be/internal/repository/specification"
	"job-board-be/internal/repository/unitofwork"
	"job-board-be/pkg/events"
	pktNats "job-board-be/pkg/nats"

	"github.com/google/uuid"
)

type ICheckoutService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	UploadProof(ctx context.Context, userId uuid.UUID, req *dto.UploadProofRequest) error
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) error
}

type checkoutService struct {
	uowFactory     unitofwork.RepositoryFactory
	paymentGateway gateway.PaymentGateway
	eventPublisher *pktNats.Publisher
	bankName       string
	bankAccount    string
	bankHolder     string
	now            func() time.Time
}

func NewCheckoutService(
	uowFactory unitofwork.RepositoryFactory,
	paymentGateway gateway.PaymentGateway,
	eventPublisher *pktNats.Publisher,
	bankName, bankAccount, bankHolder string,
	now func() time.Time,
) ICheckoutService {
	if now == nil {
		now = time.Now
	}
	return &checkoutService{
		uowFactory:     uowFactory,
		paymentGateway: paymentGateway,
		eventPublisher: eventPublisher,
		bankName:       bankName,
		bankAccount:    bankAccount,
		bankHolder:     bankHolder,
		now:            now,
	}
}

// transferCode derives the three-digit disambiguation code baked into the
// bank transfer amount. It is a pure function of the subscription id so the
// instructions can be recomputed at any time.
func transferCode(id uuid.UUID) int64 {
	return 100 + int64(binary.BigEndian.Uint16(id[0:2]))%900
}

func (s *checkoutService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, lifecycle.NotFound("plan")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, lifecycle.NotFound("user")
	}

	// One purchase in flight per user: a live ACTIVE subscription blocks a
	// new checkout, and an open PENDING one is superseded by it. Without the
	// supersede a checkout whose gateway charge failed would lock the user
	// out forever, since nothing else clears a PENDING row.
	existing, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, sub := range existing {
		if sub.IsCurrentlyActive(now) {
			return nil, errors.New("an active subscription already exists, renewal opens when it ends")
		}
	}
	for _, sub := range existing {
		if sub.Status != entity.SubscriptionStatusPending {
			continue
		}
		if err := s.supersedePending(ctx, uow, sub, now); err != nil {
			return nil, err
		}
	}

	// The row is created PENDING before any gateway call so the order id
	// always resolves to a persisted record when the webhook arrives.
	subId := uuid.New()
	sub := &entity.Subscription{
		Id:            subId,
		UserId:        userId,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	res := &dto.CheckoutResponse{
		SubscriptionId: subId,
		PaymentMethod:  req.PaymentMethod,
	}

	switch entity.PaymentMethod(req.PaymentMethod) {
	case entity.PaymentMethodBankTransfer:
		res.TransferInstructions = &dto.TransferInstructions{
			BankName:      s.bankName,
			AccountNumber: s.bankAccount,
			AccountHolder: s.bankHolder,
			Amount:        int64(plan.Price) + transferCode(subId),
		}

	case entity.PaymentMethodMidtrans:
		charge, err := s.paymentGateway.Charge(ctx, &gateway.ChargeRequest{
			OrderId:       subId.String(),
			GrossAmount:   int64(plan.Price),
			CustomerName:  user.FullName,
			CustomerEmail: user.Email,
			ItemId:        plan.Id.String(),
			ItemName:      plan.Name,
		})
		if err != nil {
			// The PENDING row stays behind; the stale-pending sweep metric
			// surfaces checkouts that never got a charge.
			return nil, err
		}
		res.SnapToken = charge.Token
		res.SnapRedirectUrl = charge.RedirectURL

	default:
		return nil, errors.New("unsupported payment method")
	}

	s.publishCreated(ctx, user, plan, sub)
	return res, nil
}

// supersedePending cancels the user's earlier open checkout so the new one
// can proceed. If the old row gets activated concurrently (a settlement
// webhook landing mid-checkout) the new checkout is rejected instead.
func (s *checkoutService) supersedePending(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, now time.Time) error {
	next, rej := lifecycle.Apply(*sub, nil, lifecycle.EventReject, now)
	if rej != nil {
		return nil
	}

	err := uow.SubscriptionRepository().CompareAndUpdateSubscription(ctx,
		sub.Id, sub.Status, sub.PaymentStatus, &next)
	if errors.Is(err, contract.ErrConflict) {
		current, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: sub.Id})
		if err != nil {
			return err
		}
		if current != nil && current.IsCurrentlyActive(now) {
			return errors.New("an active subscription already exists, renewal opens when it ends")
		}
		return nil
	}
	return err
}

func (s *checkoutService) publishCreated(ctx context.Context, user *entity.User, plan *entity.SubscriptionPlan, sub *entity.Subscription) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: "SUBSCRIPTION_CREATED",
		Data: map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"user_id":         user.Id.String(),
			"plan_id":         plan.Id.String(),
			"plan_name":       plan.Name,
			"payment_method":  string(sub.PaymentMethod),
			"amount":          plan.Price,
			"currency":        "IDR",
		},
		OccurredAt: s.now(),
	}
	// Analytics only; the checkout does not fail on a bus outage.
	_ = s.eventPublisher.Publish(ctx, evt)
}

func (s *checkoutService) UploadProof(ctx context.Context, userId uuid.UUID, req *dto.UploadProofRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.ByID{ID: req.SubscriptionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return lifecycle.NotFound("subscription")
	}
	if sub.PaymentMethod != entity.PaymentMethodBankTransfer {
		return &lifecycle.Rejection{
			Reason:  lifecycle.ReasonWrongPaymentMethod,
			Message: "payment proof only applies to bank transfers",
		}
	}
	if sub.Status != entity.SubscriptionStatusPending {
		return &lifecycle.Rejection{
			Reason:  lifecycle.ReasonNotPending,
			Message: "proof can only be attached to a pending checkout",
		}
	}

	return uow.SubscriptionRepository().AttachPaymentProof(ctx, sub.Id, req.ProofUrl)
}

func (s *checkoutService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}

	// Prefer the currently active record; fall back to the most recent one.
	now := s.now()
	current := subs[0]
	for _, sub := range subs {
		if sub.IsCurrentlyActive(now) {
			current = sub
			break
		}
	}

	planName := ""
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: current.PlanId})
	if err != nil {
		return nil, err
	}
	if plan != nil {
		planName = plan.Name
	}

	return &dto.SubscriptionStatusResponse{
		Id:            current.Id,
		PlanId:        current.PlanId,
		PlanName:      planName,
		Status:        string(current.Status),
		PaymentStatus: string(current.PaymentStatus),
		PaymentMethod: string(current.PaymentMethod),
		StartDate:     current.StartDate,
		EndDate:       current.EndDate,
		IsActive:      current.IsCurrentlyActive(now),
	}, nil
}

func (s *checkoutService) CancelSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.ByID{ID: subscriptionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return lifecycle.NotFound("subscription")
	}

	next, rej := lifecycle.Apply(*sub, nil, lifecycle.EventUserCancel, s.now())
	if rej != nil {
		return rej
	}

	err = uow.SubscriptionRepository().CompareAndUpdateSubscription(ctx,
		sub.Id, sub.Status, sub.PaymentStatus, &next)
	if errors.Is(err, contract.ErrConflict) {
		// Someone else moved the record first (sweep or a second cancel);
		// the caller's intent is already satisfied or no longer applicable.
		return &lifecycle.Rejection{
			Reason:  lifecycle.ReasonNotPending,
			Message: "subscription changed concurrently, refresh and retry",
		}
	}
	return err
}
