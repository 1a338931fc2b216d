package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var checkoutNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return checkoutNow }

func seedUserAndPlan(store *fakeStore) (*entity.User, *entity.SubscriptionPlan) {
	user := &entity.User{
		Id:       uuid.New(),
		Email:    "jobseeker@example.com",
		FullName: "Job Seeker",
		Role:     "user",
	}
	store.users[user.Id] = user

	plan := &entity.SubscriptionPlan{
		Id:           uuid.New(),
		Name:         "Professional",
		Slug:         "professional",
		Price:        99000,
		DurationDays: 30,
		IsActive:     true,
		SortOrder:    1,
	}
	store.plans[plan.Id] = plan
	return user, plan
}

func newCheckoutService(store *fakeStore, gw *fakeGateway) ICheckoutService {
	return NewCheckoutService(store.factory(), gw, nil, "BCA", "1234567890", "PT Job Board", fixedNow)
}

func TestCheckoutGateway(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	gw := &fakeGateway{}
	svc := newCheckoutService(store, gw)

	res, err := svc.Checkout(context.Background(), user.Id, &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodMidtrans),
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.SnapToken)
	assert.NotEmpty(t, res.SnapRedirectUrl)
	assert.Nil(t, res.TransferInstructions)

	// The row must exist as PENDING before the charge call resolved.
	sub := store.subs[res.SubscriptionId]
	assert.NotNil(t, sub)
	assert.Equal(t, entity.SubscriptionStatusPending, sub.Status)
	assert.Equal(t, entity.PaymentStatusPending, sub.PaymentStatus)
	assert.Nil(t, sub.StartDate)

	assert.Equal(t, 1, gw.chargeCalls)
	assert.Equal(t, res.SubscriptionId.String(), gw.lastCharge.OrderId)
	assert.Equal(t, int64(99000), gw.lastCharge.GrossAmount)
}

func TestCheckoutBankTransfer(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	gw := &fakeGateway{}
	svc := newCheckoutService(store, gw)

	res, err := svc.Checkout(context.Background(), user.Id, &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodBankTransfer),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, gw.chargeCalls)
	assert.NotNil(t, res.TransferInstructions)
	assert.Equal(t, "BCA", res.TransferInstructions.BankName)

	// Amount = plan price + three-digit disambiguation code.
	diff := res.TransferInstructions.Amount - int64(plan.Price)
	assert.GreaterOrEqual(t, diff, int64(100))
	assert.LessOrEqual(t, diff, int64(999))

	// The code is stable for a given subscription.
	assert.Equal(t, res.TransferInstructions.Amount, int64(plan.Price)+transferCode(res.SubscriptionId))
}

func TestCheckoutSupersedesOpenCheckout(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	svc := newCheckoutService(store, &fakeGateway{})

	req := &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodBankTransfer),
	}

	first, err := svc.Checkout(context.Background(), user.Id, req)
	assert.NoError(t, err)

	second, err := svc.Checkout(context.Background(), user.Id, req)
	assert.NoError(t, err)
	assert.NotEqual(t, first.SubscriptionId, second.SubscriptionId)

	// The abandoned checkout is closed out, not left dangling.
	old := store.subs[first.SubscriptionId]
	assert.Equal(t, entity.SubscriptionStatusCancelled, old.Status)
	assert.Equal(t, entity.PaymentStatusFailed, old.PaymentStatus)
	assert.Equal(t, entity.SubscriptionStatusPending, store.subs[second.SubscriptionId].Status)
}

func TestCheckoutRetriesAfterChargeFailure(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	gw := &fakeGateway{chargeErr: errors.New("gateway unavailable")}
	svc := newCheckoutService(store, gw)

	req := &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodMidtrans),
	}

	_, err := svc.Checkout(context.Background(), user.Id, req)
	assert.Error(t, err)

	// The gateway recovers; the stale PENDING row from the failed charge
	// must not block the retry.
	gw.chargeErr = nil
	res, err := svc.Checkout(context.Background(), user.Id, req)
	assert.NoError(t, err)
	assert.NotEmpty(t, res.SnapToken)

	pending := 0
	for _, sub := range store.subs {
		if sub.Status == entity.SubscriptionStatusPending {
			pending++
		}
	}
	assert.Equal(t, 1, pending)
}

func TestCheckoutRejectsWhileActive(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	svc := newCheckoutService(store, &fakeGateway{})

	start := checkoutNow.AddDate(0, 0, -5)
	end := checkoutNow.AddDate(0, 0, 25)
	active := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        user.Id,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusActive,
		PaymentStatus: entity.PaymentStatusCompleted,
		PaymentMethod: entity.PaymentMethodMidtrans,
		StartDate:     &start,
		EndDate:       &end,
		CreatedAt:     start,
	}
	store.subs[active.Id] = active

	_, err := svc.Checkout(context.Background(), user.Id, &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodMidtrans),
	})
	assert.Error(t, err)
}

func TestCheckoutChargeFailureKeepsPendingRow(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	gw := &fakeGateway{chargeErr: errors.New("gateway unavailable")}
	svc := newCheckoutService(store, gw)

	_, err := svc.Checkout(context.Background(), user.Id, &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodMidtrans),
	})

	assert.Error(t, err)
	// The PENDING row survives the failed charge; the sweep metric
	// accounts for it later.
	assert.Equal(t, 1, len(store.subs))
	for _, sub := range store.subs {
		assert.Equal(t, entity.SubscriptionStatusPending, sub.Status)
	}
}

func TestUploadProof(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	svc := newCheckoutService(store, &fakeGateway{})

	res, err := svc.Checkout(context.Background(), user.Id, &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodBankTransfer),
	})
	assert.NoError(t, err)

	err = svc.UploadProof(context.Background(), user.Id, &dto.UploadProofRequest{
		SubscriptionId: res.SubscriptionId,
		ProofUrl:       "https://cdn.example.com/proofs/tx.jpg",
	})
	assert.NoError(t, err)
	assert.NotNil(t, store.subs[res.SubscriptionId].PaymentProof)
}

func TestUploadProofRejectsGatewayMethod(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	svc := newCheckoutService(store, &fakeGateway{})

	res, err := svc.Checkout(context.Background(), user.Id, &dto.CheckoutRequest{
		PlanId:        plan.Id,
		PaymentMethod: string(entity.PaymentMethodMidtrans),
	})
	assert.NoError(t, err)

	err = svc.UploadProof(context.Background(), user.Id, &dto.UploadProofRequest{
		SubscriptionId: res.SubscriptionId,
		ProofUrl:       "https://cdn.example.com/proofs/tx.jpg",
	})
	assert.Error(t, err)
}

func TestCancelSubscription(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	svc := newCheckoutService(store, &fakeGateway{})

	start := checkoutNow.AddDate(0, 0, -5)
	end := checkoutNow.AddDate(0, 0, 25)
	active := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        user.Id,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusActive,
		PaymentStatus: entity.PaymentStatusCompleted,
		PaymentMethod: entity.PaymentMethodMidtrans,
		StartDate:     &start,
		EndDate:       &end,
		CreatedAt:     start,
	}
	store.subs[active.Id] = active

	err := svc.CancelSubscription(context.Background(), user.Id, active.Id)
	assert.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusCancelled, store.subs[active.Id].Status)
	// The purchase stays settled.
	assert.Equal(t, entity.PaymentStatusCompleted, store.subs[active.Id].PaymentStatus)
}

func TestGetSubscriptionStatusPrefersActive(t *testing.T) {
	store := newFakeStore()
	user, plan := seedUserAndPlan(store)
	svc := newCheckoutService(store, &fakeGateway{})

	// Older expired record.
	oldStart := checkoutNow.AddDate(0, -3, 0)
	oldEnd := checkoutNow.AddDate(0, -2, 0)
	expired := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        user.Id,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusExpired,
		PaymentStatus: entity.PaymentStatusCompleted,
		PaymentMethod: entity.PaymentMethodMidtrans,
		StartDate:     &oldStart,
		EndDate:       &oldEnd,
		CreatedAt:     oldStart,
	}
	store.subs[expired.Id] = expired

	start := checkoutNow.AddDate(0, 0, -5)
	end := checkoutNow.AddDate(0, 0, 25)
	active := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        user.Id,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusActive,
		PaymentStatus: entity.PaymentStatusCompleted,
		PaymentMethod: entity.PaymentMethodMidtrans,
		StartDate:     &start,
		EndDate:       &end,
		CreatedAt:     start,
	}
	store.subs[active.Id] = active

	res, err := svc.GetSubscriptionStatus(context.Background(), user.Id)
	assert.NoError(t, err)
	assert.Equal(t, active.Id, res.Id)
	assert.Equal(t, "ACTIVE", res.Status)
	assert.True(t, res.IsActive)
	assert.Equal(t, plan.Name, res.PlanName)
}
