package service

import (
	"context"
	"testing"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"
	"job-board-be/internal/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var approvalNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func seedBankTransferPending(store *fakeStore, withProof bool) (*entity.User, *entity.SubscriptionPlan, *entity.Subscription) {
	user := &entity.User{Id: uuid.New(), Email: "seeker@example.com", FullName: "Seeker"}
	store.users[user.Id] = user

	plan := &entity.SubscriptionPlan{
		Id:           uuid.New(),
		Name:         "Basic",
		Slug:         "basic",
		Price:        49000,
		DurationDays: 30,
		IsActive:     true,
	}
	store.plans[plan.Id] = plan

	sub := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        user.Id,
		PlanId:        plan.Id,
		Status:        entity.SubscriptionStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethodBankTransfer,
		CreatedAt:     approvalNow.Add(-time.Hour),
	}
	if withProof {
		proof := "https://cdn.example.com/proofs/tx.jpg"
		sub.PaymentProof = &proof
	}
	store.subs[sub.Id] = sub
	return user, plan, sub
}

func newApprovalService(store *fakeStore, notifier *recordingNotifier) IApprovalService {
	return NewApprovalService(store.factory(), notifier, nopLogger{}, func() time.Time { return approvalNow })
}

func TestApproveActivatesAndNotifies(t *testing.T) {
	store := newFakeStore()
	user, plan, sub := seedBankTransferPending(store, true)
	notifier := &recordingNotifier{}
	svc := newApprovalService(store, notifier)

	err := svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: sub.Id})
	assert.NoError(t, err)

	updated := store.subs[sub.Id]
	assert.Equal(t, entity.SubscriptionStatusActive, updated.Status)
	assert.Equal(t, entity.PaymentStatusCompleted, updated.PaymentStatus)
	assert.Equal(t, approvalNow, *updated.StartDate)
	assert.Equal(t, approvalNow.AddDate(0, 0, plan.DurationDays), *updated.EndDate)

	sent := notifier.byEvent(entity.NotificationSubscriptionActivated)
	assert.Len(t, sent, 1)
	assert.Equal(t, user.Id, sent[0].UserId)
	assert.Equal(t, user.Email, sent[0].UserEmail)
	assert.Equal(t, plan.Name, sent[0].PlanName)
}

func TestApproveWithoutProofRejected(t *testing.T) {
	store := newFakeStore()
	_, _, sub := seedBankTransferPending(store, false)
	notifier := &recordingNotifier{}
	svc := newApprovalService(store, notifier)

	err := svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: sub.Id})

	var rej *lifecycle.Rejection
	assert.ErrorAs(t, err, &rej)
	assert.Equal(t, lifecycle.ReasonProofMissing, rej.Reason)
	assert.Equal(t, entity.SubscriptionStatusPending, store.subs[sub.Id].Status)
	assert.Empty(t, notifier.messages)
}

func TestApproveIsIdempotent(t *testing.T) {
	store := newFakeStore()
	_, _, sub := seedBankTransferPending(store, true)
	notifier := &recordingNotifier{}
	svc := newApprovalService(store, notifier)

	assert.NoError(t, svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: sub.Id}))
	// Second approve sees ACTIVE and treats it as already done.
	assert.NoError(t, svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: sub.Id}))

	// Exactly one activation notification.
	assert.Len(t, notifier.byEvent(entity.NotificationSubscriptionActivated), 1)
}

func TestApproveRejectsGatewaySubscription(t *testing.T) {
	store := newFakeStore()
	_, _, sub := seedBankTransferPending(store, true)
	sub.PaymentMethod = entity.PaymentMethodMidtrans
	svc := newApprovalService(store, &recordingNotifier{})

	err := svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: sub.Id})

	var rej *lifecycle.Rejection
	assert.ErrorAs(t, err, &rej)
	assert.Equal(t, lifecycle.ReasonWrongPaymentMethod, rej.Reason)
}

func TestApproveMissingRecord(t *testing.T) {
	store := newFakeStore()
	svc := newApprovalService(store, &recordingNotifier{})

	err := svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: uuid.New()})

	var rej *lifecycle.Rejection
	assert.ErrorAs(t, err, &rej)
	assert.Equal(t, lifecycle.ReasonRecordNotFound, rej.Reason)
}

func TestRejectCancelsAndNotifies(t *testing.T) {
	store := newFakeStore()
	user, _, sub := seedBankTransferPending(store, true)
	notifier := &recordingNotifier{}
	svc := newApprovalService(store, notifier)

	err := svc.Reject(context.Background(), &dto.RejectSubscriptionRequest{
		SubscriptionId: sub.Id,
		Reason:         "amount does not match any order",
	})
	assert.NoError(t, err)

	updated := store.subs[sub.Id]
	assert.Equal(t, entity.SubscriptionStatusCancelled, updated.Status)
	assert.Equal(t, entity.PaymentStatusFailed, updated.PaymentStatus)

	sent := notifier.byEvent(entity.NotificationSubscriptionRejected)
	assert.Len(t, sent, 1)
	assert.Equal(t, user.Id, sent[0].UserId)
	assert.Equal(t, "amount does not match any order", sent[0].Reason)
}

func TestRejectSettledPurchase(t *testing.T) {
	store := newFakeStore()
	_, _, sub := seedBankTransferPending(store, true)
	svc := newApprovalService(store, &recordingNotifier{})

	assert.NoError(t, svc.Approve(context.Background(), &dto.ApproveSubscriptionRequest{SubscriptionId: sub.Id}))

	err := svc.Reject(context.Background(), &dto.RejectSubscriptionRequest{
		SubscriptionId: sub.Id,
		Reason:         "changed my mind",
	})

	var rej *lifecycle.Rejection
	assert.ErrorAs(t, err, &rej)
	assert.Equal(t, lifecycle.ReasonAlreadySettled, rej.Reason)
	assert.Equal(t, entity.SubscriptionStatusActive, store.subs[sub.Id].Status)
}

func TestRejectRejectsGatewaySubscription(t *testing.T) {
	store := newFakeStore()
	_, _, sub := seedBankTransferPending(store, true)
	sub.PaymentMethod = entity.PaymentMethodMidtrans
	notifier := &recordingNotifier{}
	svc := newApprovalService(store, notifier)

	err := svc.Reject(context.Background(), &dto.RejectSubscriptionRequest{
		SubscriptionId: sub.Id,
		Reason:         "suspicious order",
	})

	var rej *lifecycle.Rejection
	assert.ErrorAs(t, err, &rej)
	assert.Equal(t, lifecycle.ReasonWrongPaymentMethod, rej.Reason)
	// The order stays with the gateway; a later settlement can still land.
	assert.Equal(t, entity.SubscriptionStatusPending, store.subs[sub.Id].Status)
	assert.Empty(t, notifier.messages)
}

func TestListPending(t *testing.T) {
	store := newFakeStore()
	user, plan, sub := seedBankTransferPending(store, true)
	svc := newApprovalService(store, &recordingNotifier{})

	res, err := svc.ListPending(context.Background(), 20, 0)
	assert.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, sub.Id, res[0].Id)
	assert.Equal(t, user.Email, res[0].UserEmail)
	assert.Equal(t, plan.Name, res[0].PlanName)
	assert.NotNil(t, res[0].PaymentProof)
}
