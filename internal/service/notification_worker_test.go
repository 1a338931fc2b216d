package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"job-board-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingEmailService struct {
	mu        sync.Mutex
	activated []string
	rejected  []string
	reminders []int
	expired   []string
}

func (s *recordingEmailService) SendSubscriptionActivated(to, planName, endDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activated = append(s.activated, to)
	return nil
}

func (s *recordingEmailService) SendSubscriptionRejected(to, planName, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected = append(s.rejected, to)
	return nil
}

func (s *recordingEmailService) SendExpiryReminder(to, planName string, daysLeft int, endDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = append(s.reminders, daysLeft)
	return nil
}

func (s *recordingEmailService) SendSubscriptionExpired(to, planName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, to)
	return nil
}

func (s *recordingEmailService) activatedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activated)
}

func TestNotificationWorkerConsumesPublishedMessages(t *testing.T) {
	store := newFakeStore()
	emails := &recordingEmailService{}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	const topic = "subscription_notifications_test"
	worker := NewNotificationWorker(pubSub, topic, store.factory(), emails, nopLogger{})
	notifier := NewWatermillNotifier(pubSub, topic, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, worker.Consume(ctx))

	userId := uuid.New()
	end := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	notifier.Notify(ctx, NotificationMessage{
		Event:          entity.NotificationSubscriptionActivated,
		UserId:         userId,
		UserEmail:      "seeker@example.com",
		SubscriptionId: uuid.New(),
		PlanName:       "Professional",
		EndDate:        &end,
	})

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.notifs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	store.mu.Lock()
	notif := store.notifs[0]
	store.mu.Unlock()

	assert.Equal(t, userId, notif.UserID)
	assert.Equal(t, string(entity.NotificationSubscriptionActivated), notif.TypeCode)
	assert.Equal(t, "Subscription activated", notif.Title)
	assert.False(t, notif.IsRead)

	assert.Eventually(t, func() bool {
		return emails.activatedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationWorkerSkipsEmailWithoutAddress(t *testing.T) {
	store := newFakeStore()
	emails := &recordingEmailService{}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	const topic = "subscription_notifications_noemail"
	worker := NewNotificationWorker(pubSub, topic, store.factory(), emails, nopLogger{})
	notifier := NewWatermillNotifier(pubSub, topic, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, worker.Consume(ctx))

	notifier.Notify(ctx, NotificationMessage{
		Event:          entity.NotificationSubscriptionExpired,
		UserId:         uuid.New(),
		SubscriptionId: uuid.New(),
		PlanName:       "Basic",
	})

	// The inbox row lands even though no email goes out.
	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.notifs) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, emails.activatedCount())
}

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		name      string
		msg       NotificationMessage
		wantTitle string
		wantBody  string
	}{
		{
			name:      "activated",
			msg:       NotificationMessage{Event: entity.NotificationSubscriptionActivated, PlanName: "Professional"},
			wantTitle: "Subscription activated",
			wantBody:  "Your Professional plan is now active.",
		},
		{
			name:      "rejected with reason",
			msg:       NotificationMessage{Event: entity.NotificationSubscriptionRejected, PlanName: "Basic", Reason: "amount mismatch"},
			wantTitle: "Payment rejected",
			wantBody:  "Your payment for the Basic plan was rejected: amount mismatch.",
		},
		{
			name:      "expiring singular day",
			msg:       NotificationMessage{Event: entity.NotificationSubscriptionExpiring, PlanName: "Basic", DaysLeft: 1},
			wantTitle: "Subscription expiring soon",
			wantBody:  "Your Basic plan expires in 1 day.",
		},
		{
			name:      "expired",
			msg:       NotificationMessage{Event: entity.NotificationSubscriptionExpired, PlanName: "Basic"},
			wantTitle: "Subscription expired",
			wantBody:  "Your Basic plan has expired.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := renderNotification(tt.msg)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
