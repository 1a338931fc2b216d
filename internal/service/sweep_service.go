// FILE: internal/service/sweep_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"
	"job-board-be/internal/lifecycle"
	"job-board-be/internal/pkg/logger"
	"job-board-be/internal/repository/contract"
	"job-board-be/internal/repository/specification"
	"job-board-be/internal/repository/unitofwork"

	"github.com/redis/go-redis/v9"
)

// reminderDays are the checkpoints before expiry at which users get a
// heads-up email. Each bucket is one day wide so a daily run hits each
// subscription exactly once per checkpoint.
var reminderDays = []int{7, 3, 1}

// ISweepService runs the periodic reconciliation pass: expire overdue
// subscriptions, send expiry reminders, and report lifecycle stats.
// The pass is idempotent; running it twice in a row changes nothing.
type ISweepService interface {
	Run(ctx context.Context) (*dto.SweepReport, error)
}

type sweepService struct {
	uowFactory       unitofwork.RepositoryFactory
	notifier         INotifier
	redisClient      *redis.Client
	logger           logger.ILogger
	stalePendingDays int
	now              func() time.Time
}

func NewSweepService(
	uowFactory unitofwork.RepositoryFactory,
	notifier INotifier,
	redisClient *redis.Client,
	log logger.ILogger,
	stalePendingDays int,
	now func() time.Time,
) ISweepService {
	if now == nil {
		now = time.Now
	}
	if stalePendingDays <= 0 {
		stalePendingDays = 3
	}
	return &sweepService{
		uowFactory:       uowFactory,
		notifier:         notifier,
		redisClient:      redisClient,
		logger:           log,
		stalePendingDays: stalePendingDays,
		now:              now,
	}
}

func (s *sweepService) Run(ctx context.Context) (*dto.SweepReport, error) {
	started := s.now()
	report := &dto.SweepReport{}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	s.expirePass(ctx, uow, started, report)
	s.reminderPass(ctx, uow, started, report)

	if err := s.collectStats(ctx, uow, started, report); err != nil {
		return nil, err
	}

	report.DurationMs = time.Since(started).Milliseconds()
	s.logger.Info("SWEEP", "Reconciliation pass finished", map[string]interface{}{
		"expired":           report.ExpiredCount,
		"reminded":          report.RemindedCount,
		"failed":            report.FailedCount,
		"stale_pending_old": report.StalePendingOld,
		"duration_ms":       report.DurationMs,
	})
	return report, nil
}

// expirePass moves every ACTIVE subscription with a passed end date to
// EXPIRED. One bad record never aborts the pass.
func (s *sweepService) expirePass(ctx context.Context, uow unitofwork.UnitOfWork, now time.Time, report *dto.SweepReport) {
	overdue, err := uow.SubscriptionRepository().FindActiveExpiringBefore(ctx, now)
	if err != nil {
		s.logger.Error("SWEEP", "Failed to list overdue subscriptions", map[string]interface{}{
			"error": err.Error(),
		})
		report.FailedCount++
		return
	}

	for _, sub := range overdue {
		next, rej := lifecycle.Apply(*sub, nil, lifecycle.EventSweepExpire, now)
		if rej != nil {
			// The query already narrowed to expirable records; a rejection
			// here means the row moved between read and apply.
			continue
		}
		if next.Status == sub.Status {
			continue
		}

		err := uow.SubscriptionRepository().CompareAndUpdateSubscription(ctx,
			sub.Id, sub.Status, sub.PaymentStatus, &next)
		if errors.Is(err, contract.ErrConflict) {
			// Another sweep instance or a user cancel got there first.
			continue
		}
		if err != nil {
			s.logger.Error("SWEEP", "Failed to expire subscription", map[string]interface{}{
				"subscription_id": sub.Id.String(),
				"error":           err.Error(),
			})
			report.FailedCount++
			continue
		}

		report.ExpiredCount++
		s.notifySweep(ctx, uow, &next, entity.NotificationSubscriptionExpired, 0)
	}
}

// reminderPass emails users whose ACTIVE subscription ends in 7, 3 or 1
// days. Redis SETNX deduplicates across overlapping runs; when Redis is
// down the reminder is sent anyway, a duplicate email being the lesser
// failure mode than a silent miss.
func (s *sweepService) reminderPass(ctx context.Context, uow unitofwork.UnitOfWork, now time.Time, report *dto.SweepReport) {
	for _, days := range reminderDays {
		from := now.AddDate(0, 0, days).Truncate(24 * time.Hour)
		to := from.Add(24 * time.Hour)

		ending, err := uow.SubscriptionRepository().FindActiveEndingBetween(ctx, from, to)
		if err != nil {
			s.logger.Error("SWEEP", "Failed to list expiring subscriptions", map[string]interface{}{
				"days_left": days,
				"error":     err.Error(),
			})
			report.FailedCount++
			continue
		}

		for _, sub := range ending {
			if !s.claimReminder(ctx, sub.Id.String(), days) {
				continue
			}

			report.RemindedCount++
			s.notifySweep(ctx, uow, sub, entity.NotificationSubscriptionExpiring, days)
		}
	}
}

func (s *sweepService) claimReminder(ctx context.Context, subId string, days int) bool {
	if s.redisClient == nil {
		return true
	}

	key := fmt.Sprintf("sweep:reminder:%s:%d", subId, days)
	ok, err := s.redisClient.SetNX(ctx, key, 1, 48*time.Hour).Result()
	if err != nil {
		s.logger.Warn("SWEEP", "Reminder dedup unavailable, sending anyway", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return true
	}
	return ok
}

func (s *sweepService) collectStats(ctx context.Context, uow unitofwork.UnitOfWork, now time.Time, report *dto.SweepReport) error {
	repo := uow.SubscriptionRepository()

	counts := []struct {
		status entity.SubscriptionStatus
		target *int64
	}{
		{entity.SubscriptionStatusActive, &report.Stats.Active},
		{entity.SubscriptionStatusPending, &report.Stats.Pending},
		{entity.SubscriptionStatusCancelled, &report.Stats.Cancelled},
		{entity.SubscriptionStatusExpired, &report.Stats.Expired},
	}
	for _, c := range counts {
		n, err := repo.CountSubscriptions(ctx, specification.StatusIs{Status: string(c.status)})
		if err != nil {
			return err
		}
		*c.target = n
	}

	// Checkouts that never completed payment past the grace window. Metric
	// only: PENDING records are never auto-cancelled.
	stale, err := repo.CountSubscriptions(ctx,
		specification.StatusIs{Status: string(entity.SubscriptionStatusPending)},
		specification.CreatedBefore{Moment: now.AddDate(0, 0, -s.stalePendingDays)},
	)
	if err != nil {
		return err
	}
	report.StalePendingOld = stale
	return nil
}

func (s *sweepService) notifySweep(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription, event entity.NotificationEvent, daysLeft int) {
	if s.notifier == nil {
		return
	}

	msg := NotificationMessage{
		Event:          event,
		UserId:         sub.UserId,
		SubscriptionId: sub.Id,
		DaysLeft:       daysLeft,
		EndDate:        sub.EndDate,
	}
	if plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId}); err == nil && plan != nil {
		msg.PlanName = plan.Name
	}
	if user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId}); err == nil && user != nil {
		msg.UserEmail = user.Email
	}

	s.notifier.Notify(ctx, msg)
}
