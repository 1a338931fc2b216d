package contract

import (
	"context"
	"errors"
	"time"

	"job-board-be/internal/entity"
	"job-board-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrConflict is returned by CompareAndUpdateSubscription when the record no
// longer matches the expected status pair — a concurrent writer won the race.
// Callers usually treat it as idempotent success after a re-read.
var ErrConflict = errors.New("subscription was modified concurrently")

type SubscriptionRepository interface {
	// Plans (admin-managed catalog; the engine only reads)
	CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, subscription *entity.Subscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	CountSubscriptions(ctx context.Context, specs ...specification.Specification) (int64, error)

	// CompareAndUpdateSubscription persists updated only if the stored row
	// still carries the expected status/paymentStatus pair (conditional
	// UPDATE, checked via rows affected). Returns ErrConflict otherwise.
	// This is the sole write path for status fields.
	CompareAndUpdateSubscription(
		ctx context.Context,
		id uuid.UUID,
		expectedStatus entity.SubscriptionStatus,
		expectedPaymentStatus entity.PaymentStatus,
		updated *entity.Subscription,
	) error

	// AttachPaymentProof records an uploaded bank-transfer proof on a PENDING
	// subscription without touching the status pair.
	AttachPaymentProof(ctx context.Context, id uuid.UUID, proof string) error

	// Sweep queries
	FindActiveExpiringBefore(ctx context.Context, moment time.Time) ([]*entity.Subscription, error)
	FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error)
}
