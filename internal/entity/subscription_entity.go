// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type PaymentStatus string
type PaymentMethod string

// The status labels are a persisted contract: admin reports and UI badges
// match on these exact strings. Do not rename.
const (
	SubscriptionStatusPending   SubscriptionStatus = "PENDING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"

	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"

	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMidtrans     PaymentMethod = "MIDTRANS"
)

// AssessmentQuotaUnlimited marks a plan with no skill-assessment cap.
const AssessmentQuotaUnlimited = -1

// SubscriptionPlan is an immutable catalog entity managed by administrators.
// The engine reads plans but never mutates them.
type SubscriptionPlan struct {
	Id           uuid.UUID
	Name         string
	Slug         string
	Description  string
	Price        float64 // IDR
	DurationDays int
	// Feature entitlements
	CvGeneratorEnabled bool
	AssessmentQuota    int // -1 = unlimited
	PriorityReview     bool
	// Display Settings
	IsActive  bool
	SortOrder int
}

// Subscription is the central mutable record of the lifecycle engine.
// Status fields are only ever written through lifecycle.Apply followed by a
// compare-and-set update; see internal/lifecycle.
type Subscription struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	PlanId        uuid.UUID
	Status        SubscriptionStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod // immutable after creation
	PaymentProof  *string       // upload reference, BANK_TRANSFER only
	StartDate     *time.Time    // nil until activation
	EndDate       *time.Time    // nil until activation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCurrentlyActive reports whether the subscription grants access at t.
func (s *Subscription) IsCurrentlyActive(t time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate != nil && s.EndDate.After(t)
}

// NotificationEvent names the side-effect notifications the engine emits.
type NotificationEvent string

const (
	NotificationSubscriptionActivated NotificationEvent = "SUBSCRIPTION_ACTIVATED"
	NotificationSubscriptionRejected  NotificationEvent = "SUBSCRIPTION_REJECTED"
	NotificationSubscriptionExpiring  NotificationEvent = "SUBSCRIPTION_EXPIRING"
	NotificationSubscriptionExpired   NotificationEvent = "SUBSCRIPTION_EXPIRED"
)
