package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters subscriptions by owning user.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// StatusIs filters by subscription status.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ActiveExpiringBefore matches ACTIVE subscriptions whose end date already
// passed at the given instant. Used by the sweep's expire pass.
type ActiveExpiringBefore struct {
	Moment time.Time
}

func (s ActiveExpiringBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND end_date IS NOT NULL AND end_date < ?", "ACTIVE", s.Moment)
}

// ActiveEndingBetween matches ACTIVE subscriptions ending inside the
// half-open interval [From, To). The sweep's reminder pass uses one-day
// buckets at +7, +3 and +1 days.
type ActiveEndingBetween struct {
	From time.Time
	To   time.Time
}

func (s ActiveEndingBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND end_date >= ? AND end_date < ?", "ACTIVE", s.From, s.To)
}

// CreatedBefore filters records created strictly before the given instant.
// Combined with StatusIs{PENDING} it identifies overdue pending checkouts.
type CreatedBefore struct {
	Moment time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Moment)
}
