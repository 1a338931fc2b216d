// FILE: internal/model/subscription_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Slug         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description  string    `gorm:"type:text"`
	Price        float64   `gorm:"type:decimal(12,2);not null"`
	DurationDays int       `gorm:"not null;default:30"`
	// Feature entitlements
	CvGeneratorEnabled bool `gorm:"default:false"`
	AssessmentQuota    int  `gorm:"default:0"` // -1 = unlimited
	PriorityReview     bool `gorm:"default:false"`
	// Display Settings
	IsActive  bool `gorm:"default:true"`
	SortOrder int  `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

type Subscription struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlanId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status        string     `gorm:"type:varchar(20);not null;index:idx_subscriptions_status_end,priority:1"`
	PaymentStatus string     `gorm:"type:varchar(20);not null"`
	PaymentMethod string     `gorm:"type:varchar(30);not null"`
	PaymentProof  *string    `gorm:"type:text"`
	StartDate     *time.Time `gorm:""`
	EndDate       *time.Time `gorm:"index:idx_subscriptions_status_end,priority:2"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
