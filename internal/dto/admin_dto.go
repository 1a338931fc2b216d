// FILE: internal/dto/admin_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApproveSubscriptionRequest struct {
	SubscriptionId uuid.UUID `json:"subscription_id" validate:"required"`
}

type RejectSubscriptionRequest struct {
	SubscriptionId uuid.UUID `json:"subscription_id" validate:"required"`
	Reason         string    `json:"reason" validate:"required,min=5"`
}

type PendingSubscriptionResponse struct {
	Id            uuid.UUID `json:"id"`
	UserId        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	PlanName      string    `json:"plan_name"`
	PaymentMethod string    `json:"payment_method"`
	PaymentProof  *string   `json:"payment_proof,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type AdminCreatePlanRequest struct {
	Name               string `json:"name" validate:"required,min=3"`
	Slug               string `json:"slug" validate:"required,min=3"`
	Description        string `json:"description"`
	Price              float64 `json:"price" validate:"gte=0"`
	DurationDays       int    `json:"duration_days" validate:"required,gt=0"`
	CvGeneratorEnabled bool   `json:"cv_generator_enabled"`
	AssessmentQuota    int    `json:"assessment_quota" validate:"gte=-1"`
	PriorityReview     bool   `json:"priority_review"`
	SortOrder          int    `json:"sort_order"`
}
