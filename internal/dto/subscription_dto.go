// FILE: internal/dto/subscription_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Plan DTOs ---

type PlanResponse struct {
	Id                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	DurationDays       int       `json:"duration_days"`
	CvGeneratorEnabled bool      `json:"cv_generator_enabled"`
	AssessmentQuota    int       `json:"assessment_quota"` // -1 means unlimited
	PriorityReview     bool      `json:"priority_review"`
}

// --- Checkout DTOs ---

type CheckoutRequest struct {
	PlanId        uuid.UUID `json:"plan_id" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=BANK_TRANSFER MIDTRANS"`
}

type CheckoutResponse struct {
	SubscriptionId uuid.UUID `json:"subscription_id"`
	PaymentMethod  string    `json:"payment_method"`

	// Gateway checkout only.
	SnapToken       string `json:"snap_token,omitempty"`
	SnapRedirectUrl string `json:"snap_redirect_url,omitempty"`

	// Bank transfer checkout only.
	TransferInstructions *TransferInstructions `json:"transfer_instructions,omitempty"`
}

// TransferInstructions tells the user exactly how much to wire. The amount
// carries a per-order disambiguation code in its last three digits so ops
// can match incoming transfers to orders.
type TransferInstructions struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
	Amount        int64  `json:"amount"`
}

type UploadProofRequest struct {
	SubscriptionId uuid.UUID `json:"subscription_id" validate:"required"`
	ProofUrl       string    `json:"proof_url" validate:"required,url"`
}

// --- Status / Cancel DTOs ---

type SubscriptionStatusResponse struct {
	Id            uuid.UUID  `json:"id"`
	PlanId        uuid.UUID  `json:"plan_id"`
	PlanName      string     `json:"plan_name"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaymentMethod string     `json:"payment_method"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IsActive      bool       `json:"is_active"`
}

type CancelSubscriptionRequest struct {
	SubscriptionId uuid.UUID `json:"subscription_id" validate:"required"`
}

// --- Webhook DTOs ---

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}
