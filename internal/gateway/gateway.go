// FILE: internal/gateway/gateway.go

// Package gateway wraps the third-party payment processor. All calls may
// fail or time out; callers treat every error as "charge not initiated",
// never as silent success.
package gateway

import "context"

type ChargeRequest struct {
	OrderId       string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
	ItemId        string
	ItemName      string
}

// ChargeResult is the client-side handle for completing a gateway payment.
type ChargeResult struct {
	Token       string
	RedirectURL string
}

type PaymentGateway interface {
	// Charge registers a transaction with the processor and returns the
	// redirect handle. The subscription row must already exist so the order
	// id always maps to a persisted record.
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)

	// VerifySignature recomputes the callback signature from the payload
	// fields and the server key. This is the only authentication boundary
	// between the processor and the state machine.
	VerifySignature(orderId, statusCode, grossAmount, signature string) bool
}
