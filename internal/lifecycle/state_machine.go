// FILE: internal/lifecycle/state_machine.go

// Package lifecycle holds the subscription state machine. It is the single
// place allowed to compute status transitions; the checkout, approval,
// webhook and sweep paths all funnel through Apply and persist the result
// with a compare-and-set write, so concurrent callers racing on the same
// record resolve to exactly one winner.
package lifecycle

import (
	"fmt"
	"time"

	"job-board-be/internal/entity"
)

// Event is a trigger fed into the state machine.
type Event string

const (
	// EventPaymentVerified activates a pending subscription. Raised by the
	// webhook verifier (gateway settlement) or the approval flow (admin
	// accepts a bank-transfer proof).
	EventPaymentVerified Event = "PAYMENT_VERIFIED"
	// EventReject cancels a pending subscription (admin rejection or gateway
	// deny/cancel/expire callback).
	EventReject Event = "REJECT"
	// EventSweepExpire expires an active subscription whose end date passed.
	// Only the reconciliation sweep raises it.
	EventSweepExpire Event = "SWEEP_EXPIRE"
	// EventUserCancel is a voluntary cancellation of an active subscription.
	EventUserCancel Event = "USER_CANCEL"
)

type RejectReason string

const (
	ReasonNotPending         RejectReason = "NOT_PENDING"
	ReasonAlreadySettled     RejectReason = "ALREADY_SETTLED"
	ReasonProofMissing       RejectReason = "PROOF_MISSING"
	ReasonWrongPaymentMethod RejectReason = "WRONG_PAYMENT_METHOD"
	ReasonRecordNotFound     RejectReason = "RECORD_NOT_FOUND"
)

// Rejection is the typed, non-exceptional outcome of an invalid transition
// attempt. Callers pattern-match on Reason; infrastructure failures travel
// as ordinary errors instead.
type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func rejectf(reason RejectReason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds the rejection callers return when the record itself is
// missing; the state machine never produces it on its own.
func NotFound(what string) *Rejection {
	return rejectf(ReasonRecordNotFound, "%s not found", what)
}

type transition struct {
	From entity.SubscriptionStatus
	To   entity.SubscriptionStatus
}

var validTransitions = map[transition]bool{
	{entity.SubscriptionStatusPending, entity.SubscriptionStatusActive}:    true, // payment verified
	{entity.SubscriptionStatusPending, entity.SubscriptionStatusCancelled}: true, // rejected / failed
	{entity.SubscriptionStatusActive, entity.SubscriptionStatusExpired}:    true, // sweep only
	{entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled}:  true, // voluntary cancel
}

// CanTransition checks the status edge independently of event semantics.
func CanTransition(from, to entity.SubscriptionStatus) bool {
	return validTransitions[transition{from, to}]
}

// Apply computes the next state for sub under ev, or returns a Rejection.
// It is a pure function: no I/O, no hidden clock (now is injected), and the
// input record is never mutated. The caller owns the atomic read-modify-write
// around it.
func Apply(sub entity.Subscription, plan *entity.SubscriptionPlan, ev Event, now time.Time) (entity.Subscription, *Rejection) {
	switch ev {
	case EventPaymentVerified:
		return applyPaymentVerified(sub, plan, now)
	case EventReject:
		return applyReject(sub)
	case EventSweepExpire:
		return applySweepExpire(sub, now)
	case EventUserCancel:
		return applyUserCancel(sub)
	default:
		return sub, rejectf(ReasonNotPending, "unknown event %q", ev)
	}
}

func applyPaymentVerified(sub entity.Subscription, plan *entity.SubscriptionPlan, now time.Time) (entity.Subscription, *Rejection) {
	if sub.Status != entity.SubscriptionStatusPending {
		// A concurrent activation that already landed shows up here; the
		// caller treats it as idempotent success.
		return sub, rejectf(ReasonNotPending, "subscription is %s, expected PENDING", sub.Status)
	}
	if sub.PaymentMethod == entity.PaymentMethodBankTransfer && sub.PaymentProof == nil {
		return sub, rejectf(ReasonProofMissing, "bank transfer cannot be approved without payment proof")
	}
	if plan == nil {
		return sub, NotFound("plan")
	}

	start := now
	end := now.AddDate(0, 0, plan.DurationDays)

	sub.Status = entity.SubscriptionStatusActive
	sub.PaymentStatus = entity.PaymentStatusCompleted
	sub.StartDate = &start
	sub.EndDate = &end
	return sub, nil
}

func applyReject(sub entity.Subscription) (entity.Subscription, *Rejection) {
	if sub.Status == entity.SubscriptionStatusActive && sub.PaymentStatus == entity.PaymentStatusCompleted {
		return sub, rejectf(ReasonAlreadySettled, "cannot reject a settled purchase")
	}
	if sub.Status != entity.SubscriptionStatusPending {
		return sub, rejectf(ReasonNotPending, "subscription is %s, expected PENDING", sub.Status)
	}

	sub.Status = entity.SubscriptionStatusCancelled
	sub.PaymentStatus = entity.PaymentStatusFailed
	return sub, nil
}

func applySweepExpire(sub entity.Subscription, now time.Time) (entity.Subscription, *Rejection) {
	if sub.Status == entity.SubscriptionStatusExpired {
		// Re-applying to an already swept record is a no-op, not an error.
		return sub, nil
	}
	if sub.Status != entity.SubscriptionStatusActive {
		return sub, rejectf(ReasonNotPending, "subscription is %s, expected ACTIVE", sub.Status)
	}
	if sub.EndDate == nil || sub.EndDate.After(now) {
		return sub, rejectf(ReasonNotPending, "end date has not passed")
	}

	sub.Status = entity.SubscriptionStatusExpired
	return sub, nil
}

func applyUserCancel(sub entity.Subscription) (entity.Subscription, *Rejection) {
	if sub.Status != entity.SubscriptionStatusActive {
		return sub, rejectf(ReasonNotPending, "subscription is %s, expected ACTIVE", sub.Status)
	}

	// PaymentStatus stays COMPLETED: the purchase settled, access is waived.
	sub.Status = entity.SubscriptionStatusCancelled
	return sub, nil
}

// CheckInvariants validates the cross-field rules every persisted record must
// satisfy. Used by tests and as a guard before compare-and-set writes.
func CheckInvariants(sub entity.Subscription) error {
	switch sub.Status {
	case entity.SubscriptionStatusActive:
		if sub.PaymentStatus != entity.PaymentStatusCompleted {
			return fmt.Errorf("ACTIVE subscription with payment status %s", sub.PaymentStatus)
		}
		if sub.StartDate == nil || sub.EndDate == nil {
			return fmt.Errorf("ACTIVE subscription without start/end dates")
		}
		if !sub.EndDate.After(*sub.StartDate) {
			return fmt.Errorf("ACTIVE subscription with end date not after start date")
		}
	case entity.SubscriptionStatusPending:
		if sub.PaymentStatus != entity.PaymentStatusPending {
			return fmt.Errorf("PENDING subscription with payment status %s", sub.PaymentStatus)
		}
		if sub.StartDate != nil || sub.EndDate != nil {
			return fmt.Errorf("PENDING subscription with start/end dates set")
		}
	}
	return nil
}
