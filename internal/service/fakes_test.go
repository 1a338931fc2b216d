package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"job-board-be/internal/entity"
	"job-board-be/internal/gateway"
	"job-board-be/internal/model"
	"job-board-be/internal/repository/contract"
	"job-board-be/internal/repository/specification"
	"job-board-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They interpret the same
// specification values the GORM implementations receive, so service tests
// exercise the real query intent without a database.

type fakeStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*entity.User
	plans  map[uuid.UUID]*entity.SubscriptionPlan
	subs   map[uuid.UUID]*entity.Subscription
	notifs []*model.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[uuid.UUID]*entity.User),
		plans: make(map[uuid.UUID]*entity.SubscriptionPlan),
		subs:  make(map[uuid.UUID]*entity.Subscription),
	}
}

func (s *fakeStore) factory() unitofwork.RepositoryFactory {
	return &fakeFactory{store: s}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{store: u.store}
}

func (u *fakeUow) NotificationRepository() contract.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

// --- spec matching ---

type subFilter struct {
	id            *uuid.UUID
	userId        *uuid.UUID
	status        string
	paymentMethod string
	createdBefore *time.Time
	orderDesc     bool
	limit         int
	offset        int
}

func parseSpecs(specs []specification.Specification) subFilter {
	f := subFilter{limit: -1}
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			id := sp.ID
			f.id = &id
		case specification.OwnedBy:
			uid := sp.UserID
			f.userId = &uid
		case specification.StatusIs:
			f.status = sp.Status
		case specification.CreatedBefore:
			m := sp.Moment
			f.createdBefore = &m
		case specification.OrderBy:
			f.orderDesc = sp.Desc
		case specification.Pagination:
			f.limit = sp.Limit
			f.offset = sp.Offset
		case specification.FilterBy:
			if sp.Field == "payment_method" {
				f.paymentMethod, _ = sp.Value.(string)
			}
		}
	}
	return f
}

func (f subFilter) matches(sub *entity.Subscription) bool {
	if f.id != nil && sub.Id != *f.id {
		return false
	}
	if f.userId != nil && sub.UserId != *f.userId {
		return false
	}
	if f.status != "" && string(sub.Status) != f.status {
		return false
	}
	if f.paymentMethod != "" && string(sub.PaymentMethod) != f.paymentMethod {
		return false
	}
	if f.createdBefore != nil && !sub.CreatedAt.Before(*f.createdBefore) {
		return false
	}
	return true
}

// --- subscription repo ---

type fakeSubscriptionRepo struct {
	store *fakeStore
}

func (r *fakeSubscriptionRepo) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *plan
	r.store.plans[plan.Id] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	return r.CreatePlan(ctx, plan)
}

func (r *fakeSubscriptionRepo) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var wantId *uuid.UUID
	wantSlug := ""
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			id := sp.ID
			wantId = &id
		case specification.FilterBy:
			if sp.Field == "slug" {
				wantSlug, _ = sp.Value.(string)
			}
		}
	}

	for _, plan := range r.store.plans {
		if wantId != nil && plan.Id != *wantId {
			continue
		}
		if wantSlug != "" && plan.Slug != wantSlug {
			continue
		}
		cp := *plan
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	activeOnly := false
	for _, spec := range specs {
		if sp, ok := spec.(specification.FilterBy); ok && sp.Field == "is_active" {
			activeOnly, _ = sp.Value.(bool)
		}
	}

	var result []*entity.SubscriptionPlan
	for _, plan := range r.store.plans {
		if activeOnly && !plan.IsActive {
			continue
		}
		cp := *plan
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (r *fakeSubscriptionRepo) CreateSubscription(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *sub
	r.store.subs[sub.Id] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) findAll(f subFilter) []*entity.Subscription {
	var result []*entity.Subscription
	for _, sub := range r.store.subs {
		if f.matches(sub) {
			cp := *sub
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if f.orderDesc {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if f.offset > 0 && f.offset < len(result) {
		result = result[f.offset:]
	} else if f.offset >= len(result) && f.offset > 0 {
		result = nil
	}
	if f.limit >= 0 && f.limit < len(result) {
		result = result[:f.limit]
	}
	return result
}

func (r *fakeSubscriptionRepo) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	matches := r.findAll(parseSpecs(specs))
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeSubscriptionRepo) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.findAll(parseSpecs(specs)), nil
}

func (r *fakeSubscriptionRepo) CountSubscriptions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.findAll(parseSpecs(specs)))), nil
}

func (r *fakeSubscriptionRepo) CompareAndUpdateSubscription(
	ctx context.Context,
	id uuid.UUID,
	expectedStatus entity.SubscriptionStatus,
	expectedPaymentStatus entity.PaymentStatus,
	updated *entity.Subscription,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.subs[id]
	if !ok || current.Status != expectedStatus || current.PaymentStatus != expectedPaymentStatus {
		return contract.ErrConflict
	}
	cp := *updated
	r.store.subs[id] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) AttachPaymentProof(ctx context.Context, id uuid.UUID, proof string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.subs[id]
	if !ok || current.Status != entity.SubscriptionStatusPending {
		return contract.ErrConflict
	}
	current.PaymentProof = &proof
	return nil
}

func (r *fakeSubscriptionRepo) FindActiveExpiringBefore(ctx context.Context, moment time.Time) ([]*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entity.Subscription
	for _, sub := range r.store.subs {
		if sub.Status == entity.SubscriptionStatusActive && sub.EndDate != nil && sub.EndDate.Before(moment) {
			cp := *sub
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeSubscriptionRepo) FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*entity.Subscription
	for _, sub := range r.store.subs {
		if sub.Status != entity.SubscriptionStatusActive || sub.EndDate == nil {
			continue
		}
		if !sub.EndDate.Before(from) && sub.EndDate.Before(to) {
			cp := *sub
			result = append(result, &cp)
		}
	}
	return result, nil
}

// --- user repo ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, spec := range specs {
		if sp, ok := spec.(specification.ByID); ok {
			if user, found := r.store.users[sp.ID]; found {
				cp := *user
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

// --- notification repo ---

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notif *model.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *notif
	r.store.notifs = append(r.store.notifs, &cp)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []model.Notification
	for _, n := range r.store.notifs {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	total := int64(len(result))
	if offset < len(result) {
		result = result[offset:]
	} else {
		result = nil
	}
	if limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, n := range r.store.notifs {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, n := range r.store.notifs {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, n := range r.store.notifs {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// --- notifier ---

type recordingNotifier struct {
	mu       sync.Mutex
	messages []NotificationMessage
}

func (n *recordingNotifier) Notify(ctx context.Context, msg NotificationMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *recordingNotifier) byEvent(event entity.NotificationEvent) []NotificationMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	var result []NotificationMessage
	for _, msg := range n.messages {
		if msg.Event == event {
			result = append(result, msg)
		}
	}
	return result
}

// --- logger ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- payment gateway ---

type fakeGateway struct {
	chargeErr   error
	chargeCalls int
	lastCharge  *gateway.ChargeRequest
	validSigs   map[string]bool
}

func (g *fakeGateway) Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	g.chargeCalls++
	g.lastCharge = req
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return &gateway.ChargeResult{
		Token:       "snap-token-" + req.OrderId,
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/" + req.OrderId,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderId, statusCode, grossAmount, signature string) bool {
	if g.validSigs == nil {
		return signature == "valid"
	}
	return g.validSigs[signature]
}
