package implementation

import (
	"context"
	"errors"
	"time"

	"job-board-be/internal/entity"
	"job-board-be/internal/mapper"
	"job-board-be/internal/model"
	"job-board-be/internal/repository/contract"
	"job-board-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Plan Implementation

func (r *SubscriptionRepositoryImpl) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	var m model.SubscriptionPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var models []*model.SubscriptionPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SubscriptionPlan, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PlanToEntity(m)
	}
	return entities, nil
}

// Subscription Implementation

func (r *SubscriptionRepositoryImpl) CreateSubscription(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var models []*model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Subscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SubscriptionToEntity(m)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) CountSubscriptions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Subscription{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

// CompareAndUpdateSubscription is the single write path for status fields.
// The WHERE clause on the status pair makes the update a per-row
// compare-and-set: whichever caller lands first wins, the loser sees
// ErrConflict and re-reads.
func (r *SubscriptionRepositoryImpl) CompareAndUpdateSubscription(
	ctx context.Context,
	id uuid.UUID,
	expectedStatus entity.SubscriptionStatus,
	expectedPaymentStatus entity.PaymentStatus,
	updated *entity.Subscription,
) error {
	res := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, string(expectedStatus), string(expectedPaymentStatus)).
		Updates(map[string]interface{}{
			"status":         string(updated.Status),
			"payment_status": string(updated.PaymentStatus),
			"payment_proof":  updated.PaymentProof,
			"start_date":     updated.StartDate,
			"end_date":       updated.EndDate,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrConflict
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) AttachPaymentProof(ctx context.Context, id uuid.UUID, proof string) error {
	res := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND status = ?", id, string(entity.SubscriptionStatusPending)).
		Updates(map[string]interface{}{
			"payment_proof": proof,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrConflict
	}
	return nil
}

// Sweep queries

func (r *SubscriptionRepositoryImpl) FindActiveExpiringBefore(ctx context.Context, moment time.Time) ([]*entity.Subscription, error) {
	return r.FindAllSubscriptions(ctx,
		specification.ActiveExpiringBefore{Moment: moment},
		specification.OrderBy{Field: "end_date"},
	)
}

func (r *SubscriptionRepositoryImpl) FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]*entity.Subscription, error) {
	return r.FindAllSubscriptions(ctx,
		specification.ActiveEndingBetween{From: from, To: to},
		specification.OrderBy{Field: "end_date"},
	)
}
