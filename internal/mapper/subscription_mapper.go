// FILE: internal/mapper/subscription_mapper.go
package mapper

import (
	"job-board-be/internal/entity"
	"job-board-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &entity.SubscriptionPlan{
		Id:                 p.Id,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		Price:              p.Price,
		DurationDays:       p.DurationDays,
		CvGeneratorEnabled: p.CvGeneratorEnabled,
		AssessmentQuota:    p.AssessmentQuota,
		PriorityReview:     p.PriorityReview,
		IsActive:           p.IsActive,
		SortOrder:          p.SortOrder,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:                 p.Id,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		Price:              p.Price,
		DurationDays:       p.DurationDays,
		CvGeneratorEnabled: p.CvGeneratorEnabled,
		AssessmentQuota:    p.AssessmentQuota,
		PriorityReview:     p.PriorityReview,
		IsActive:           p.IsActive,
		SortOrder:          p.SortOrder,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:            s.Id,
		UserId:        s.UserId,
		PlanId:        s.PlanId,
		Status:        entity.SubscriptionStatus(s.Status),
		PaymentStatus: entity.PaymentStatus(s.PaymentStatus),
		PaymentMethod: entity.PaymentMethod(s.PaymentMethod),
		PaymentProof:  s.PaymentProof,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:            s.Id,
		UserId:        s.UserId,
		PlanId:        s.PlanId,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		PaymentMethod: string(s.PaymentMethod),
		PaymentProof:  s.PaymentProof,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
