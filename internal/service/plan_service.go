// FILE: internal/service/plan_service.go
// Service for the subscription plan catalog.
package service

import (
	"context"
	"errors"
	"time"

	"job-board-be/internal/dto"
	"job-board-be/internal/entity"
	"job-board-be/internal/repository/specification"
	"job-board-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const plansCacheKey = "active_plans"

type IPlanService interface {
	// Public
	GetActivePlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetPlan(ctx context.Context, planId uuid.UUID) (*entity.SubscriptionPlan, error)

	// Admin
	CreatePlan(ctx context.Context, req *dto.AdminCreatePlanRequest) (*dto.PlanResponse, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory) IPlanService {
	return &planService{
		uowFactory: uowFactory,
		// Plans change rarely; 5 minutes keeps the pricing page off the DB.
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *planService) GetActivePlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	if cached, found := s.cache.Get(plansCacheKey); found {
		return cached.([]*dto.PlanResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		result = append(result, planToResponse(plan))
	}

	s.cache.Set(plansCacheKey, result, gocache.DefaultExpiration)
	return result, nil
}

func (s *planService) GetPlan(ctx context.Context, planId uuid.UUID) (*entity.SubscriptionPlan, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: planId})
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.AdminCreatePlanRequest) (*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.Filter("slug", req.Slug))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("plan slug already exists")
	}

	plan := &entity.SubscriptionPlan{
		Id:                 uuid.New(),
		Name:               req.Name,
		Slug:               req.Slug,
		Description:        req.Description,
		Price:              req.Price,
		DurationDays:       req.DurationDays,
		CvGeneratorEnabled: req.CvGeneratorEnabled,
		AssessmentQuota:    req.AssessmentQuota,
		PriorityReview:     req.PriorityReview,
		IsActive:           true,
		SortOrder:          req.SortOrder,
	}

	if err := uow.SubscriptionRepository().CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.cache.Delete(plansCacheKey)
	return planToResponse(plan), nil
}

func planToResponse(plan *entity.SubscriptionPlan) *dto.PlanResponse {
	return &dto.PlanResponse{
		Id:                 plan.Id,
		Name:               plan.Name,
		Slug:               plan.Slug,
		Description:        plan.Description,
		Price:              plan.Price,
		DurationDays:       plan.DurationDays,
		CvGeneratorEnabled: plan.CvGeneratorEnabled,
		AssessmentQuota:    plan.AssessmentQuota,
		PriorityReview:     plan.PriorityReview,
	}
}
