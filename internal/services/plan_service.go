package services

import (
	"context"

	"github.com/google/uuid"

	"telecore/internal/models/db_models"
	"telecore/internal/models/response_models"
	"telecore/internal/repositories"
	"telecore/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context, planType string) ([]response_models.PlanResponse, error)
	GetPlanInfoById(ctx context.Context, planId uuid.UUID) (response_models.PlanResponse, error)
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

// GetPlans lists the catalog, optionally narrowed to PREPAID or POSTPAID.
func (p *PlanService) GetPlans(ctx context.Context, planType string) ([]response_models.PlanResponse, error) {

	var (
		plans []db_models.Plan
		err   error
	)
	if planType == "" {
		plans, err = p.planRepo.GetAllPlans(ctx)
	} else {
		t := db_models.PlanType(planType)
		if !t.Valid() {
			return nil, utils.ErrInvalidPlanType
		}
		plans, err = p.planRepo.GetPlansByType(ctx, t)
	}
	if err != nil {
		return nil, utils.DBError(err)
	}

	result := make([]response_models.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		result = append(result, response_models.NewPlanResponse(plan))
	}
	return result, nil
}

func (p *PlanService) GetPlanInfoById(ctx context.Context, planId uuid.UUID) (response_models.PlanResponse, error) {

	plan, err := p.planRepo.GetPlanInfoById(ctx, planId)
	if err != nil {
		return response_models.PlanResponse{}, utils.DBError(err)
	}

	if plan == nil {
		return response_models.PlanResponse{}, utils.ErrPlanNotFound
	}

	return response_models.NewPlanResponse(*plan), nil

}
