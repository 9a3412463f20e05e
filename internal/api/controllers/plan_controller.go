package controllers

import (
	"github.com/gin-gonic/gin"

	"telecore/internal/services"
	"telecore/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// ListPlans godoc
// @Summary List plans
// @Description List the plan catalog, optionally filtered by type
// @Tags Plans
// @Produce json
// @Param type query string false "PREPAID | POSTPAID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context(), c.Query("type"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// GetPlan godoc
// @Summary Get plan by id
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{id} [get]
func (p *PlanController) GetPlan(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	plan, err := p.planService.GetPlanInfoById(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}
