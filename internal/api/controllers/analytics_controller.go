package controllers

import (
	"github.com/gin-gonic/gin"

	"telecore/internal/services"
	"telecore/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// SubscriptionStatistics godoc
// @Summary Subscription statistics
// @Description Status counts, active revenue, month-over-month growth and 30 day churn
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/statistics [get]
func (a *AnalyticsController) SubscriptionStatistics(c *gin.Context) {
	stats, err := a.analyticsService.SubscriptionStatistics(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Subscription statistics fetched successfully")
}

// PlanPerformance godoc
// @Summary Per-plan performance
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/performance [get]
func (a *AnalyticsController) PlanPerformance(c *gin.Context) {
	rows, err := a.analyticsService.PlanPerformance(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, rows, "Plan performance fetched successfully")
}

// PlanStatistics godoc
// @Summary Plan catalog statistics
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/statistics [get]
func (a *AnalyticsController) PlanStatistics(c *gin.Context) {
	stats, err := a.analyticsService.PlanStatistics(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Plan statistics fetched successfully")
}

// TransactionStatistics godoc
// @Summary Transaction statistics
// @Tags Analytics
// @Produce json
// @Param period query string false "today | week | month | year | all"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions/statistics [get]
func (a *AnalyticsController) TransactionStatistics(c *gin.Context) {
	stats, err := a.analyticsService.TransactionStatistics(c.Request.Context(), c.Query("period"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Transaction statistics fetched successfully")
}
