package controllers

import (
	"github.com/gin-gonic/gin"

	"telecore/internal/services"
	"telecore/pkg/utils"
)

const defaultHeavyUserLimit = 10

type UsageController struct {
	usageService services.UsageService
}

func NewUsageController(usageService services.UsageService) *UsageController {
	return &UsageController{
		usageService: usageService,
	}
}

// MyUsage godoc
// @Summary List my usage records
// @Tags Usage
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/my [get]
func (u *UsageController) MyUsage(c *gin.Context) {
	customerID, ok := callerID(c)
	if !ok {
		return
	}

	records, err := u.usageService.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, records, "Usage fetched successfully")
}

// SubscriptionUsage godoc
// @Summary List usage records of a subscription
// @Tags Usage
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/subscriptions/{id} [get]
func (u *UsageController) SubscriptionUsage(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	records, err := u.usageService.ListBySubscription(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, records, "Usage fetched successfully")
}

// MyMonthlyUsage godoc
// @Summary Monthly usage summary
// @Tags Usage
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/my/monthly [get]
func (u *UsageController) MyMonthlyUsage(c *gin.Context) {
	customerID, ok := callerID(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year", 0)
	if !ok {
		return
	}
	month, ok := queryInt(c, "month", 0)
	if !ok {
		return
	}

	summary, err := u.usageService.MonthlySummary(c.Request.Context(), customerID, year, month)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Monthly usage fetched successfully")
}

// MyPatterns godoc
// @Summary Usage patterns
// @Description Daily averages, peak data day and the recent data usage trend
// @Tags Usage
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/my/patterns [get]
func (u *UsageController) MyPatterns(c *gin.Context) {
	customerID, ok := callerID(c)
	if !ok {
		return
	}

	patterns, err := u.usageService.CustomerPatterns(c.Request.Context(), customerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, patterns, "Usage patterns fetched successfully")
}

// MyQuota godoc
// @Summary Remaining quota per active subscription
// @Tags Usage
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/my/quota [get]
func (u *UsageController) MyQuota(c *gin.Context) {
	customerID, ok := callerID(c)
	if !ok {
		return
	}

	quota, err := u.usageService.QuotaRemaining(c.Request.Context(), customerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, quota, "Quota fetched successfully")
}

// UsageStatistics godoc
// @Summary Usage statistics
// @Tags Usage
// @Produce json
// @Param period query string false "today | week | month | year | all"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/statistics [get]
func (u *UsageController) UsageStatistics(c *gin.Context) {
	stats, err := u.usageService.UsageStatistics(c.Request.Context(), c.Query("period"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Usage statistics fetched successfully")
}

// HeavyUsers godoc
// @Summary Top consumers
// @Tags Usage
// @Produce json
// @Param type query string false "data | calls | sms" default(data)
// @Param limit query int false "Maximum rows" default(10)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /usage/heavy-users [get]
func (u *UsageController) HeavyUsers(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultHeavyUserLimit)
	if !ok {
		return
	}

	users, err := u.usageService.HeavyUsers(c.Request.Context(), c.DefaultQuery("type", "data"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Heavy users fetched successfully")
}
