package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbm "telecore/internal/models/db_models"
	"telecore/internal/models/request_models"
	resp "telecore/internal/models/response_models"
	"telecore/internal/repositories"
	"telecore/internal/services"
	"telecore/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionController(subscriptionService services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// Subscribe godoc
// @Summary Subscribe to a plan
// @Description Records the payment and activates the subscription in one step. The amount must match the plan price within 0.01.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.SubscribeRequest true "Subscribe payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/subscribe [post]
func (s *SubscriptionController) Subscribe(c *gin.Context) {
	var request request_models.SubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	customerID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := s.subscriptionService.Subscribe(c.Request.Context(), customerID,
		uuid.MustParse(request.PlanID), request.PaymentMethod, *request.Amount)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, result, "Subscription created successfully")
}

// CreateForCustomer godoc
// @Summary Sell a plan to a customer
// @Description Retailer or admin initiated subscription. The amount charged is the plan price.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.RetailerSubscribeRequest true "Customer and plan"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/create [post]
func (s *SubscriptionController) CreateForCustomer(c *gin.Context) {
	var request request_models.RetailerSubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	retailerID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := s.subscriptionService.SubscribeForCustomer(c.Request.Context(), retailerID,
		uuid.MustParse(request.CustomerID), uuid.MustParse(request.PlanID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, result, "Subscription created successfully")
}

// MySubscriptions godoc
// @Summary List my subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/my [get]
func (s *SubscriptionController) MySubscriptions(c *gin.Context) {
	customerID, ok := callerID(c)
	if !ok {
		return
	}

	subs, err := s.subscriptionService.List(c.Request.Context(), repositories.SubscriptionFilter{CustomerID: &customerID})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, subs, "Subscriptions fetched successfully")
}

// GetSubscription godoc
// @Summary Get a subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/{id} [get]
func (s *SubscriptionController) GetSubscription(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	who, ok := requester(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Get(c.Request.Context(), id, who)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription fetched successfully")
}

// ListSubscriptions godoc
// @Summary List subscriptions
// @Tags Subscriptions
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Param plan_id query string false "Plan ID"
// @Param status query string false "ACTIVE | EXPIRED | CANCELLED"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions [get]
func (s *SubscriptionController) ListSubscriptions(c *gin.Context) {
	var filter repositories.SubscriptionFilter

	var ok bool
	if filter.CustomerID, ok = queryUUID(c, "customer_id"); !ok {
		return
	}
	if filter.PlanID, ok = queryUUID(c, "plan_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := dbm.SubscriptionStatus(raw)
		if !status.Valid() {
			utils.RespondError(c, http.StatusBadRequest, "status must be one of: ACTIVE, EXPIRED, CANCELLED")
			return
		}
		filter.Status = &status
	}

	subs, err := s.subscriptionService.List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, subs, "Subscriptions fetched successfully")
}

// Cancel godoc
// @Summary Cancel a subscription
// @Description Owners may cancel their own ACTIVE subscriptions; admins and plan managers any.
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/{id}/cancel [put]
func (s *SubscriptionController) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	who, ok := requester(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Cancel(c.Request.Context(), id, who)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription cancelled successfully")
}

// Reactivate godoc
// @Summary Reactivate a subscription
// @Description EXPIRED or CANCELLED subscriptions become ACTIVE again; a past expiry is recomputed from the validity period.
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/{id}/reactivate [put]
func (s *SubscriptionController) Reactivate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Reactivate(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription reactivated successfully")
}

// Extend godoc
// @Summary Extend a customer's active subscriptions
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body request_models.ExtendRequest true "Customer and days"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/extend [post]
func (s *SubscriptionController) Extend(c *gin.Context) {
	var request request_models.ExtendRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := s.subscriptionService.Extend(c.Request.Context(), uuid.MustParse(request.CustomerID), request.Days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Subscriptions extended successfully")
}

// Sweep godoc
// @Summary Expire overdue subscriptions now
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscriptions/sweep [post]
func (s *SubscriptionController) Sweep(c *gin.Context) {
	n, err := s.subscriptionService.SweepExpired(c.Request.Context())
	if err != nil && n == 0 {
		utils.HandleServiceError(c, err)
		return
	}

	out := resp.SweepResponse{Expired: n}
	if err != nil {
		out.Errors = []string{err.Error()}
	}
	utils.RespondSuccess(c, out, "Expiry sweep completed")
}
