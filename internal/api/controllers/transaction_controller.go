package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbm "telecore/internal/models/db_models"
	"telecore/internal/models/request_models"
	"telecore/internal/repositories"
	"telecore/internal/services"
	"telecore/pkg/middleware"
	"telecore/pkg/utils"
)

type TransactionController struct {
	transactionService services.TransactionService
}

func NewTransactionController(transactionService services.TransactionService) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
	}
}

// RecordTransaction godoc
// @Summary Record a transaction
// @Description Appends a SUCCESS entry to the ledger. Retailer callers are recorded as the selling retailer.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body request_models.RecordTransactionRequest true "Transaction payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions [post]
func (t *TransactionController) RecordTransaction(c *gin.Context) {
	var request request_models.RecordTransactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	in := services.RecordTransactionInput{
		CustomerID:    uuid.MustParse(request.CustomerID),
		Amount:        *request.Amount,
		Type:          dbm.TransactionType(request.Type),
		PaymentMethod: request.PaymentMethod,
	}
	if request.PlanID != nil {
		planID := uuid.MustParse(*request.PlanID)
		in.PlanID = &planID
	}
	if middleware.CallerRole(c) == dbm.RoleRetailer {
		if retailerID, ok := middleware.CallerID(c); ok {
			in.RetailerID = &retailerID
		}
	}

	txn, err := t.transactionService.Record(c.Request.Context(), in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, txn, "Transaction recorded successfully")
}

// MyTransactions godoc
// @Summary List my transactions
// @Tags Transactions
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions/my [get]
func (t *TransactionController) MyTransactions(c *gin.Context) {
	customerID, ok := callerID(c)
	if !ok {
		return
	}

	txns, err := t.transactionService.List(c.Request.Context(), repositories.TransactionFilter{CustomerID: &customerID})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txns, "Transactions fetched successfully")
}

// MyMonthlySpending godoc
// @Summary Monthly spending summary
// @Description Successful spend and refunds for one UTC calendar month. Defaults to the current month.
// @Tags Transactions
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions/my/monthly [get]
func (t *TransactionController) MyMonthlySpending(c *gin.Context) {
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

	summary, err := t.transactionService.MonthlySpending(c.Request.Context(), customerID, year, month)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Monthly spending fetched successfully")
}

// ListTransactions godoc
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Param retailer_id query string false "Retailer ID"
// @Param status query string false "PENDING | SUCCESS | FAILED | CANCELLED"
// @Param type query string false "RECHARGE | REFUND | SUBSCRIPTION | PLAN_PURCHASE"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions [get]
func (t *TransactionController) ListTransactions(c *gin.Context) {
	var filter repositories.TransactionFilter

	var ok bool
	if filter.CustomerID, ok = queryUUID(c, "customer_id"); !ok {
		return
	}
	if filter.RetailerID, ok = queryUUID(c, "retailer_id"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := dbm.TransactionStatus(raw)
		if !status.Valid() {
			utils.RespondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		txnType := dbm.TransactionType(raw)
		if !txnType.Valid() {
			utils.RespondError(c, http.StatusBadRequest, "invalid type")
			return
		}
		filter.Type = &txnType
	}

	txns, err := t.transactionService.List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txns, "Transactions fetched successfully")
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (t *TransactionController) GetTransaction(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	txn, err := t.transactionService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txn, "Transaction fetched successfully")
}

// MarkFailed godoc
// @Summary Mark a transaction as failed
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body request_models.MarkFailedRequest true "Failure reason"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions/{id}/fail [put]
func (t *TransactionController) MarkFailed(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var request request_models.MarkFailedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	txn, err := t.transactionService.MarkFailed(c.Request.Context(), id, request.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, txn, "Transaction marked as failed")
}

// Retry godoc
// @Summary Retry a failed transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transactions/{id}/retry [post]
func (t *TransactionController) Retry(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	txn, err := t.transactionService.Retry(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, txn, "Transaction retried successfully")
}
