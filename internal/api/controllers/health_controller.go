package controllers

import (
	"github.com/gin-gonic/gin"

	"telecore/pkg/utils"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Healthz godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /healthz [get]
func (h *HealthController) Healthz(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "Service is healthy")
}
