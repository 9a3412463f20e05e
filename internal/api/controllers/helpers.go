package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"telecore/internal/services"
	"telecore/pkg/middleware"
	"telecore/pkg/utils"
)

// pathUUID parses a uuid path parameter and writes a 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional uuid query parameter.
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, name+" must be a valid UUID")
		return nil, false
	}
	return &id, true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is missing from token")
	}
	return id, ok
}

// requester converts the caller's role into the capability the lifecycle
// manager checks.
func requester(c *gin.Context) (services.Requester, bool) {
	id, ok := callerID(c)
	if !ok {
		return services.Requester{}, false
	}
	return services.Requester{
		ID:           id,
		CanManageAny: middleware.CallerRole(c).CanManageAnySubscription(),
	}, true
}
