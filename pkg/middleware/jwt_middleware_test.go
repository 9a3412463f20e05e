package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

func newTestRouter(tokens *utils.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	r.GET("/admin",
		JWTAuthMiddleware(tokens),
		RoleMiddleware(db_models.RoleAdmin, db_models.RolePlanManager),
		func(c *gin.Context) {
			id, ok := CallerID(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, id.String()+" "+string(CallerRole(c)))
		})
	return r
}

func TestJWTAuthAndRoles(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Minute)
	r := newTestRouter(tokens)
	admin := uuid.New()

	sign := func(id uuid.UUID, role string) string {
		token, err := tokens.CreateToken(id, role)
		require.NoError(t, err)
		return "Bearer " + token
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"unknown role", sign(admin, "SUPERUSER"), http.StatusUnauthorized},
		{"wrong role", sign(admin, string(db_models.RoleCustomer)), http.StatusForbidden},
		{"admin", sign(admin, string(db_models.RoleAdmin)), http.StatusOK},
		{"plan manager", sign(admin, string(db_models.RolePlanManager)), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", sign(admin, string(db_models.RoleAdmin)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, admin.String()+" ADMIN", w.Body.String())
}

func TestTraceIDMiddleware(t *testing.T) {
	r := newTestRouter(utils.NewJWTManager("secret", time.Minute))

	inbound := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Trace-ID", inbound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Header().Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Trace-ID", "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get("X-Trace-ID"))
	assert.NoError(t, err)
}
