package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"telecore/internal/api"
	"telecore/internal/api/controllers"
	"telecore/internal/events"
	"telecore/internal/metrics"
	dbm "telecore/internal/models/db_models"
	"telecore/internal/repositories"
	"telecore/internal/repositories/memory"
	"telecore/internal/services"
	"telecore/pkg/utils"
)

type testServer struct {
	router *gin.Engine
	tokens *utils.JWTManager
	store  *memory.Store
	plan   dbm.Plan
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets a test decorate the subscription repository the
// lifecycle manager reads and writes through.
func newTestServerWith(t *testing.T, wrap func(repositories.SubscriptionRepository) repositories.SubscriptionRepository) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	repos := store.Repositories()
	if wrap != nil {
		repos.Subscriptions = wrap(repos.Subscriptions)
	}
	clock := utils.NewFixedClock(time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC))
	registry := metrics.NewRegistry()
	m := metrics.NewLifecycleMetrics(registry)
	log := zap.NewNop()

	subs := services.NewSubscriptionService(repos, store.UnitOfWork(), clock, m, &events.Recorder{}, log)
	txns := services.NewTransactionService(repos.Transactions, clock, m, log)
	h := api.Handlers{
		Health:        controllers.NewHealthController(),
		Plans:         controllers.NewPlanController(services.NewPlanService(repos.Plans)),
		Subscriptions: controllers.NewSubscriptionController(subs),
		Transactions:  controllers.NewTransactionController(txns),
		Analytics:     controllers.NewAnalyticsController(services.NewAnalyticsService(repos, services.NewHeuristicScorer(), clock)),
		Usage:         controllers.NewUsageController(services.NewUsageService(repos, clock)),
	}

	tokens := utils.NewJWTManager("test-secret", time.Hour)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	plan := store.SeedPlan(dbm.Plan{
		Code:          "smart_30",
		Name:          "Smart 30",
		Type:          dbm.PlanTypePrepaid,
		Price:         199,
		ValidityDays:  30,
		DataAllowance: "2GB",
		CallMinutes:   100,
		SmsQuota:      100,
	})

	return &testServer{
		router: api.NewRouter(log, tokens, h, metricsHandler),
		tokens: tokens,
		store:  store,
		plan:   plan,
	}
}

func (s *testServer) token(t *testing.T, id uuid.UUID, role dbm.Role) string {
	t.Helper()
	token, err := s.tokens.CreateToken(id, string(role))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out utils.APIResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *testServer) subscribeBody(amount string) map[string]any {
	return map[string]any{
		"plan_id":        s.plan.ID.String(),
		"payment_method": "wallet",
		"amount":         amount,
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, http.StatusOK, body.Code)
	assert.Equal(t, w.Header().Get("X-Trace-ID"), body.TraceID)
	assert.NotEmpty(t, body.TraceID)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSubscribeFlow(t *testing.T) {
	s := newTestServer(t)
	customer := s.token(t, uuid.New(), dbm.RoleCustomer)

	w, body := s.do(t, http.MethodPost, "/subscriptions/subscribe", customer, s.subscribeBody("199.00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusCreated, body.Code)

	w, _ = s.do(t, http.MethodPost, "/subscriptions/subscribe", customer, s.subscribeBody("199"))
	assert.Equal(t, http.StatusConflict, w.Code)

	subs, txns := s.store.Counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, txns)

	w, _ = s.do(t, http.MethodGet, "/subscriptions/my", customer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscribe_Rejections(t *testing.T) {
	s := newTestServer(t)
	customer := s.token(t, uuid.New(), dbm.RoleCustomer)

	w, _ := s.do(t, http.MethodPost, "/subscriptions/subscribe", customer, s.subscribeBody("150"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPost, "/subscriptions/subscribe", customer, map[string]any{"plan_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	unknown := s.subscribeBody("199")
	unknown["plan_id"] = uuid.NewString()
	w, _ = s.do(t, http.MethodPost, "/subscriptions/subscribe", customer, unknown)
	assert.Equal(t, http.StatusNotFound, w.Code)

	subs, txns := s.store.Counts()
	assert.Zero(t, subs)
	assert.Zero(t, txns)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)
	customer := s.token(t, uuid.New(), dbm.RoleCustomer)
	admin := s.token(t, uuid.New(), dbm.RoleAdmin)

	w, _ := s.do(t, http.MethodGet, "/plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for _, path := range []string{"/subscriptions", "/transactions", "/subscriptions/statistics", "/usage/heavy-users"} {
		w, _ = s.do(t, http.MethodGet, path, customer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	w, _ = s.do(t, http.MethodPost, "/subscriptions/sweep", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/transactions/statistics?period=decade", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelOwnership(t *testing.T) {
	s := newTestServer(t)
	owner := s.token(t, uuid.New(), dbm.RoleCustomer)
	stranger := s.token(t, uuid.New(), dbm.RoleCustomer)
	manager := s.token(t, uuid.New(), dbm.RolePlanManager)

	w, _ := s.do(t, http.MethodPost, "/subscriptions/subscribe", owner, s.subscribeBody("199"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			Subscription struct {
				ID string `json:"id"`
			} `json:"subscription"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Data.Subscription.ID

	w, _ = s.do(t, http.MethodGet, "/subscriptions/"+id, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPut, "/subscriptions/"+id+"/cancel", stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPut, "/subscriptions/"+id+"/cancel", owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/subscriptions/"+id+"/cancel", owner, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPut, "/subscriptions/"+id+"/reactivate", manager, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, "/subscriptions/not-a-uuid/cancel", owner, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetailerRecordsTransaction(t *testing.T) {
	s := newTestServer(t)
	retailerID := uuid.New()
	retailer := s.token(t, retailerID, dbm.RoleRetailer)
	admin := s.token(t, uuid.New(), dbm.RoleAdmin)
	customerID := uuid.New()

	w, _ := s.do(t, http.MethodPost, "/transactions", retailer, map[string]any{
		"customer_id":    customerID.String(),
		"amount":         "50",
		"type":           "RECHARGE",
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recorded struct {
		Data struct {
			ID         string  `json:"id"`
			RetailerID *string `json:"retailer_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recorded))
	require.NotNil(t, recorded.Data.RetailerID)
	assert.Equal(t, retailerID.String(), *recorded.Data.RetailerID)

	w, _ = s.do(t, http.MethodPost, "/transactions/"+recorded.Data.ID+"/retry", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPut, "/transactions/"+recorded.Data.ID+"/fail", admin, map[string]any{"reason": "chargeback"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/transactions/"+recorded.Data.ID+"/retry", admin, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodGet, "/transactions/"+uuid.NewString(), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type brokenRow struct {
	repositories.SubscriptionRepository
	id *uuid.UUID
}

func (r brokenRow) TransitionStatus(ctx context.Context, id uuid.UUID, t repositories.StatusTransition) (bool, error) {
	if *r.id == id {
		return false, errors.New("connection reset")
	}
	return r.SubscriptionRepository.TransitionStatus(ctx, id, t)
}

func TestSweepReportsRowErrors(t *testing.T) {
	var broken uuid.UUID
	s := newTestServerWith(t, func(inner repositories.SubscriptionRepository) repositories.SubscriptionRepository {
		return brokenRow{SubscriptionRepository: inner, id: &broken}
	})
	admin := s.token(t, uuid.New(), dbm.RoleAdmin)

	past := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC).Unix()
	for i := 0; i < 2; i++ {
		sub := s.store.SeedSubscription(dbm.Subscription{
			CustomerID:   uuid.New(),
			PlanID:       s.plan.ID,
			Status:       dbm.SubStatusActive,
			ActivatedAt:  past - 30*utils.SecondsPerDay,
			ExpiresAt:    past,
			ValidityDays: 30,
		})
		broken = sub.ID
	}

	w, _ := s.do(t, http.MethodPost, "/subscriptions/sweep", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Data struct {
			Expired int      `json:"expired"`
			Errors  []string `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Data.Expired)
	require.Len(t, out.Data.Errors, 1)
	assert.Contains(t, out.Data.Errors[0], broken.String())
}
