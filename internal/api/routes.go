package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"telecore/internal/api/controllers"
	dbm "telecore/internal/models/db_models"
	"telecore/pkg/middleware"
	"telecore/pkg/utils"
)

type Handlers struct {
	fx.In

	Health        *controllers.HealthController
	Plans         *controllers.PlanController
	Subscriptions *controllers.SubscriptionController
	Transactions  *controllers.TransactionController
	Analytics     *controllers.AnalyticsController
	Usage         *controllers.UsageController
}

func NewRouter(log *zap.Logger, tokens *utils.JWTManager, h Handlers, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, tokens, h, metrics)

	return r
}

func RegisterRoutes(r *gin.Engine, tokens *utils.JWTManager, h Handlers, metrics http.Handler) {
	r.GET("/healthz", h.Health.Healthz)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	var (
		customer  = middleware.RoleMiddleware(dbm.RoleCustomer)
		admin     = middleware.RoleMiddleware(dbm.RoleAdmin)
		managers  = middleware.RoleMiddleware(dbm.RoleAdmin, dbm.RolePlanManager)
		sellers   = middleware.RoleMiddleware(dbm.RoleAdmin, dbm.RoleRetailer)
		cancelers = middleware.RoleMiddleware(dbm.RoleCustomer, dbm.RoleAdmin, dbm.RolePlanManager)
	)

	authed := r.Group("/", middleware.JWTAuthMiddleware(tokens))

	plans := authed.Group("/plans")
	plans.GET("", h.Plans.ListPlans)
	plans.GET("/performance", managers, h.Analytics.PlanPerformance)
	plans.GET("/statistics", managers, h.Analytics.PlanStatistics)
	plans.GET("/:id", h.Plans.GetPlan)

	subs := authed.Group("/subscriptions")
	subs.POST("/subscribe", customer, h.Subscriptions.Subscribe)
	subs.POST("/create", sellers, h.Subscriptions.CreateForCustomer)
	subs.POST("/extend", admin, h.Subscriptions.Extend)
	subs.POST("/sweep", admin, h.Subscriptions.Sweep)
	subs.GET("", managers, h.Subscriptions.ListSubscriptions)
	subs.GET("/my", customer, h.Subscriptions.MySubscriptions)
	subs.GET("/statistics", managers, h.Analytics.SubscriptionStatistics)
	subs.GET("/:id", h.Subscriptions.GetSubscription)
	subs.PUT("/:id/cancel", cancelers, h.Subscriptions.Cancel)
	subs.PUT("/:id/reactivate", managers, h.Subscriptions.Reactivate)

	txns := authed.Group("/transactions")
	txns.POST("", sellers, h.Transactions.RecordTransaction)
	txns.GET("", admin, h.Transactions.ListTransactions)
	txns.GET("/my", customer, h.Transactions.MyTransactions)
	txns.GET("/my/monthly", customer, h.Transactions.MyMonthlySpending)
	txns.GET("/statistics", admin, h.Analytics.TransactionStatistics)
	txns.GET("/:id", admin, h.Transactions.GetTransaction)
	txns.PUT("/:id/fail", admin, h.Transactions.MarkFailed)
	txns.POST("/:id/retry", admin, h.Transactions.Retry)

	usage := authed.Group("/usage")
	usage.GET("/my", customer, h.Usage.MyUsage)
	usage.GET("/my/monthly", customer, h.Usage.MyMonthlyUsage)
	usage.GET("/my/patterns", customer, h.Usage.MyPatterns)
	usage.GET("/my/quota", customer, h.Usage.MyQuota)
	usage.GET("/statistics", managers, h.Usage.UsageStatistics)
	usage.GET("/heavy-users", managers, h.Usage.HeavyUsers)
	usage.GET("/subscriptions/:id", managers, h.Usage.SubscriptionUsage)
}
