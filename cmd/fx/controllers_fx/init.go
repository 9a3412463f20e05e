package controllers_fx

import (
	"go.uber.org/fx"

	"telecore/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewHealthController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewTransactionController),
	fx.Provide(controllers.NewAnalyticsController),
	fx.Provide(controllers.NewUsageController),
)
