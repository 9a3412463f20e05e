package services_fx

import (
	"go.uber.org/fx"

	"telecore/internal/repositories"
	"telecore/internal/services"
	"telecore/pkg/utils"
)

var Module = fx.Provide(
	provideClock,
	services.NewHeuristicScorer,
	provideTransactionRepo,
	providePlanRepo,
	services.NewPlanService,
	services.NewSubscriptionService,
	services.NewTransactionService,
	services.NewAnalyticsService,
	services.NewUsageService,
)

func provideClock() utils.Clock {
	return utils.SystemClock{}
}

func provideTransactionRepo(repos repositories.Repositories) repositories.TransactionRepository {
	return repos.Transactions
}

func providePlanRepo(repos repositories.Repositories) repositories.IPlanRepository {
	return repos.Plans
}
