package jobs_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"telecore/internal/jobs"
	"telecore/internal/services"
	"telecore/pkg/config"
)

var Module = fx.Options(
	fx.Provide(provideSweeper),
	fx.Invoke(startSweeper),
)

func provideSweeper(cfg *config.Config, subscriptions services.SubscriptionService, log *zap.Logger) *jobs.Sweeper {
	return jobs.NewSweeper(jobs.SweeperConfig{
		Enabled:  cfg.Sweep.Enabled,
		Schedule: cfg.Sweep.Schedule,
	}, subscriptions.SweepExpired, log)
}

func startSweeper(lc fx.Lifecycle, sweeper *jobs.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
