package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"telecore/internal/infra"
	"telecore/internal/repositories"
	"telecore/internal/repositories/memory"
	"telecore/pkg/config"
)

var Module = fx.Provide(provideStorage)

type storageOut struct {
	fx.Out

	Repositories repositories.Repositories
	UnitOfWork   repositories.UnitOfWork
}

func provideStorage(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (storageOut, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return storageOut{Repositories: store.Repositories(), UnitOfWork: store.UnitOfWork()}, nil
	}

	db, err := infra.InitPostgresql(cfg.Database.DSN, log)
	if err != nil {
		return storageOut{}, err
	}
	if err := infra.Migrate(db); err != nil {
		infra.ClosePostgresql(db, log)
		return storageOut{}, err
	}
	lc.Append(fx.StopHook(func() { infra.ClosePostgresql(db, log) }))

	plans := providePlanRepository(lc, cfg, db, log)
	return storageOut{
		Repositories: repositories.NewGormRepositories(db, plans),
		UnitOfWork:   repositories.NewUnitOfWork(db, plans),
	}, nil
}

// providePlanRepository puts the Redis read-through cache in front of the
// catalog when REDIS_ADDR is set and reachable.
func providePlanRepository(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) repositories.IPlanRepository {
	base := repositories.NewPlanRepository(db)
	if cfg.Redis.Addr == "" {
		return base
	}

	client, err := infra.InitRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Warn("Plan cache disabled", zap.Error(err))
		return base
	}
	lc.Append(fx.StopHook(client.Close))
	return repositories.NewCachedPlanRepository(base, client, cfg.Redis.PlanTTL, log)
}
