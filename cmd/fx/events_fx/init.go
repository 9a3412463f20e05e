package events_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"telecore/internal/events"
	"telecore/pkg/config"
)

var Module = fx.Provide(providePublisher)

func providePublisher(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) events.Publisher {
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	lc.Append(fx.StopHook(publisher.Close))
	return publisher
}
