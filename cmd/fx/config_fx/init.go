package config_fx

import (
	"os"

	"go.uber.org/fx"

	"telecore/pkg/config"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (*config.Config, error) {
	return config.Load(os.Getenv("ENV_FILE"))
}
