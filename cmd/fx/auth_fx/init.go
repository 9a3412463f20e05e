package auth_fx

import (
	"go.uber.org/fx"

	"telecore/pkg/config"
	"telecore/pkg/utils"
)

var Module = fx.Provide(provideJWTManager)

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}
