package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"telecore/cmd/fx/auth_fx"
	"telecore/cmd/fx/config_fx"
	"telecore/cmd/fx/controllers_fx"
	"telecore/cmd/fx/db_fx"
	"telecore/cmd/fx/events_fx"
	"telecore/cmd/fx/jobs_fx"
	"telecore/cmd/fx/logger_fx"
	"telecore/cmd/fx/metrics_fx"
	"telecore/cmd/fx/services_fx"
	"telecore/internal/api"
	"telecore/pkg/config"
	"telecore/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		events_fx.Module,
		db_fx.Module,
		auth_fx.Module,
		services_fx.Module,
		controllers_fx.Module,
		jobs_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("Starting HTTP server", zap.String("addr", server.Addr))
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(cfg *config.Config, log *zap.Logger, tokens *utils.JWTManager, registry *prometheus.Registry, h api.Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return api.NewRouter(log, tokens, h, metrics)
}
