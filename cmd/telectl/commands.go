package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"telecore/internal/events"
	"telecore/internal/infra"
	"telecore/internal/metrics"
	"telecore/internal/models/db_models"
	"telecore/internal/repositories"
	"telecore/internal/services"
	"telecore/pkg/config"
	"telecore/pkg/logger"
	"telecore/pkg/utils"
)

type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv(envFile string) (*env, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.App.Env)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) openDB() (*gorm.DB, error) {
	if e.cfg.Database.Driver != config.DriverPostgres {
		return nil, errors.New("this command needs DB_DRIVER=postgres")
	}
	return infra.InitPostgresql(e.cfg.Database.DSN, e.log)
}

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(*envFile)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db, e.log)

			if err := infra.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newSweepCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire every ACTIVE subscription past its expiry date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(*envFile)
			if err != nil {
				return err
			}
			defer e.log.Sync()

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db, e.log)

			publisher := events.NewPublisher(e.cfg.Kafka.Brokers, e.cfg.Kafka.Topic, e.log)
			defer publisher.Close()

			svc := services.NewSubscriptionService(
				repositories.NewGormRepositories(db, nil),
				repositories.NewUnitOfWork(db, nil),
				utils.SystemClock{},
				metrics.NewLifecycleMetrics(metrics.NewRegistry()),
				publisher,
				e.log,
			)

			n, err := svc.SweepExpired(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d subscription(s)\n", n)
			return err
		},
	}
}

func newTokenCmd(envFile *string) *cobra.Command {
	var (
		user string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}

			id, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			if !db_models.Role(role).Valid() {
				return fmt.Errorf("--role must be one of ADMIN, PLAN_MANAGER, RETAILER, CUSTOMER")
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := utils.NewJWTManager(cfg.Auth.JWTSecret, ttl).CreateToken(id, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "account id (UUID)")
	cmd.Flags().StringVar(&role, "role", string(db_models.RoleCustomer), "account role")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to JWT_TTL")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
