package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Port string
		Env  string
	}
	Database struct {
		// "postgres" or "memory"
		Driver string
		DSN    string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		PlanTTL  time.Duration
	}
	Kafka struct {
		Brokers []string
		Topic   string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Sweep struct {
		Enabled  bool
		Schedule string
	}
	Log struct {
		Level string
	}
}

var envKeys = map[string]string{
	"app.port":        "APP_PORT",
	"app.env":         "APP_ENV",
	"database.driver": "DB_DRIVER",
	"database.dsn":    "POSTGRES_URL",
	"redis.addr":      "REDIS_ADDR",
	"redis.password":  "REDIS_PASSWORD",
	"redis.db":        "REDIS_DB",
	"redis.plan_ttl":  "PLAN_CACHE_TTL",
	"kafka.brokers":   "KAFKA_BROKERS",
	"kafka.topic":     "KAFKA_TOPIC",
	"auth.jwt_secret": "JWT_SECRET",
	"auth.token_ttl":  "JWT_TTL",
	"sweep.enabled":   "SWEEP_ENABLED",
	"sweep.schedule":  "SWEEP_SCHEDULE",
	"log.level":       "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.plan_ttl", 10*time.Minute)
	v.SetDefault("kafka.topic", "subscription_lifecycle")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.schedule", "@every 1h")
	v.SetDefault("log.level", "info")
}

// Load reads an optional .env file (skipped in production) and then the
// process environment.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	// Bound keys are resolved lazily, so values loaded here are still picked up.
	if !strings.EqualFold(v.GetString("app.env"), "production") || envFile != "" {
		if envFile == "" {
			envFile = ".env"
		}
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	cfg.App.Port = v.GetString("app.port")
	cfg.App.Env = v.GetString("app.env")
	cfg.Database.Driver = strings.ToLower(v.GetString("database.driver"))
	cfg.Database.DSN = v.GetString("database.dsn")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.PlanTTL = v.GetDuration("redis.plan_ttl")
	cfg.Kafka.Brokers = splitList(v.GetString("kafka.brokers"))
	cfg.Kafka.Topic = v.GetString("kafka.topic")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	cfg.Sweep.Enabled = v.GetBool("sweep.enabled")
	cfg.Sweep.Schedule = v.GetString("sweep.schedule")
	cfg.Log.Level = v.GetString("log.level")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("config: POSTGRES_URL is required when DB_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return errors.New("config: DB_DRIVER must be postgres or memory")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
