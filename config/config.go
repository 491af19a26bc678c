package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Provisioning ProvisioningConfig `mapstructure:"provisioning"`
	Orders       OrdersConfig       `mapstructure:"orders"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Log          LogConfig          `mapstructure:"log"`
	Admin        AdminConfig        `mapstructure:"admin"`
}

type ServerConfig struct {
	Port                 int           `mapstructure:"port"`
	BaseURL              string        `mapstructure:"base_url"`
	APIPrefix            string        `mapstructure:"api_prefix"`
	AllowedOrigins       []string      `mapstructure:"allowed_origins"`
	SlowRequestThreshold time.Duration `mapstructure:"slow_request_threshold"`
	ShutdownTimeout      time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"` // postgres | sqlite | mongo
	DSN            string        `mapstructure:"dsn"`
	MongoURI       string        `mapstructure:"mongo_uri"`
	MongoDatabase  string        `mapstructure:"mongo_database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	MenuTTL  time.Duration `mapstructure:"menu_ttl"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ProvisioningConfig struct {
	StaffPassword    string `mapstructure:"staff_password"`
	SubscriptionDays int    `mapstructure:"subscription_days"`
}

type OrdersConfig struct {
	VerifyCatalog bool `mapstructure:"verify_catalog"`
}

type SchedulerConfig struct {
	SubscriptionSweep string `mapstructure:"subscription_sweep"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	FullName string `mapstructure:"full_name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.slow_request_threshold", 200*time.Millisecond)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo_database", "qrmenu")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.menu_ttl", 5*time.Minute)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "qrmenu.events")

	v.SetDefault("provisioning.staff_password", "123456")
	v.SetDefault("provisioning.subscription_days", 30)

	v.SetDefault("orders.verify_catalog", false)

	v.SetDefault("scheduler.subscription_sweep", "@hourly")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	v.SetDefault("admin.email", "admin@qr-restaurant.com")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.full_name", "Admin User")
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment variables such as SERVER_PORT or AUTH_JWT_SECRET.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// short names used by existing deployments
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DB_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn (DB_URL) must be set for driver %s", c.Database.Driver)
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			return errors.New("database.mongo_uri must be set for driver mongo")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
