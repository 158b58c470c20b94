package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv    string `mapstructure:"APP_ENV"`
	Server    ServerConfig
	Store     StoreConfig
	Seed      SeedConfig
	Redis     RedisConfig
	Reconcile ReconcileConfig
	LogLevel  string `mapstructure:"LOG_LEVEL"`
}

type ServerConfig struct {
	Port    string        `mapstructure:"SERVER_PORT"`
	Timeout time.Duration `mapstructure:"SERVER_TIMEOUT"`
}

type StoreConfig struct {
	Path string `mapstructure:"STORE_PATH"`
}

type SeedConfig struct {
	// Source is a file path or http(s) URL of the seed document.
	Source string `mapstructure:"SEED_SOURCE"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type ReconcileConfig struct {
	Interval        time.Duration `mapstructure:"RECONCILE_INTERVAL"`
	NotificationTTL time.Duration `mapstructure:"NOTIFICATION_TTL"`
	EventBuffer     int           `mapstructure:"EVENT_BUFFER"`
}

func Load() (*Config, error) {
	// .env dosyası opsiyonel, ortam değişkenleri yeterli.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SERVER_PORT", "8085")
	viper.SetDefault("SERVER_TIMEOUT", "30s")
	viper.SetDefault("STORE_PATH", "machflow.db")
	viper.SetDefault("SEED_SOURCE", "data.json")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("RECONCILE_INTERVAL", "3s")
	viper.SetDefault("NOTIFICATION_TTL", "4s")
	viper.SetDefault("EVENT_BUFFER", 16)
	viper.SetDefault("LOG_LEVEL", "info")

	var cfg Config

	cfg.AppEnv = viper.GetString("APP_ENV")
	cfg.Server.Port = viper.GetString("SERVER_PORT")
	cfg.Server.Timeout = viper.GetDuration("SERVER_TIMEOUT")

	cfg.Store.Path = viper.GetString("STORE_PATH")
	cfg.Seed.Source = viper.GetString("SEED_SOURCE")

	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")
	cfg.Redis.Password = viper.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = viper.GetInt("REDIS_DB")

	cfg.Reconcile.Interval = viper.GetDuration("RECONCILE_INTERVAL")
	cfg.Reconcile.NotificationTTL = viper.GetDuration("NOTIFICATION_TTL")
	cfg.Reconcile.EventBuffer = viper.GetInt("EVENT_BUFFER")

	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	return &cfg, nil
}
