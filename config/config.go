package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Remote AAFA backend.
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`

	// Redis configuration for the client-side durable stores.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisOrdersDB  int    `mapstructure:"REDIS_ORDERS_DB"`

	// Poll intervals for the order reconciler.
	NotificationPollSeconds int `mapstructure:"NOTIFICATION_POLL_SECONDS"`
	TrackingPollSeconds     int `mapstructure:"TRACKING_POLL_SECONDS"`

	// Geolocation acquisition bound.
	LocationTimeoutSeconds int `mapstructure:"LOCATION_TIMEOUT_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("API_BASE_URL", "https://aafa.mycartly.in/api")
	viper.SetDefault("API_TIMEOUT_SECONDS", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_ORDERS_DB", 1)
	viper.SetDefault("NOTIFICATION_POLL_SECONDS", 10)
	viper.SetDefault("TRACKING_POLL_SECONDS", 5)
	viper.SetDefault("LOCATION_TIMEOUT_SECONDS", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// NotificationPollInterval returns the reconciler's notification poll cadence.
func NotificationPollInterval() time.Duration {
	secs := AppConfig.NotificationPollSeconds
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

// TrackingPollInterval returns the live-tracking poll cadence.
func TrackingPollInterval() time.Duration {
	secs := AppConfig.TrackingPollSeconds
	if secs <= 0 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}

// LocationTimeout bounds a single geolocation acquisition.
func LocationTimeout() time.Duration {
	secs := AppConfig.LocationTimeoutSeconds
	if secs <= 0 {
		secs = 15
	}
	return time.Duration(secs) * time.Second
}
