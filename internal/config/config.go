package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration (file + env overrides)
type Config struct {
	Server struct {
		Addr     string `mapstructure:"addr"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`

	Postgres struct {
		Host         string `mapstructure:"host"`
		Port         int    `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		DBName       string `mapstructure:"db_name"`
		SSLMode      string `mapstructure:"ssl_mode"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"postgres"`

	Providers struct {
		GeoURL                 string `mapstructure:"geo_url"`
		WeatherURL             string `mapstructure:"weather_url"`
		TimeoutSeconds         int    `mapstructure:"timeout_seconds"`
		GeoTTLSeconds          int    `mapstructure:"geo_ttl_seconds"`
		WeatherTTLSeconds      int    `mapstructure:"weather_ttl_seconds"`
		BreakerThreshold       int    `mapstructure:"breaker_threshold"`
		BreakerCooldownSeconds int    `mapstructure:"breaker_cooldown_seconds"`
	} `mapstructure:"providers"`

	CampaignCache struct {
		TTLSeconds int `mapstructure:"ttl_seconds"`
	} `mapstructure:"campaign_cache"`

	Listener struct {
		Channel          string `mapstructure:"channel"`
		ReconnectSeconds int    `mapstructure:"reconnect_seconds"`
	} `mapstructure:"listener"`

	Analytics struct {
		QueueSize int `mapstructure:"queue_size"`
	} `mapstructure:"analytics"`
}

func Load() Config {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}
	validate(&cfg)
	return cfg
}

func validate(c *Config) {
	if c.Server.Addr == "" { c.Server.Addr = ":8080" }
	if c.Postgres.Port == 0 { c.Postgres.Port = 5432 }
	if c.Postgres.SSLMode == "" { c.Postgres.SSLMode = "disable" }
	if c.Postgres.MaxOpenConns == 0 { c.Postgres.MaxOpenConns = 10 }
	if c.Postgres.MaxIdleConns == 0 { c.Postgres.MaxIdleConns = 10 }
	if c.Providers.GeoURL == "" { c.Providers.GeoURL = "http://ip-api.com/json" }
	if c.Providers.WeatherURL == "" { c.Providers.WeatherURL = "https://api.open-meteo.com/v1/forecast" }
	if c.Providers.TimeoutSeconds <= 0 { c.Providers.TimeoutSeconds = 5 }
	if c.Providers.GeoTTLSeconds <= 0 { c.Providers.GeoTTLSeconds = 600 }
	if c.Providers.WeatherTTLSeconds <= 0 { c.Providers.WeatherTTLSeconds = 300 }
	if c.Providers.BreakerThreshold <= 0 { c.Providers.BreakerThreshold = 3 }
	if c.Providers.BreakerCooldownSeconds <= 0 { c.Providers.BreakerCooldownSeconds = 30 }
	if c.CampaignCache.TTLSeconds <= 0 { c.CampaignCache.TTLSeconds = 30 }
	if c.Listener.ReconnectSeconds <= 0 { c.Listener.ReconnectSeconds = 5 }
	if c.Analytics.QueueSize <= 0 { c.Analytics.QueueSize = 1024 }
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.DBName,
		c.Postgres.SSLMode,
	)
}

func (c Config) Backoff() time.Duration { return time.Duration(c.Listener.ReconnectSeconds) * time.Second }

func (c Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSeconds) * time.Second
}

func (c Config) GeoTTL() time.Duration { return time.Duration(c.Providers.GeoTTLSeconds) * time.Second }

func (c Config) WeatherTTL() time.Duration {
	return time.Duration(c.Providers.WeatherTTLSeconds) * time.Second
}

func (c Config) BreakerCooldown() time.Duration {
	return time.Duration(c.Providers.BreakerCooldownSeconds) * time.Second
}

func (c Config) CampaignTTL() time.Duration {
	return time.Duration(c.CampaignCache.TTLSeconds) * time.Second
}
