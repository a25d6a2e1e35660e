package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env               string        `mapstructure:"ENV"`
	Port              string        `mapstructure:"PORT"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	AdminKey          string        `mapstructure:"ADMIN_KEY"`
	NotifyURL         string        `mapstructure:"NOTIFY_URL"`
	CORSAllowed       string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SweepInterval     time.Duration `mapstructure:"SWEEP_INTERVAL"`
	CleanupInterval   time.Duration `mapstructure:"CLEANUP_INTERVAL"`
	TaskRetentionDays int           `mapstructure:"TASK_RETENTION_DAYS"`
	WarningWindow     time.Duration `mapstructure:"WARNING_WINDOW"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SWEEP_INTERVAL", "5m")
	v.SetDefault("CLEANUP_INTERVAL", "1h")
	v.SetDefault("TASK_RETENTION_DAYS", 30)
	v.SetDefault("WARNING_WINDOW", "30m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
