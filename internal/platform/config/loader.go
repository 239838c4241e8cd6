package config

import (
	"log"

	"github.com/spf13/viper"
)

var AppConfig Config

func LoadConfig() (*Config, error) {
	viper.SetConfigName("app-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config into struct: %s", err)
	}

	applyDefaults(&AppConfig)

	log.Println("Configuration loaded successfully.")
	return &AppConfig, nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 15
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 7
	}
	if cfg.Session.TTLDays == 0 {
		cfg.Session.TTLDays = 7
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "sid"
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "user_auth"
	}
	if cfg.Cookie.MaxAgeDays == 0 {
		cfg.Cookie.MaxAgeDays = 7
	}
	if cfg.Queue.Name == "" {
		cfg.Queue.Name = "orders:events"
	}
	if cfg.Queue.PurgeIntervalMinutes == 0 {
		cfg.Queue.PurgeIntervalMinutes = 60
	}
}
