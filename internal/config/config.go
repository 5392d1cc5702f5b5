// README: Config loader; .env file, RIDO_* environment variables with defaults, validated.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type PricingConfig struct {
	Timezone  string `validate:"required"`
	ZoneMatch string `validate:"oneof=substring token"`
}

// Location loads the time zone whose wall clock decides peak hours.
func (c PricingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type RideConfig struct {
	StepInterval time.Duration `validate:"gt=0"`
	TTL          time.Duration `validate:"gt=0"`
}

type Config struct {
	HTTP struct {
		Addr        string `validate:"required"`
		CORSOrigins []string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string `validate:"required"`
	}
	Maps struct {
		APIKey        string        `validate:"required"`
		City          string        `validate:"required"`
		RouteCacheTTL time.Duration `validate:"gt=0"`
	}
	Pricing PricingConfig
	Session struct {
		TTL time.Duration `validate:"gt=0"`
	}
	Ride RideConfig
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: reading .env: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("RIDO")
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CITY", "Bengaluru")
	v.SetDefault("ROUTE_CACHE_TTL", "6h")
	v.SetDefault("TIMEZONE", "Asia/Kolkata")
	v.SetDefault("ZONE_MATCH", "substring")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("RIDE_STEP", "40ms")
	v.SetDefault("RIDE_TTL", "2h")

	var cfg Config
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	cfg.HTTP.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.DB.DSN = v.GetString("DB_DSN")
	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Maps.APIKey = v.GetString("MAPS_API_KEY")
	cfg.Maps.City = v.GetString("CITY")
	cfg.Maps.RouteCacheTTL = v.GetDuration("ROUTE_CACHE_TTL")
	cfg.Pricing.Timezone = v.GetString("TIMEZONE")
	cfg.Pricing.ZoneMatch = strings.ToLower(v.GetString("ZONE_MATCH"))
	cfg.Session.TTL = v.GetDuration("SESSION_TTL")
	cfg.Ride.StepInterval = v.GetDuration("RIDE_STEP")
	cfg.Ride.TTL = v.GetDuration("RIDE_TTL")

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Pricing.Location(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
