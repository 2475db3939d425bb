// Package config loads runtime settings from an env file and the process environment
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Facility sources
const (
	FacilitySourceFile     = "file"
	FacilitySourcePostgres = "postgres"
)

// Config stores all configuration of the application
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`

	FacilitySource string `mapstructure:"FACILITY_SOURCE"`
	FacilitiesFile string `mapstructure:"FACILITIES_FILE"`
	// Divisions is a comma separated list; ClosestDepot is reported for each entry
	Divisions          string `mapstructure:"DIVISIONS"`
	DefaultDisplayMode string `mapstructure:"DEFAULT_DISPLAY_MODE"`

	GoogleAPIKey     string        `mapstructure:"GOOGLE_API_KEY"`
	GeocodeBaseURL   string        `mapstructure:"GEOCODE_BASE_URL"`
	GeocodeRateLimit float64       `mapstructure:"GEOCODE_RATE_LIMIT"`
	GeocodeTimeout   time.Duration `mapstructure:"GEOCODE_TIMEOUT"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// LoadConfig reads app.env from path, then lets environment variables (including
// those from a .env file in the working directory) override it
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("FACILITY_SOURCE", FacilitySourceFile)
	v.SetDefault("FACILITIES_FILE", filepath.Join(path, "facilities.yaml"))
	v.SetDefault("DIVISIONS", "BFG,BCD")
	v.SetDefault("DEFAULT_DISPLAY_MODE", "Default")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("GEOCODE_BASE_URL", "")
	v.SetDefault("GEOCODE_RATE_LIMIT", 10)
	v.SetDefault("GEOCODE_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DivisionList splits Divisions, dropping blanks
func (c Config) DivisionList() []string {
	var out []string
	for _, d := range strings.Split(c.Divisions, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func (c Config) validate() error {
	switch c.FacilitySource {
	case FacilitySourceFile:
		if c.FacilitiesFile == "" {
			return errors.New("config: FACILITIES_FILE is required for the file facility source")
		}
	case FacilitySourcePostgres:
		if c.DBSource == "" {
			return errors.New("config: DB_SOURCE is required for the postgres facility source")
		}
	default:
		return fmt.Errorf("config: unknown FACILITY_SOURCE %q", c.FacilitySource)
	}

	switch c.DefaultDisplayMode {
	case "Full", "Header", "Default":
	default:
		return fmt.Errorf("config: unknown DEFAULT_DISPLAY_MODE %q", c.DefaultDisplayMode)
	}
	return nil
}
