package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	JWTSecret      string
	RedisAddr      string // Empty selects the in-memory cache
	RedisPassword  string
	RedisDB        int
	CacheTTL       time.Duration
	RateLimit      string // ulule/limiter formatted rate, e.g. "100-M"
	AllowedOrigins []string
	DBTimeout      time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET is using the default insecure key in production.")
	}

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cacheTTLStr := viper.GetString("CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 5 * time.Minute
		log.Printf("Warning: Invalid value for CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL)
	}
	cfg.CacheTTL = cacheTTL

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")

	dbTimeoutStr := viper.GetString("DB_TIMEOUT")
	dbTimeout, err := time.ParseDuration(dbTimeoutStr)
	if err != nil {
		dbTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for DB_TIMEOUT ('%s'). Defaulting to %s.\n", dbTimeoutStr, dbTimeout)
	}
	cfg.DBTimeout = dbTimeout

	return cfg, nil
}
