package config // package config loads application configuration from environment variables

import (
	"os"

	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values. Required values are enforced
// by must(); the expiration policy falls back to the service defaults of a
// 10 minute access lifetime, a 3 hour refresh lifetime and 60 seconds of
// validation leeway.
type Config struct {
	Env           string // application environment (dev/test/prod)
	Port          string // HTTP port to listen on
	DBUser        string
	DBPass        string // optional
	DBHost        string
	DBPort        string
	DBName        string
	JWTSecret     string // secret used to sign credentials
	JWTAlgorithm  string // signing algorithm identifier (HMAC variants only)
	AccessTTLSec  int    // access credential lifetime in seconds
	RefreshTTLSec int    // refresh credential lifetime in seconds
	LeewaySec     int    // expiry-check leeway in seconds
	BcryptCost    int    // bcrypt cost for password hashing
	RabbitURL     string // optional; empty disables audit events
}

// Load reads configuration from the environment. Missing required variables
// abort startup.
func Load() Config {
	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8000"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		JWTAlgorithm:  envStr("JWT_ALGORITHM", "HS256"),
		AccessTTLSec:  envInt("ACCESS_TOKEN_TTL_SEC", 600),
		RefreshTTLSec: envInt("REFRESH_TOKEN_TTL_SEC", 10800),
		LeewaySec:     envInt("VALIDATE_LEEWAY_SEC", 60),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves a required environment variable or aborts.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("key", key).Msg("missing required env var")
	}
	return v
}
