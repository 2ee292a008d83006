package globals

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dotenv holds the optional .env file. It is read directly instead of
// loaded into the process environment so configuration consumers see it
// regardless of package initialization order.
var dotenv, _ = godotenv.Read()

// Env returns a configuration value: process environment first, then the
// .env file, then the fallback.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := dotenv[key]; v != "" {
		return v
	}
	return fallback
}

var JwtSecret = []byte(Env("JWT_SECRET", "change_me_in_production"))

// JwtExpiry is how long issued session tokens stay valid.
var JwtExpiry = func() time.Duration {
	if d, err := time.ParseDuration(Env("JWT_EXPIRY", "")); err == nil {
		return d
	}
	return 90 * 24 * time.Hour
}()

// Context keys
type ContextKey string

const UserKey ContextKey = "user"

var Ctx = context.Background()
