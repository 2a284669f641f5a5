package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used
// in the application: strings for identifiers and secrets, durations for
// the hold window and sweeper cadence.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	DBUser            string        // database username
	DBPass            string        // database password (optional)
	DBHost            string        // database host address
	DBPort            string        // database port number
	DBName            string        // database name
	JWTSecret         string        // secret used to verify bearer tokens
	HoldTTL           time.Duration // default seat hold window
	MaxHoldTTL        time.Duration // cap on caller-supplied hold windows
	SweepInterval     time.Duration // expiry sweeper cadence
	BookingCodePrefix string        // prefix for sequential booking codes
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message; the booking knobs
// have sensible defaults so a minimal .env can run the service.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),      // environment (dev/test/prod)
		Port:              must("APP_PORT"),     // port to bind the HTTP server
		DBUser:            must("DB_USER"),      // database user
		DBPass:            os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:            must("DB_HOST"),      // database host
		DBPort:            must("DB_PORT"),      // database port
		DBName:            must("DB_NAME"),      // database name
		JWTSecret:         must("JWT_SECRET"),   // secret used to verify JWTs
		HoldTTL:           durDefault("HOLD_TTL", 5*time.Minute),
		MaxHoldTTL:        durDefault("HOLD_TTL_MAX", 30*time.Minute),
		SweepInterval:     durDefault("SWEEP_INTERVAL", 30*time.Second),
		BookingCodePrefix: strDefault("BOOKING_CODE_PREFIX", "CNX"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// strDefault returns the variable's value or the default when unset.
func strDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durDefault parses the variable as a time.Duration, falling back to the
// default when unset or malformed.  Non-positive values are rejected the
// same way: a zero hold window or sweeper interval is never valid.
func durDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid duration for %s: %q, using default %s", key, v, def)
		return def
	}
	return d
}
