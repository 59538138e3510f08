package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	JWTSecret      string   // secret used to sign JWTs
	AccessTTLMin   int      // access token time-to-live in minutes
	RefreshTTLDays int      // refresh token time-to-live in days
	BcryptCost     int      // bcrypt cost for password hashing
	LogLevel       string   // zerolog level name (debug, info, warn, error)
	CORSOrigins    []string // allowed browser origins for the dashboard front-end
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is read first when present;
// variables already set in the environment win.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine outside local development
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		CORSOrigins:    splitList(envStr("CORS_ORIGINS", "*")),
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
