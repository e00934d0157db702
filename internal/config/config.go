package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings are used for identifiers and secrets,
// ints for durations and costs.  Optional integrations (redis, rabbitmq,
// the Groq provider key) use getenv defaults so the server can still boot
// in a minimal environment.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	BcryptCost      int    // bcrypt cost for password hashing
	SessionTTLHours int    // session lifetime in hours; sessions expire this long after login
	GroqAPIKey      string // API key for the Groq explanation provider
	GroqBaseURL     string // base URL of the Groq OpenAI-compatible API
	GroqModel       string // model used for emoji explanations
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env/.env.local file is loaded first when present; values from
// the process environment always win.  Required variables are enforced by
// must() and missing values cause the program to exit with a fatal log
// message.
func Load() Config {
	loadDotEnv()
	return Config{
		Env:             must("APP_ENV"),      // environment (dev/test/prod)
		Port:            must("APP_PORT"),     // port to bind the HTTP server
		DBUser:          must("DB_USER"),      // database user
		DBPass:          os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:          must("DB_HOST"),      // database host
		DBPort:          must("DB_PORT"),      // database port
		DBName:          must("DB_NAME"),      // database name
		BcryptCost:      mustInt("BCRYPT_COST"),
		SessionTTLHours: envInt("SESSION_TTL_HOURS", 24),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:     envStr("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:       envStr("GROQ_MODEL", "llama3-8b-8192"),
	}
}

// loadDotEnv loads .env files with priority: .env.local > .env.
// godotenv.Load does not overwrite already-set env vars, so OS env vars
// always win and .env.local wins over .env.
func loadDotEnv() {
	candidates := []string{".env.local", ".env"}
	var found []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			found = append(found, f)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
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

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
