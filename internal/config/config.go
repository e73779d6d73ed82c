package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	// Logging
	LogDir      string // Empty disables the file sink
	LogMaxFiles int
	// Roster cache
	RedisURL               string        // Empty selects the in-process cache
	RosterCacheTTL         time.Duration // 0 = entries never expire
	RosterRefreshInterval  time.Duration // 0 = no scheduled refresh
	RosterFetchConcurrency int
	// Export
	ExportImageTimeout time.Duration
	MinioEndpoint      string // Empty disables stored exports
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioRegion        string
	MinioUseSSL        bool
	ExportURLTTL       time.Duration
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:5173"),
		TablePrefix:     tablePrefix,

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		RedisURL:               getEnv("REDIS_URL", ""),
		RosterCacheTTL:         getEnvDuration("ROSTER_CACHE_TTL", 0),
		RosterRefreshInterval:  getEnvDuration("ROSTER_REFRESH_INTERVAL", 0),
		RosterFetchConcurrency: getEnvInt("ROSTER_FETCH_CONCURRENCY", DefaultRosterFetchConcurrency),

		ExportImageTimeout: getEnvDuration("EXPORT_IMAGE_TIMEOUT", 10*time.Second),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:        getEnv("MINIO_BUCKET", "quiz-exports"),
		MinioRegion:        getEnv("MINIO_REGION", ""),
		MinioUseSSL:        getEnv("MINIO_USE_SSL", "true") == "true",
		ExportURLTTL:       getEnvDuration("EXPORT_URL_TTL", 15*time.Minute),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// AuthEnabled reports whether incoming requests must carry a Supabase JWT.
// Only a dev environment without a Supabase URL runs unauthenticated.
func (c *Config) AuthEnabled() bool {
	return c.SupabaseJWKSURL != "" || c.Environment != "dev"
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset or not a positive integer.
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// getEnvDuration parses Go duration strings ("90s", "15m"). "0" is a valid value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
