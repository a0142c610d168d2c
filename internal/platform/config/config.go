package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultAccessTokenSecret  = "default_insecure_access_secret_please_change_this_!@#$"
	defaultRefreshTokenSecret = "default_insecure_refresh_secret_please_change_this_!@#$"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	DBMaxConns    int32

	// Session tokens
	JWTIssuer                  string
	AccessTokenSecret          string
	AccessTokenExpiryDuration  time.Duration
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration
	PasswordHashCost           int
	CookieSecure               bool
	CookieDomain               string
	LoginRateLimit             string
	CORSAllowedOrigins         []string
	ResetTokenExpiryDuration   time.Duration
	PostLoginRedirectURL       string
	FrontendBaseURL            string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string

	// Outbound email
	ResendAPIKey     string
	EmailFrom        string
	EmailSendTimeout time.Duration

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_ISSUER", "lingua-app")
	v.SetDefault("ACCESS_TOKEN_SECRET", defaultAccessTokenSecret)
	v.SetDefault("ACCESS_TOKEN_EXPIRY_DURATION", "15m")
	v.SetDefault("REFRESH_TOKEN_SECRET", defaultRefreshTokenSecret)
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	v.SetDefault("PASSWORD_HASH_COST", 12)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RESET_TOKEN_EXPIRY_DURATION", "1h")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("POST_LOGIN_REDIRECT_URL", "http://localhost:3000/dashboard")
	v.SetDefault("EMAIL_FROM", "Lingua <onboarding@resend.dev>")
	v.SetDefault("EMAIL_SEND_TIMEOUT", "10s")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:         v.GetInt32("DB_MAX_CONNS"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		AccessTokenSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: v.GetString("REFRESH_TOKEN_SECRET"),
		PasswordHashCost:   v.GetInt("PASSWORD_HASH_COST"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		CookieDomain:       v.GetString("COOKIE_DOMAIN"),
		LoginRateLimit:     v.GetString("LOGIN_RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		FrontendBaseURL:    strings.TrimRight(v.GetString("FRONTEND_BASE_URL"), "/"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:  v.GetString("GITHUB_REDIRECT_URL"),
		ResendAPIKey:       v.GetString("RESEND_API_KEY"),
		EmailFrom:          v.GetString("EMAIL_FROM"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
	}

	cfg.PostLoginRedirectURL = v.GetString("POST_LOGIN_REDIRECT_URL")

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
		log.Printf("Warning: DB_MAX_CONNS must be positive. Defaulting to %d.\n", cfg.DBMaxConns)
	}

	cfg.AccessTokenExpiryDuration = durationOrDefault(v, "ACCESS_TOKEN_EXPIRY_DURATION", 15*time.Minute)
	cfg.RefreshTokenExpiryDuration = durationOrDefault(v, "REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.ResetTokenExpiryDuration = durationOrDefault(v, "RESET_TOKEN_EXPIRY_DURATION", time.Hour)
	cfg.EmailSendTimeout = durationOrDefault(v, "EMAIL_SEND_TIMEOUT", 10*time.Second)

	// bcrypt accepts 4..31; anything outside falls back to the default cost.
	if cfg.PasswordHashCost < 4 || cfg.PasswordHashCost > 31 {
		log.Printf("Warning: Invalid value for PASSWORD_HASH_COST (%d). Defaulting to 12.\n", cfg.PasswordHashCost)
		cfg.PasswordHashCost = 12
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must not be empty")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if cfg.AccessTokenSecret == defaultAccessTokenSecret || cfg.RefreshTokenSecret == defaultRefreshTokenSecret {
		if cfg.IsProduction {
			return nil, errors.New("token secrets must be set explicitly in production")
		}
		log.Println("Warning: using default insecure token secrets. THIS IS NOT FOR PRODUCTION.")
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID/SECRET/REDIRECT_URL not fully set. Google OAuth will not function.")
	}
	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" || cfg.GitHubRedirectURL == "" {
		log.Println("Warning: GITHUB_CLIENT_ID/SECRET/REDIRECT_URL not fully set. GitHub OAuth will not function.")
	}
	if cfg.ResendAPIKey == "" {
		log.Println("Warning: RESEND_API_KEY not set. Password reset emails will only be logged.")
	}

	return cfg, nil
}

func durationOrDefault(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
