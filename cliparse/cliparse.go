package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort           = 3318
	DefaultDatabaseType   = "sqlite"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultRequestTimeout = 10 * time.Second
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	CartAPIURL     string
	LoginURL       string
	TokenSalt      string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-cart", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.CartAPIURL, "cart-api", "", "Cart service base URL")
	fs.StringVar(&cfg.LoginURL, "login-url", "", "Sign-in page of the authentication provider")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Lifetime of session storage")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", 0, "Timeout for cart service calls")
	origins := fs.String("allowed-origins", "", "Comma-separated origins allowed to call the API cross-origin")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSalt, "token-salt", "", "Salt for token fingerprints in logs (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.CartAPIURL == "" {
		cfg.CartAPIURL = os.Getenv("CART_API_URL")
	}
	if cfg.CartAPIURL == "" {
		return Config{}, errors.New("cart API URL required (use -cart-api or CART_API_URL env)")
	}

	if cfg.LoginURL == "" {
		cfg.LoginURL = os.Getenv("LOGIN_URL")
	}
	if cfg.LoginURL == "" {
		return Config{}, errors.New("login URL required (use -login-url or LOGIN_URL env)")
	}

	var err error
	if cfg.SessionTTL, err = durationFromEnv(cfg.SessionTTL, "SESSION_TTL", DefaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationFromEnv(cfg.RequestTimeout, "REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return Config{}, err
	}

	if *origins == "" {
		*origins = os.Getenv("ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = splitList(*origins)

	// Secrets - MUST be provided
	if cfg.TokenSalt == "" {
		cfg.TokenSalt = os.Getenv("TOKEN_SALT")
	}
	if cfg.TokenSalt == "" {
		return Config{}, errors.New("TOKEN_SALT required")
	}

	return cfg, nil
}

func durationFromEnv(flagValue time.Duration, env string, def time.Duration) (time.Duration, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
