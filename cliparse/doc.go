// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file can be loaded first; values already in the environment win:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - CartAPIURL: base URL of the cart service (required)
  - LoginURL: sign-in page of the authentication provider (required)
  - TokenSalt: secret for token fingerprints in logs (required)
  - SessionTTL: lifetime of session storage (default: 24h)
  - RequestTimeout: bound on cart service calls (default: 10s)
  - AllowedOrigins: storefront origins allowed cross-origin (default: none)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--cart-api        Cart service base URL
	--login-url       Sign-in URL
	--token-salt      Token fingerprint salt
	--session-ttl     Session storage lifetime
	--request-timeout Cart call timeout
	--allowed-origins Comma-separated CORS origins

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	CART_API_URL    → --cart-api
	LOGIN_URL       → --login-url
	TOKEN_SALT      → --token-salt
	SESSION_TTL     → --session-ttl
	REQUEST_TIMEOUT → --request-timeout
	ALLOWED_ORIGINS → --allowed-origins

CLI flags take precedence over environment variables.
*/
package cliparse
