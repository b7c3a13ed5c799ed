package config

import "errors"

var (
	ErrBaseURLEmpty   = errors.New("BASE_URL is empty")
	ErrInvalidBaseURL = errors.New("BASE_URL is invalid")

	ErrDatabaseURLEmpty = errors.New("DATABASE_URL is empty")
	ErrJWTSecretEmpty   = errors.New("JWT_SECRET is empty")

	ErrInvalidDuration = errors.New("invalid duration env")
	ErrInvalidInt      = errors.New("invalid int env")
	ErrInvalidBool     = errors.New("invalid bool env")

	ErrInvalidDBPool    = errors.New("invalid db pool config")
	ErrInvalidRateLimit = errors.New("invalid rate limit")
	ErrInvalidTimezone  = errors.New("invalid analytics timezone")
	ErrInvalidClickPool = errors.New("invalid click pool config")

	ErrInvalidTrustedProxy = errors.New("invalid TRUSTED_PROXIES entry")
)
