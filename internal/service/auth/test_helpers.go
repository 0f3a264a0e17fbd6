package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/g-celente/case-watch-back/internal/config"
)

// DefaultJWTConfig is the canonical auth config for tests: a fixed 32-byte
// secret with one-hour access and one-day refresh lifetimes.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

// NewTestJWTService builds a real JWT service from DefaultJWTConfig.
func NewTestJWTService() (JWTService, error) {
	return NewJWTService(DefaultJWTConfig())
}

// RequireTestJWTService is NewTestJWTService with failure handling folded
// into the test.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewTestJWTService()
	require.NoError(t, err, "failed to create test JWT service")
	return service
}
