package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig_JWTConfig(t *testing.T) {
	tests := []struct {
		name        string
		auth        AuthConfig
		wantErr     string
		wantIssuer  string
		description string
	}{
		{
			name:        "valid",
			auth:        AuthConfig{JWTSecret: "0123456789abcdef", JWTIssuer: "site", JWTExpirationHours: 24},
			wantIssuer:  "site",
			description: "should accept a 16 character secret",
		},
		{
			name:        "default issuer",
			auth:        AuthConfig{JWTSecret: "0123456789abcdef", JWTExpirationHours: 1},
			wantIssuer:  "portfolio",
			description: "should fill in the issuer",
		},
		{
			name:        "missing secret",
			auth:        AuthConfig{JWTExpirationHours: 24},
			wantErr:     "JWT_SECRET cannot be empty",
			description: "should require a secret",
		},
		{
			name:        "short secret",
			auth:        AuthConfig{JWTSecret: "short", JWTExpirationHours: 24},
			wantErr:     "at least 16 characters",
			description: "should reject short secrets",
		},
		{
			name:        "zero expiration",
			auth:        AuthConfig{JWTSecret: "0123456789abcdef", JWTExpirationHours: 0},
			wantErr:     "JWT_EXPIRATION_HOURS",
			description: "should reject expiration under one hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.auth.JWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err, tt.description)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err, tt.description)
			assert.Equal(t, tt.auth.JWTSecret, cfg.Secret)
			assert.Equal(t, tt.auth.JWTExpirationHours, cfg.ExpirationHours)
			assert.Equal(t, tt.wantIssuer, cfg.Issuer)
		})
	}
}
