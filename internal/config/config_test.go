package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:                 "8460",
			JWTSecret:            "secure-secret-at-least-32-chars-long",
			DBPassword:           "secure-password",
			DBSSLMode:            "require",
			RedisURL:             "localhost:6379",
			Env:                  "development",
			RemoteTimeoutSeconds: 10,
		}
	}

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		c := base()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		c := base()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("non-positive remote timeout", func(t *testing.T) {
		c := base()
		c.RemoteTimeoutSeconds = 0
		assert.Error(t, c.Validate())
	})
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid production config", func(c *Config) {}, false},
		{"default jwt secret", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }, true},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"weak db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disabled", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"ssl empty", func(c *Config) { c.DBSSLMode = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Port:                 "8460",
				JWTSecret:            "secure-secret-at-least-32-chars-long",
				DBPassword:           "secure-password",
				DBSSLMode:            "verify-full",
				Env:                  "production",
				RemoteTimeoutSeconds: 10,
			}
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
