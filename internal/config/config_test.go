package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:  "secure-secret-at-least-32-chars-long",
			Port:       "4000",
			DBPassword: "secure-password",
			DBSSLMode:  "require",
			Env:        "development",
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid development", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Default secret in development", func(c *Config) {
			c.JWTSecret = "your-secret-key-change-in-production"
		}, false},
		{"Default secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Short secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"Default DB password in production", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "password"
		}, true},
		{"Empty DB password in production", func(c *Config) {
			c.Env = "production"
			c.DBPassword = ""
		}, true},
		{"Strong production config", func(c *Config) { c.Env = "production" }, false},
		{"Weak DB password in development", func(c *Config) { c.DBPassword = "password" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
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
