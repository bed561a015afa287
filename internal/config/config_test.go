package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func devConfig() *Config {
	return &Config{
		JWTSecret:  "dev-secret",
		Port:       "3000",
		DBPassword: "password",
		Env:        "development",
		UploadDir:  "public/uploads",
		AvatarDir:  "public/avatars",
	}
}

func prodConfig() *Config {
	return &Config{
		JWTSecret:  strings.Repeat("s", 32),
		Port:       "3000",
		DBPassword: "str0ng-db-pass",
		DBSSLMode:  "require",
		Env:        "production",
		UploadDir:  "public/uploads",
		AvatarDir:  "public/avatars",
		SMTPHost:   "smtp.example.com",
		SMTPEmail:  "noreply@example.com",
	}
}

func TestConfigValidate_Development(t *testing.T) {
	assert.NoError(t, devConfig().Validate())

	missingPort := devConfig()
	missingPort.Port = ""
	assert.Error(t, missingPort.Validate())

	missingSecret := devConfig()
	missingSecret.JWTSecret = ""
	assert.Error(t, missingSecret.Validate())

	missingDirs := devConfig()
	missingDirs.AvatarDir = ""
	assert.Error(t, missingDirs.Validate())
}

func TestConfigValidate_Production(t *testing.T) {
	assert.NoError(t, prodConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"default jwt secret", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }},
		{"default db password", func(c *Config) { c.DBPassword = "password" }},
		{"empty db password", func(c *Config) { c.DBPassword = "" }},
		{"missing smtp", func(c *Config) { c.SMTPHost = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := prodConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
