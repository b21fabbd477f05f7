package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	Load()
	require.NotNil(t, AppConfig)

	assert.Equal(t, "8080", AppConfig.APIPort)
	assert.Equal(t, "memory", AppConfig.UserStore)
	assert.Equal(t, "memory", AppConfig.SessionStore)
	assert.Equal(t, time.Hour, AppConfig.JWTExp)
	assert.Equal(t, 168*time.Hour, AppConfig.RefreshExp)
	assert.Contains(t, AppConfig.DBConnStr, "dbname=user_hub_db")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("USER_STORE", "postgres")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")

	Load()

	assert.Equal(t, "9090", AppConfig.APIPort)
	assert.Equal(t, "postgres", AppConfig.UserStore)
	assert.Equal(t, 2*time.Hour, AppConfig.JWTExp)
}
