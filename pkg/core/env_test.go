package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{"APCA_KEY_ID", "APCA_KEY_SECRET", "APCA_ACCESS_TOKEN", "APCA_PAPER", "APCA_BASE_URL", "APCA_DATA_URL", "APCA_DEBUG"} {
		t.Setenv(key, env[key])
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	setEnv(t, map[string]string{
		"APCA_KEY_ID":     "PKENV",
		"APCA_KEY_SECRET": "secret",
		"APCA_PAPER":      "false",
		"APCA_DATA_URL":   "http://localhost:9090",
		"APCA_DEBUG": "true",
	})

	config := LoadConfigFromEnv()

	require.NotNil(t, config.Credentials)
	assert.Equal(t, "PKENV", config.Credentials.KeyID)
	assert.Equal(t, "secret", config.Credentials.SecretKey)
	assert.Empty(t, config.Credentials.AccessToken)
	assert.False(t, config.Paper)
	assert.Equal(t, LiveURL, config.TradingURL())
	assert.Equal(t, "http://localhost:9090", config.MarketDataURL())
	assert.Equal(t, "debug", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	setEnv(t, nil)

	config := LoadConfigFromEnv()

	assert.Nil(t, config.Credentials)
	assert.True(t, config.Paper)
	assert.Equal(t, PaperURL, config.TradingURL())
	assert.Equal(t, "info", config.LogLevel)
}

func TestFillCredentialsFromEnv(t *testing.T) {
	setEnv(t, map[string]string{
		"APCA_KEY_ID":       "PKENV",
		"APCA_KEY_SECRET":   "env-secret",
		"APCA_ACCESS_TOKEN": "env-token",
	})

	config := DefaultConfig().
		WithCredentials(&Credentials{KeyID: "PKEXPLICIT"}).
		FillCredentialsFromEnv()

	assert.Equal(t, "PKEXPLICIT", config.Credentials.KeyID)
	assert.Equal(t, "env-secret", config.Credentials.SecretKey)
	assert.Equal(t, "env-token", config.Credentials.AccessToken)
}
