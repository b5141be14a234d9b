package core

import (
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by LoadConfigFromEnv.
const EnvPrefix = "APCA"

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("paper", true)
	v.SetDefault("debug", false)
	return v
}

// LoadConfigFromEnv returns DefaultConfig overlaid with APCA_* environment variables:
// APCA_KEY_ID, APCA_KEY_SECRET, APCA_ACCESS_TOKEN, APCA_PAPER, APCA_BASE_URL,
// APCA_DATA_URL and APCA_DEBUG.
func LoadConfigFromEnv() *Config {
	v := newEnv()

	cfg := DefaultConfig()
	cfg.Paper = v.GetBool("paper")
	cfg.BaseURL = v.GetString("base_url")
	cfg.DataURL = v.GetString("data_url")
	if v.GetBool("debug") {
		cfg.LogLevel = "debug"
	}
	return cfg.FillCredentialsFromEnv()
}

// FillCredentialsFromEnv fills credential fields that are empty from the environment
// and returns the config for chaining. Explicitly configured values are kept.
func (c *Config) FillCredentialsFromEnv() *Config {
	v := newEnv()

	creds := Credentials{}
	if c.Credentials != nil {
		creds = *c.Credentials
	}
	if creds.KeyID == "" {
		creds.KeyID = v.GetString("key_id")
	}
	if creds.SecretKey == "" {
		creds.SecretKey = v.GetString("key_secret")
	}
	if creds.AccessToken == "" {
		creds.AccessToken = v.GetString("access_token")
	}

	if creds != (Credentials{}) {
		c.Credentials = &creds
	}
	return c
}
