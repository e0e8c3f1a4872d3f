package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"LOG_LEVEL",
		"ENQUO_MASTER_KEYS",
		"ENQUO_ACTIVE_MASTER_KEY_ID",
		"ENQUO_KMS_PROVIDER",
		"ENQUO_KMS_KEY_URI",
	}
	for _, v := range vars {
		old, had := os.LookupEnv(v)
		require.NoError(t, os.Unsetenv(v))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(v, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "", cfg.MasterKeys)
	require.Equal(t, "", cfg.ActiveMasterKeyID)
	require.Equal(t, "", cfg.KMSProvider)
	require.Equal(t, "", cfg.KMSKeyURI)
}

func TestLoadReadsEnv(t *testing.T) {
	clearEnv(t)

	require.NoError(t, os.Setenv("LOG_LEVEL", "debug"))
	require.NoError(t, os.Setenv("ENQUO_MASTER_KEYS", "v1:AAAA"))
	require.NoError(t, os.Setenv("ENQUO_ACTIVE_MASTER_KEY_ID", "v1"))
	require.NoError(t, os.Setenv("ENQUO_KMS_PROVIDER", "hashivault"))
	require.NoError(t, os.Setenv("ENQUO_KMS_KEY_URI", "hashivault://transit/enquo"))

	cfg := Load()

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "v1:AAAA", cfg.MasterKeys)
	require.Equal(t, "v1", cfg.ActiveMasterKeyID)
	require.Equal(t, "hashivault", cfg.KMSProvider)
	require.Equal(t, "hashivault://transit/enquo", cfg.KMSKeyURI)
}
