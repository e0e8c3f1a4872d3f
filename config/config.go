// Package config provides application configuration management through
// environment variables for the enquoctl CLI.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all enquoctl configuration.
type Config struct {
	// LogLevel controls log/slog verbosity ("debug", "info", "warn", "error").
	LogLevel string

	// MasterKeys is the raw "id:base64key,id:base64key,..." value of
	// ENQUO_MASTER_KEYS, or KMS ciphertexts in the same shape when KMSProvider
	// is set.
	MasterKeys string

	// ActiveMasterKeyID selects which entry of MasterKeys builds the Root
	// used for encryption; all entries remain loadable for Kith-based
	// comparison against records from older keys.
	ActiveMasterKeyID string

	// KMSProvider selects a gocloud.dev/secrets driver ("gcpkms", "awskms",
	// "azurekeyvault", "hashivault", "localsecrets"). Empty means MasterKeys
	// holds plaintext base64 keys rather than KMS ciphertexts.
	KMSProvider string

	// KMSKeyURI is the gocloud.dev/secrets key URI used to decrypt
	// MasterKeys when KMSProvider is set.
	KMSKeyURI string
}

// Load loads configuration from environment variables. It first attempts to
// load a .env file by searching recursively from the current directory up to
// the root directory; if none is found, it continues with the existing
// environment.
func Load() *Config {
	loadDotEnv()

	return &Config{
		LogLevel:          env.GetString("LOG_LEVEL", "info"),
		MasterKeys:        env.GetString("ENQUO_MASTER_KEYS", ""),
		ActiveMasterKeyID: env.GetString("ENQUO_ACTIVE_MASTER_KEY_ID", ""),
		KMSProvider:       env.GetString("ENQUO_KMS_PROVIDER", ""),
		KMSKeyURI:         env.GetString("ENQUO_KMS_KEY_URI", ""),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
