package keyprovider

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/allisson/enquo/config"
	"github.com/allisson/enquo/enquoerr"
)

// Chain holds every loaded master key, indexed by ID, with one designated
// active. New Root instances are built from the active key; the rest stay
// available so a Kith can still decrypt and compare values encrypted under
// an older key during rotation.
type Chain struct {
	activeID string
	members  map[string]*Static
}

// ActiveID returns the ID of the master key new Roots should be built from.
func (c *Chain) ActiveID() string {
	return c.activeID
}

// Active returns the KeyProvider for the chain's active master key.
func (c *Chain) Active() *Static {
	return c.members[c.activeID]
}

// Get returns the KeyProvider for a specific master key ID.
func (c *Chain) Get(id string) (*Static, bool) {
	p, ok := c.members[id]
	return p, ok
}

// IDs returns every master key ID loaded into the chain, in no particular
// order.
func (c *Chain) IDs() []string {
	ids := make([]string, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	return ids
}

// Close zeros every master key's material. The chain must not be used
// afterward.
func (c *Chain) Close() {
	for _, p := range c.members {
		p.Zero()
	}
	c.activeID = ""
	c.members = nil
}

// LoadChainFromEnv builds a Chain from plaintext base64-encoded keys, as
// found in cfg.MasterKeys ("id:base64key,id:base64key,...") and
// cfg.ActiveMasterKeyID.
func LoadChainFromEnv(cfg *config.Config) (*Chain, error) {
	return loadChainFromRaw(cfg.MasterKeys, cfg.ActiveMasterKeyID)
}

func loadChainFromRaw(raw, active string) (*Chain, error) {
	if raw == "" {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, "no master keys configured")
	}
	if active == "" {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, "no active master key id configured")
	}

	chain := &Chain{activeID: active, members: make(map[string]*Static)}

	for _, part := range strings.Split(raw, ",") {
		id, key, err := splitMasterKeyEntry(strings.TrimSpace(part))
		if err != nil {
			chain.Close()
			return nil, err
		}

		decoded, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			chain.Close()
			return nil, enquoerr.Wrapf(enquoerr.ErrKey, "invalid base64 master key %s: %v", id, err)
		}

		provider, err := NewStatic(decoded)
		Zero(decoded)
		if err != nil {
			chain.Close()
			return nil, enquoerr.Wrapf(enquoerr.ErrKey, "master key %s: %v", id, err)
		}

		chain.members[id] = provider
	}

	if _, ok := chain.Get(active); !ok {
		chain.Close()
		return nil, enquoerr.Wrapf(enquoerr.ErrKey, "active master key id %s not present in chain", active)
	}

	return chain, nil
}

// loadChainFromKMS builds a Chain from KMS-wrapped ciphertexts, as found in
// cfg.MasterKeys, decrypting each entry with keeper before use.
func loadChainFromKMS(ctx context.Context, cfg *config.Config, kmsService KMSService, logger *slog.Logger) (*Chain, error) {
	if cfg.MasterKeys == "" {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, "no master keys configured")
	}
	if cfg.ActiveMasterKeyID == "" {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, "no active master key id configured")
	}

	logger.Info("opening KMS keeper",
		slog.String("kms_provider", cfg.KMSProvider),
		slog.String("kms_key_uri", maskKeyURI(cfg.KMSKeyURI)),
	)

	keeper, err := kmsService.OpenKeeper(ctx, cfg.KMSKeyURI)
	if err != nil {
		return nil, enquoerr.Wrapf(enquoerr.ErrKey, "opening KMS keeper: %v", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	chain := &Chain{activeID: cfg.ActiveMasterKeyID, members: make(map[string]*Static)}

	for _, part := range strings.Split(cfg.MasterKeys, ",") {
		id, ciphertextB64, err := splitMasterKeyEntry(strings.TrimSpace(part))
		if err != nil {
			chain.Close()
			return nil, err
		}

		ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
		if err != nil {
			chain.Close()
			return nil, enquoerr.Wrapf(enquoerr.ErrKey, "invalid base64 master key ciphertext %s: %v", id, err)
		}

		logger.Info("decrypting master key with KMS", slog.String("master_key_id", id))
		key, err := keeper.Decrypt(ctx, ciphertext)
		Zero(ciphertext)
		if err != nil {
			chain.Close()
			return nil, enquoerr.Wrapf(enquoerr.ErrKey, "decrypting master key %s via KMS: %v", id, err)
		}

		provider, err := NewStatic(key)
		Zero(key)
		if err != nil {
			chain.Close()
			return nil, enquoerr.Wrapf(enquoerr.ErrKey, "master key %s: %v", id, err)
		}

		chain.members[id] = provider
	}

	if _, ok := chain.Get(cfg.ActiveMasterKeyID); !ok {
		chain.Close()
		return nil, enquoerr.Wrapf(enquoerr.ErrKey, "active master key id %s not present in chain", cfg.ActiveMasterKeyID)
	}

	logger.Info("master key chain loaded from KMS", slog.String("active_master_key_id", cfg.ActiveMasterKeyID))
	return chain, nil
}

// LoadChain builds a Chain from cfg, auto-detecting plaintext vs KMS mode
// from whether cfg.KMSProvider is set. KMSProvider and KMSKeyURI must be set
// together or both left empty.
func LoadChain(ctx context.Context, cfg *config.Config, kmsService KMSService, logger *slog.Logger) (*Chain, error) {
	if cfg.KMSProvider != "" && cfg.KMSKeyURI == "" {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, "kms provider set without a kms key uri")
	}
	if cfg.KMSKeyURI != "" && cfg.KMSProvider == "" {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, "kms key uri set without a kms provider")
	}

	if cfg.KMSProvider != "" {
		logger.Info("loading master key chain in KMS mode", slog.String("kms_provider", cfg.KMSProvider))
		return loadChainFromKMS(ctx, cfg, kmsService, logger)
	}

	logger.Info("loading master key chain in plaintext mode")
	return LoadChainFromEnv(cfg)
}

func splitMasterKeyEntry(entry string) (id, value string, err error) {
	parts := strings.SplitN(entry, ":", 2)
	if len(parts) != 2 {
		return "", "", enquoerr.Wrapf(enquoerr.ErrKey, "malformed master key entry %q, want id:base64key", entry)
	}
	return parts[0], parts[1], nil
}

// maskKeyURI masks the sensitive portion of a KMS key URI for logging.
func maskKeyURI(uri string) string {
	if uri == "" {
		return ""
	}

	parts := strings.SplitN(uri, "://", 2)
	if len(parts) != 2 {
		return "***"
	}

	scheme, remainder := parts[0], parts[1]

	switch scheme {
	case "gcpkms":
		pathParts := strings.Split(remainder, "/")
		for i := range pathParts {
			if i%2 == 1 {
				pathParts[i] = "***"
			}
		}
		return scheme + "://" + strings.Join(pathParts, "/")
	case "awskms":
		queryParts := strings.SplitN(remainder, "?", 2)
		masked := scheme + "://***"
		if len(queryParts) == 2 {
			masked += "?" + queryParts[1]
		}
		return masked
	default:
		return scheme + "://***"
	}
}
