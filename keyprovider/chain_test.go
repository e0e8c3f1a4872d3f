package keyprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/enquo/config"
)

var (
	errOpenKeeper = errors.New("mock: open keeper failed")
	errDecrypt    = errors.New("mock: decrypt failed")
)

type mockKMSKeeper struct {
	decryptFunc func(ctx context.Context, ciphertext []byte) ([]byte, error)
	closeFunc   func() error
}

func (m *mockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	return m.decryptFunc(ctx, ciphertext)
}

func (m *mockKMSKeeper) Close() error { return m.closeFunc() }

type mockKMSService struct {
	openKeeperFunc func(ctx context.Context, keyURI string) (KMSKeeper, error)
}

func (m *mockKMSService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	return m.openKeeperFunc(ctx, keyURI)
}

func thirtyTwoBytes(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, 32)
}

func TestLoadChainFromEnvMissingMasterKeys(t *testing.T) {
	cfg := &config.Config{ActiveMasterKeyID: "v1"}
	_, err := LoadChainFromEnv(cfg)
	require.Error(t, err)
}

func TestLoadChainFromEnvMissingActiveID(t *testing.T) {
	cfg := &config.Config{MasterKeys: "v1:" + base64.StdEncoding.EncodeToString(thirtyTwoBytes(1))}
	_, err := LoadChainFromEnv(cfg)
	require.Error(t, err)
}

func TestLoadChainFromEnvSingleKey(t *testing.T) {
	cfg := &config.Config{
		MasterKeys:        "v1:" + base64.StdEncoding.EncodeToString(thirtyTwoBytes(1)),
		ActiveMasterKeyID: "v1",
	}

	chain, err := LoadChainFromEnv(cfg)
	require.NoError(t, err)
	defer chain.Close()

	require.Equal(t, "v1", chain.ActiveID())
	require.NotNil(t, chain.Active())

	_, ok := chain.Get("missing")
	require.False(t, ok)
}

func TestLoadChainFromEnvMultipleKeys(t *testing.T) {
	cfg := &config.Config{
		MasterKeys: "v1:" + base64.StdEncoding.EncodeToString(thirtyTwoBytes(1)) +
			",v2:" + base64.StdEncoding.EncodeToString(thirtyTwoBytes(2)),
		ActiveMasterKeyID: "v2",
	}

	chain, err := LoadChainFromEnv(cfg)
	require.NoError(t, err)
	defer chain.Close()

	require.Equal(t, "v2", chain.ActiveID())
	require.ElementsMatch(t, []string{"v1", "v2"}, chain.IDs())

	v1, ok := chain.Get("v1")
	require.True(t, ok)
	require.NotNil(t, v1)
}

func TestLoadChainFromEnvActiveIDNotPresent(t *testing.T) {
	cfg := &config.Config{
		MasterKeys:        "v1:" + base64.StdEncoding.EncodeToString(thirtyTwoBytes(1)),
		ActiveMasterKeyID: "v2",
	}

	_, err := LoadChainFromEnv(cfg)
	require.Error(t, err)
}

func TestLoadChainFromEnvMalformedEntry(t *testing.T) {
	cfg := &config.Config{
		MasterKeys:        "not-a-valid-entry",
		ActiveMasterKeyID: "v1",
	}

	_, err := LoadChainFromEnv(cfg)
	require.Error(t, err)
}

func TestLoadChainFromEnvWrongKeySize(t *testing.T) {
	cfg := &config.Config{
		MasterKeys:        "v1:" + base64.StdEncoding.EncodeToString([]byte("too-short")),
		ActiveMasterKeyID: "v1",
	}

	_, err := LoadChainFromEnv(cfg)
	require.Error(t, err)
}

func TestChainCloseZerosKeys(t *testing.T) {
	cfg := &config.Config{
		MasterKeys:        "v1:" + base64.StdEncoding.EncodeToString(thirtyTwoBytes(1)),
		ActiveMasterKeyID: "v1",
	}

	chain, err := LoadChainFromEnv(cfg)
	require.NoError(t, err)

	active := chain.Active()
	chain.Close()

	require.Equal(t, make([]byte, 32), active.key)
	require.Nil(t, chain.Active())
}

func TestLoadChainValidatesKMSConfigConsistency(t *testing.T) {
	logger := slog.Default()

	_, err := LoadChain(context.Background(), &config.Config{KMSProvider: "hashivault"}, nil, logger)
	require.Error(t, err)

	_, err = LoadChain(context.Background(), &config.Config{KMSKeyURI: "hashivault://x"}, nil, logger)
	require.Error(t, err)
}

func TestLoadChainKMSModeSuccess(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	key1 := thirtyTwoBytes(1)
	ciphertext1 := append([]byte("encrypted-"), key1...)

	cfg := &config.Config{
		MasterKeys:        "v1:" + base64.StdEncoding.EncodeToString(ciphertext1),
		ActiveMasterKeyID: "v1",
		KMSProvider:       "localsecrets",
		KMSKeyURI:         "base64key://test",
	}

	mockKeeper := &mockKMSKeeper{
		decryptFunc: func(ctx context.Context, ciphertext []byte) ([]byte, error) {
			return bytes.TrimPrefix(ciphertext, []byte("encrypted-")), nil
		},
		closeFunc: func() error { return nil },
	}
	mockKMS := &mockKMSService{
		openKeeperFunc: func(ctx context.Context, keyURI string) (KMSKeeper, error) {
			return mockKeeper, nil
		},
	}

	chain, err := LoadChain(ctx, cfg, mockKMS, logger)
	require.NoError(t, err)
	defer chain.Close()

	require.Equal(t, "v1", chain.ActiveID())
	require.NotNil(t, chain.Active())
}

func TestLoadChainKMSModeOpenKeeperError(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	cfg := &config.Config{
		MasterKeys:        "v1:dGVzdA==",
		ActiveMasterKeyID: "v1",
		KMSProvider:       "localsecrets",
		KMSKeyURI:         "base64key://test",
	}

	failingKMS := &mockKMSService{
		openKeeperFunc: func(ctx context.Context, keyURI string) (KMSKeeper, error) {
			return nil, errOpenKeeper
		},
	}

	_, err := LoadChain(ctx, cfg, failingKMS, logger)
	require.Error(t, err)
}

func TestLoadChainKMSModeDecryptError(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	cfg := &config.Config{
		MasterKeys:        "v1:dGVzdA==",
		ActiveMasterKeyID: "v1",
		KMSProvider:       "localsecrets",
		KMSKeyURI:         "base64key://test",
	}

	mockKeeper := &mockKMSKeeper{
		decryptFunc: func(ctx context.Context, ciphertext []byte) ([]byte, error) {
			return nil, errDecrypt
		},
		closeFunc: func() error { return nil },
	}
	mockKMS := &mockKMSService{
		openKeeperFunc: func(ctx context.Context, keyURI string) (KMSKeeper, error) {
			return mockKeeper, nil
		},
	}

	_, err := LoadChain(ctx, cfg, mockKMS, logger)
	require.Error(t, err)
}
