package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/enquo/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	return &config.Config{
		MasterKeys:        "test-key:" + base64.StdEncoding.EncodeToString(key),
		ActiveMasterKeyID: "test-key",
	}
}

func TestRunEncryptDecryptBooleanRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := slog.Default()

	var encOut bytes.Buffer
	err := RunEncryptBoolean(ctx, cfg, logger, &encOut, EncryptOptions{
		Collection: "widgets", Name: "active", Context: "ctx", Value: "true",
	}, "text")
	require.NoError(t, err)
	require.Contains(t, encOut.String(), "record: ")

	record := encOut.String()[len("record: ") : len(encOut.String())-1]

	var decOut bytes.Buffer
	err = RunDecryptBoolean(ctx, cfg, logger, &decOut, DecryptOptions{
		Collection: "widgets", Name: "active", Context: "ctx", Record: record,
	}, "text")
	require.NoError(t, err)
	require.Equal(t, "value: true\n", decOut.String())
}

func TestRunEncryptDecryptTextRoundTripJSON(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := slog.Default()

	var encOut bytes.Buffer
	err := RunEncryptText(ctx, cfg, logger, &encOut, EncryptOptions{
		Collection: "widgets", Name: "label", Context: "ctx", Value: "hello",
	}, "json")
	require.NoError(t, err)

	var encResult map[string]string
	require.NoError(t, json.Unmarshal(encOut.Bytes(), &encResult))
	require.NotEmpty(t, encResult["record"])

	var decOut bytes.Buffer
	err = RunDecryptText(ctx, cfg, logger, &decOut, DecryptOptions{
		Collection: "widgets", Name: "label", Context: "ctx", Record: encResult["record"],
	}, "json")
	require.NoError(t, err)

	var decResult map[string]string
	require.NoError(t, json.Unmarshal(decOut.Bytes(), &decResult))
	require.Equal(t, "hello", decResult["value"])
}

func TestRunCompareI64RequiresUnsafeParts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := slog.Default()

	low, high := encryptI64Pair(t, ctx, cfg, logger, 3, 9, false)

	var out bytes.Buffer
	err := RunCompareI64(&out, CompareOptions{A: low, B: high}, "text")
	require.Error(t, err)
}

func TestRunCompareI64WithUnsafeParts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := slog.Default()

	low, high := encryptI64Pair(t, ctx, cfg, logger, 3, 9, true)

	var out bytes.Buffer
	err := RunCompareI64(&out, CompareOptions{A: low, B: high}, "text")
	require.NoError(t, err)
	require.Equal(t, "order: -1\nsymbol: <\n", out.String())
}

func TestRunFieldKeyIDIsStable(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := slog.Default()

	var first, second bytes.Buffer
	require.NoError(t, RunFieldKeyID(ctx, cfg, logger, &first, "widgets", "sku", "text"))
	require.NoError(t, RunFieldKeyID(ctx, cfg, logger, &second, "widgets", "sku", "text"))
	require.Equal(t, first.String(), second.String())
}

func encryptI64Pair(t *testing.T, ctx context.Context, cfg *config.Config, logger *slog.Logger, low, high int64, unsafe bool) (string, string) {
	t.Helper()

	var lowOut, highOut bytes.Buffer
	require.NoError(t, RunEncryptI64(ctx, cfg, logger, &lowOut, EncryptOptions{
		Collection: "widgets", Name: "count", Unsafe: unsafe, Value: strconv.FormatInt(low, 10),
	}, "json"))
	require.NoError(t, RunEncryptI64(ctx, cfg, logger, &highOut, EncryptOptions{
		Collection: "widgets", Name: "count", Unsafe: unsafe, Value: strconv.FormatInt(high, 10),
	}, "json"))

	var lowResult, highResult map[string]string
	require.NoError(t, json.Unmarshal(lowOut.Bytes(), &lowResult))
	require.NoError(t, json.Unmarshal(highOut.Bytes(), &highResult))
	return lowResult["record"], highResult["record"]
}
