// Package commands implements the enquoctl CLI command bodies, kept
// separate from main so they can be unit tested against an io.Writer
// instead of the process's real stdout.
package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fxamacker/cbor/v2"

	"github.com/allisson/enquo/config"
	"github.com/allisson/enquo/internal/validation"
	"github.com/allisson/enquo/keyprovider"
	"github.com/allisson/enquo/root"
)

// validateFieldArgs rejects blank or whitespace-padded collection/name
// arguments before they ever reach key derivation.
func validateFieldArgs(collection, name string) error {
	if err := validation.NotBlank.Validate(collection); err != nil {
		return validation.WrapValidationError(fmt.Errorf("collection: %w", err))
	}
	if err := validation.NoWhitespace.Validate(collection); err != nil {
		return validation.WrapValidationError(fmt.Errorf("collection: %w", err))
	}
	if err := validation.NotBlank.Validate(name); err != nil {
		return validation.WrapValidationError(fmt.Errorf("name: %w", err))
	}
	if err := validation.NoWhitespace.Validate(name); err != nil {
		return validation.WrapValidationError(fmt.Errorf("name: %w", err))
	}
	return nil
}

// validateRecordArg rejects a record argument that isn't valid base64
// before attempting to decode and parse it. validation.Base64 already
// returns an enquoerr-tagged error, so this only adds field context.
func validateRecordArg(record string) error {
	if err := validation.Base64.Validate(record); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

// cborMarshal serializes a datatype record for the CLI's wire transport.
func cborMarshal(record any) ([]byte, error) {
	return cbor.Marshal(record)
}

// cborUnmarshal parses a datatype record from the CLI's wire transport.
func cborUnmarshal(data []byte, record any) error {
	return cbor.Unmarshal(data, record)
}

// loadRoot opens the master key chain described by cfg and wraps its active
// key in a Root. Callers must Close the returned chain once done.
func loadRoot(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*root.Root, *keyprovider.Chain, error) {
	kmsService := keyprovider.NewKMSService()

	chain, err := keyprovider.LoadChain(ctx, cfg, kmsService, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("loading master key chain: %w", err)
	}

	return root.New(chain.Active()), chain, nil
}

// decodeRecord base64-decodes a record previously produced by an encrypt
// command.
func decodeRecord(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return data, nil
}

// encodeRecord base64-encodes a serialized record for display or storage.
func encodeRecord(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// outputResult writes result to writer as JSON or as a plain "key: value"
// listing, depending on format. order fixes the listing's line order; JSON
// output includes the same fields with map key ordering.
func outputResult(writer io.Writer, format string, fields map[string]string, order []string) error {
	if format == "json" {
		jsonBytes, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(jsonBytes))
		return nil
	}

	for _, key := range order {
		_, _ = fmt.Fprintf(writer, "%s: %s\n", key, fields[key])
	}
	return nil
}
