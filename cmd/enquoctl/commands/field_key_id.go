package commands

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/enquo/config"
)

// RunFieldKeyID prints the opaque key_id of the (collection, name) field
// under the chain's active master key, useful for confirming which records
// a given key version can compare against.
func RunFieldKeyID(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, collection, name, format string) error {
	if err := validateFieldArgs(collection, name); err != nil {
		return err
	}

	r, chain, err := loadRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chain.Close()

	f, err := r.Field([]byte(collection), []byte(name))
	if err != nil {
		return fmt.Errorf("deriving field: %w", err)
	}

	keyID, err := f.KeyID()
	if err != nil {
		return fmt.Errorf("deriving key_id: %w", err)
	}

	return outputResult(writer, format, map[string]string{
		"key_id": hex.EncodeToString(keyID[:]),
	}, []string{"key_id"})
}
