package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/enquo/config"
	"github.com/allisson/enquo/datatype/boolean"
	"github.com/allisson/enquo/datatype/date"
	"github.com/allisson/enquo/datatype/i64"
	"github.com/allisson/enquo/datatype/text"
	"github.com/allisson/enquo/field"
	"github.com/allisson/enquo/keyprovider"
)

// DecryptOptions carries the parsed arguments common to every decrypt
// subcommand.
type DecryptOptions struct {
	Collection string
	Name       string
	Context    string
	Record     string
}

func loadFieldForDecrypt(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts DecryptOptions) (*field.Field, *keyprovider.Chain, error) {
	if err := validateFieldArgs(opts.Collection, opts.Name); err != nil {
		return nil, nil, err
	}
	if err := validateRecordArg(opts.Record); err != nil {
		return nil, nil, err
	}

	r, chain, err := loadRoot(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f, err := r.Field([]byte(opts.Collection), []byte(opts.Name))
	if err != nil {
		chain.Close()
		return nil, nil, err
	}
	return f, chain, nil
}

// RunDecryptBoolean recovers the plaintext boolean from a serialized record.
func RunDecryptBoolean(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts DecryptOptions, format string) error {
	data, err := decodeRecord(opts.Record)
	if err != nil {
		return err
	}

	var record boolean.Boolean
	if err := cborUnmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing boolean record: %w", err)
	}

	f, chain, err := loadFieldForDecrypt(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer chain.Close()

	value, err := record.Decrypt([]byte(opts.Context), f)
	if err != nil {
		return fmt.Errorf("decrypting boolean value: %w", err)
	}

	return outputResult(writer, format, map[string]string{"value": fmt.Sprintf("%t", value)}, []string{"value"})
}

// RunDecryptI64 recovers the plaintext integer from a serialized record.
func RunDecryptI64(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts DecryptOptions, format string) error {
	data, err := decodeRecord(opts.Record)
	if err != nil {
		return err
	}

	var record i64.I64
	if err := cborUnmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing i64 record: %w", err)
	}

	f, chain, err := loadFieldForDecrypt(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer chain.Close()

	value, err := record.Decrypt([]byte(opts.Context), f)
	if err != nil {
		return fmt.Errorf("decrypting i64 value: %w", err)
	}

	return outputResult(writer, format, map[string]string{"value": fmt.Sprintf("%d", value)}, []string{"value"})
}

// RunDecryptDate recovers the plaintext date from a serialized record.
func RunDecryptDate(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts DecryptOptions, format string) error {
	data, err := decodeRecord(opts.Record)
	if err != nil {
		return err
	}

	var record date.Date
	if err := cborUnmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing date record: %w", err)
	}

	f, chain, err := loadFieldForDecrypt(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer chain.Close()

	y, m, d, err := record.Decrypt([]byte(opts.Context), f)
	if err != nil {
		return fmt.Errorf("decrypting date value: %w", err)
	}

	return outputResult(writer, format, map[string]string{
		"value": fmt.Sprintf("%04d-%02d-%02d", y, m, d),
	}, []string{"value"})
}

// RunDecryptText recovers the plaintext string from a serialized record.
func RunDecryptText(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts DecryptOptions, format string) error {
	data, err := decodeRecord(opts.Record)
	if err != nil {
		return err
	}

	var record text.Text
	if err := cborUnmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing text record: %w", err)
	}

	f, chain, err := loadFieldForDecrypt(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer chain.Close()

	value, err := record.Decrypt([]byte(opts.Context), f)
	if err != nil {
		return fmt.Errorf("decrypting text value: %w", err)
	}

	return outputResult(writer, format, map[string]string{"value": value}, []string{"value"})
}
