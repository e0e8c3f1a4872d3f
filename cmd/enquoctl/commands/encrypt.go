package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/allisson/enquo/config"
	"github.com/allisson/enquo/datatype/boolean"
	"github.com/allisson/enquo/datatype/date"
	"github.com/allisson/enquo/datatype/i64"
	"github.com/allisson/enquo/datatype/text"
	"github.com/allisson/enquo/enquoerr"
)

// EncryptOptions carries the parsed arguments common to every encrypt
// subcommand.
type EncryptOptions struct {
	Collection string
	Name       string
	Context    string
	Value      string
	Unsafe     bool
	Ordering   *uint8
}

// RunEncryptBoolean encrypts a boolean value and writes the serialized
// record, base64-encoded, to writer.
func RunEncryptBoolean(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts EncryptOptions, format string) error {
	if err := validateFieldArgs(opts.Collection, opts.Name); err != nil {
		return err
	}

	value, err := strconv.ParseBool(opts.Value)
	if err != nil {
		return fmt.Errorf("invalid boolean value %q: %w", opts.Value, err)
	}

	r, chain, err := loadRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chain.Close()

	f, err := r.Field([]byte(opts.Collection), []byte(opts.Name))
	if err != nil {
		return err
	}

	var record *boolean.Boolean
	if opts.Unsafe {
		record, err = boolean.NewWithUnsafeParts(value, []byte(opts.Context), f)
	} else {
		record, err = boolean.New(value, []byte(opts.Context), f)
	}
	if err != nil {
		return fmt.Errorf("encrypting boolean value: %w", err)
	}

	return writeRecord(writer, format, record)
}

// RunEncryptI64 encrypts a signed 64-bit integer value.
func RunEncryptI64(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts EncryptOptions, format string) error {
	if err := validateFieldArgs(opts.Collection, opts.Name); err != nil {
		return err
	}

	value, err := strconv.ParseInt(opts.Value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid i64 value %q: %w", opts.Value, err)
	}

	r, chain, err := loadRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chain.Close()

	f, err := r.Field([]byte(opts.Collection), []byte(opts.Name))
	if err != nil {
		return err
	}

	var record *i64.I64
	if opts.Unsafe {
		record, err = i64.NewWithUnsafeParts(value, []byte(opts.Context), f)
	} else {
		record, err = i64.New(value, []byte(opts.Context), f)
	}
	if err != nil {
		return fmt.Errorf("encrypting i64 value: %w", err)
	}

	return writeRecord(writer, format, record)
}

// RunEncryptDate encrypts a calendar date given as "YYYY-MM-DD".
func RunEncryptDate(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts EncryptOptions, format string) error {
	if err := validateFieldArgs(opts.Collection, opts.Name); err != nil {
		return err
	}

	parsed, err := time.Parse("2006-01-02", opts.Value)
	if err != nil {
		return fmt.Errorf("invalid date value %q (want YYYY-MM-DD): %w", opts.Value, err)
	}
	y, m, d := parsed.Date()

	r, chain, err := loadRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chain.Close()

	f, err := r.Field([]byte(opts.Collection), []byte(opts.Name))
	if err != nil {
		return err
	}

	var record *date.Date
	if opts.Unsafe {
		record, err = date.NewWithUnsafeParts(int16(y), uint8(m), uint8(d), []byte(opts.Context), f)
	} else {
		record, err = date.New(int16(y), uint8(m), uint8(d), []byte(opts.Context), f)
	}
	if err != nil {
		return fmt.Errorf("encrypting date value: %w", err)
	}

	return writeRecord(writer, format, record)
}

// RunEncryptText encrypts a UTF-8 string.
func RunEncryptText(ctx context.Context, cfg *config.Config, logger *slog.Logger, writer io.Writer, opts EncryptOptions, format string) error {
	if err := validateFieldArgs(opts.Collection, opts.Name); err != nil {
		return err
	}

	r, chain, err := loadRoot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer chain.Close()

	f, err := r.Field([]byte(opts.Collection), []byte(opts.Name))
	if err != nil {
		return err
	}

	var record *text.Text
	if opts.Unsafe {
		record, err = text.NewWithUnsafeParts(opts.Value, []byte(opts.Context), f, opts.Ordering)
	} else {
		record, err = text.New(opts.Value, []byte(opts.Context), f)
	}
	if err != nil {
		return fmt.Errorf("encrypting text value: %w", err)
	}

	return writeRecord(writer, format, record)
}

func writeRecord(writer io.Writer, format string, record any) error {
	data, err := cborMarshal(record)
	if err != nil {
		return enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
	}

	return outputResult(writer, format, map[string]string{
		"record": encodeRecord(data),
	}, []string{"record"})
}
