// Package main provides enquoctl, a demonstration command-line front end
// over the Enquo queryable-encryption core. It exists to exercise the
// library end to end from the shell; the core itself does no I/O.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/enquo/cmd/enquoctl/commands"
	"github.com/allisson/enquo/config"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

var datatypeFlag = &cli.StringFlag{
	Name:     "type",
	Aliases:  []string{"t"},
	Usage:    "datatype: boolean, i64, date or text",
	Required: true,
}

var formatFlag = &cli.StringFlag{
	Name:  "format",
	Usage: "output format: text or json",
	Value: "text",
}

func encryptCommand() *cli.Command {
	return &cli.Command{
		Name:  "encrypt",
		Usage: "Encrypt a value into a queryable-encryption record",
		Flags: []cli.Flag{
			datatypeFlag,
			&cli.StringFlag{Name: "collection", Required: true, Usage: "field collection name"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "field name"},
			&cli.StringFlag{Name: "context", Value: "", Usage: "AEAD additional authenticated data"},
			&cli.StringFlag{Name: "value", Required: true, Usage: "plaintext value to encrypt"},
			&cli.BoolFlag{Name: "unsafe", Usage: "include comparison left halves (required to compare or order later)"},
			&cli.IntFlag{Name: "ordering", Value: -1, Usage: "text only: prefix length of the ordering code, implies --unsafe"},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			logger := newLogger(cfg)

			opts := commands.EncryptOptions{
				Collection: cmd.String("collection"),
				Name:       cmd.String("name"),
				Context:    cmd.String("context"),
				Value:      cmd.String("value"),
				Unsafe:     cmd.Bool("unsafe"),
			}
			if n := cmd.Int("ordering"); n >= 0 {
				v := uint8(n)
				opts.Ordering = &v
				opts.Unsafe = true
			}

			switch cmd.String("type") {
			case "boolean":
				return commands.RunEncryptBoolean(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			case "i64":
				return commands.RunEncryptI64(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			case "date":
				return commands.RunEncryptDate(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			case "text":
				return commands.RunEncryptText(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			default:
				return fmt.Errorf("unknown type %q (want boolean, i64, date or text)", cmd.String("type"))
			}
		},
	}
}

func decryptCommand() *cli.Command {
	return &cli.Command{
		Name:  "decrypt",
		Usage: "Decrypt a queryable-encryption record",
		Flags: []cli.Flag{
			datatypeFlag,
			&cli.StringFlag{Name: "collection", Required: true, Usage: "field collection name"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "field name"},
			&cli.StringFlag{Name: "context", Value: "", Usage: "AEAD additional authenticated data"},
			&cli.StringFlag{Name: "record", Required: true, Usage: "base64-encoded record"},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			logger := newLogger(cfg)

			opts := commands.DecryptOptions{
				Collection: cmd.String("collection"),
				Name:       cmd.String("name"),
				Context:    cmd.String("context"),
				Record:     cmd.String("record"),
			}

			switch cmd.String("type") {
			case "boolean":
				return commands.RunDecryptBoolean(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			case "i64":
				return commands.RunDecryptI64(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			case "date":
				return commands.RunDecryptDate(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			case "text":
				return commands.RunDecryptText(ctx, cfg, logger, os.Stdout, opts, cmd.String("format"))
			default:
				return fmt.Errorf("unknown type %q (want boolean, i64, date or text)", cmd.String("type"))
			}
		},
	}
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare two queryable-encryption records",
		Flags: []cli.Flag{
			datatypeFlag,
			&cli.StringFlag{Name: "a", Required: true, Usage: "base64-encoded first record"},
			&cli.StringFlag{Name: "b", Required: true, Usage: "base64-encoded second record"},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := commands.CompareOptions{A: cmd.String("a"), B: cmd.String("b")}

			switch cmd.String("type") {
			case "boolean":
				return commands.RunCompareBoolean(os.Stdout, opts, cmd.String("format"))
			case "i64":
				return commands.RunCompareI64(os.Stdout, opts, cmd.String("format"))
			case "date":
				return commands.RunCompareDate(os.Stdout, opts, cmd.String("format"))
			case "text":
				return commands.RunCompareText(os.Stdout, opts, cmd.String("format"))
			default:
				return fmt.Errorf("unknown type %q (want boolean, i64, date or text)", cmd.String("type"))
			}
		},
	}
}

func fieldKeyIDCommand() *cli.Command {
	return &cli.Command{
		Name:  "field-key-id",
		Usage: "Print the opaque key_id of a (collection, name) field",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "collection", Required: true, Usage: "field collection name"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "field name"},
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load()
			logger := newLogger(cfg)
			return commands.RunFieldKeyID(ctx, cfg, logger, os.Stdout, cmd.String("collection"), cmd.String("name"), cmd.String("format"))
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "enquoctl",
		Usage: "Queryable-encryption record inspector and demonstration CLI",
		Commands: []*cli.Command{
			encryptCommand(),
			decryptCommand(),
			compareCommand(),
			fieldKeyIDCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("enquoctl error", slog.Any("error", err))
		os.Exit(1)
	}
}
