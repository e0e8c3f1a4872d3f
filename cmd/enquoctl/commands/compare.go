package commands

import (
	"fmt"
	"io"

	"github.com/allisson/enquo/datatype/boolean"
	"github.com/allisson/enquo/datatype/date"
	"github.com/allisson/enquo/datatype/i64"
	"github.com/allisson/enquo/datatype/text"
)

// CompareOptions carries the two base64-encoded records to compare. No
// master key is needed: comparison only inspects each record's comparison
// ciphertext.
type CompareOptions struct {
	A string
	B string
}

func orderSymbol(order int) string {
	switch {
	case order < 0:
		return "<"
	case order > 0:
		return ">"
	default:
		return "="
	}
}

// RunCompareBoolean orders two Boolean records.
func RunCompareBoolean(writer io.Writer, opts CompareOptions, format string) error {
	var a, b boolean.Boolean
	if err := decodeInto(opts.A, &a); err != nil {
		return err
	}
	if err := decodeInto(opts.B, &b); err != nil {
		return err
	}

	order, err := boolean.Compare(&a, &b)
	if err != nil {
		return fmt.Errorf("comparing boolean records: %w", err)
	}
	return reportOrder(writer, format, order)
}

// RunCompareI64 orders two I64 records.
func RunCompareI64(writer io.Writer, opts CompareOptions, format string) error {
	var a, b i64.I64
	if err := decodeInto(opts.A, &a); err != nil {
		return err
	}
	if err := decodeInto(opts.B, &b); err != nil {
		return err
	}

	order, err := i64.Compare(&a, &b)
	if err != nil {
		return fmt.Errorf("comparing i64 records: %w", err)
	}
	return reportOrder(writer, format, order)
}

// RunCompareDate orders two Date records.
func RunCompareDate(writer io.Writer, opts CompareOptions, format string) error {
	var a, b date.Date
	if err := decodeInto(opts.A, &a); err != nil {
		return err
	}
	if err := decodeInto(opts.B, &b); err != nil {
		return err
	}

	order, err := date.Compare(&a, &b)
	if err != nil {
		return fmt.Errorf("comparing date records: %w", err)
	}
	return reportOrder(writer, format, order)
}

// RunCompareText orders two Text records by their ordering code.
func RunCompareText(writer io.Writer, opts CompareOptions, format string) error {
	var a, b text.Text
	if err := decodeInto(opts.A, &a); err != nil {
		return err
	}
	if err := decodeInto(opts.B, &b); err != nil {
		return err
	}

	order, err := text.Compare(&a, &b)
	if err != nil {
		return fmt.Errorf("comparing text records: %w", err)
	}
	return reportOrder(writer, format, order)
}

func decodeInto(encoded string, record any) error {
	if err := validateRecordArg(encoded); err != nil {
		return err
	}

	data, err := decodeRecord(encoded)
	if err != nil {
		return err
	}
	if err := cborUnmarshal(data, record); err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}
	return nil
}

func reportOrder(writer io.Writer, format string, order int) error {
	return outputResult(writer, format, map[string]string{
		"order":  fmt.Sprintf("%d", order),
		"symbol": orderSymbol(order),
	}, []string{"order", "symbol"})
}
