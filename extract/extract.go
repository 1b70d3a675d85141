// Package extract turns a JSON array of objects into a plain-text list, one
// string per object: its single key, its single value or a named field.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/arnodel/kvjson/encoding/json"
	"github.com/arnodel/kvjson/iterator"
	"github.com/arnodel/kvjson/token"
)

// Mode selects what is extracted from each object.
type Mode string

const (
	ModeKey   Mode = "key"   // the key of a single-entry object
	ModeValue Mode = "value" // the value of a single-entry object
	ModeField Mode = "field" // the value of a named field
)

// Config holds the parameters of Extract.  The mapstructure keys are the
// names used in configuration files.
type Config struct {
	InputFile      string `mapstructure:"input_file"`
	OutputFile     string `mapstructure:"output_file"`
	ConvertType    Mode   `mapstructure:"convert_type"`
	FieldToExtract string `mapstructure:"field_to_extract"`
	SortOutput     bool   `mapstructure:"sort_output"`

	// Log receives progress and diagnostic messages; log.Default() if nil.
	Log *log.Logger `mapstructure:"-"`
}

// DefaultConfig extracts the "name" field without sorting.
func DefaultConfig() Config {
	return Config{
		ConvertType:    ModeField,
		FieldToExtract: "name",
	}
}

func (c *Config) logger() *log.Logger {
	if c.Log == nil {
		return log.Default()
	}
	return c.Log
}

// Result describes a successful extraction.
type Result struct {
	Count  int      // number of processed elements
	Values []string // extracted strings, in output order
}

// Extract reads the JSON array in cfg.InputFile, extracts one string per
// element and writes them joined by newlines to cfg.OutputFile, replacing
// any existing file.  There is no newline after the last value.
//
// All failures are returned as an *Error whose Kind tells malformed JSON,
// shape violations and other (I/O) errors apart.  The output file is not
// written when there is an error.
func Extract(cfg Config) (*Result, error) {
	if cfg.InputFile == "" || cfg.OutputFile == "" {
		return nil, &Error{Kind: KindValidation, Err: ErrMissingConfig}
	}
	if err := checkMode(cfg.ConvertType, cfg.FieldToExtract); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return nil, ioError(err)
	}
	values, err := Values(bytes.NewReader(data), cfg.ConvertType, cfg.FieldToExtract)
	if err != nil {
		return nil, err
	}
	if cfg.SortOutput {
		sort.Strings(values)
	}
	if err := os.WriteFile(cfg.OutputFile, []byte(strings.Join(values, "\n")), 0o644); err != nil {
		return nil, ioError(err)
	}
	cfg.logger().Printf("processed %d elements", len(values))
	return &Result{Count: len(values), Values: values}, nil
}

// Run calls Extract and logs the outcome, returning true on success.
func Run(cfg Config) bool {
	_, err := Extract(cfg)
	if err != nil {
		cfg.logger().Print(Describe(err))
		return false
	}
	return true
}

// Describe returns the message reported for an error returned by Extract.
func Describe(err error) string {
	switch KindOf(err) {
	case KindMalformed:
		return fmt.Sprintf("error: the file is not valid JSON: %s", errors.Unwrap(err))
	case KindValidation:
		return fmt.Sprintf("conversion error: %s", errors.Unwrap(err))
	default:
		return fmt.Sprintf("unexpected error: %s", err)
	}
}

func checkMode(mode Mode, field string) error {
	switch mode {
	case ModeKey, ModeValue:
		return nil
	case ModeField:
		if field == "" {
			return &Error{Kind: KindValidation, Err: ErrNoField}
		}
		return nil
	default:
		return invalid("%w: %q (use key, value or field)", ErrUnknownMode, mode)
	}
}

// Values decodes the JSON array read from r and returns the string extracted
// from each element, in input order.  Errors are *Error values as for
// Extract.
func Values(r io.Reader, mode Mode, field string) ([]string, error) {
	if err := checkMode(mode, field); err != nil {
		return nil, err
	}
	acc := token.NewAccumulatorStream()
	if err := json.NewDecoder(r).ParseDocument(acc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, json.ErrEmptyDocument) || errors.Is(err, json.ErrTrailingData) {
			return nil, malformed(err)
		}
		return nil, ioError(err)
	}

	it := iterator.New(token.NewSliceReadStream(acc.GetTokens()))
	it.Advance()
	arr, ok := it.CurrentValue().(*iterator.Array)
	if !ok {
		return nil, invalid("%w, got %s", ErrNotArray, iterator.TypeName(it.CurrentValue()))
	}

	values := []string{}
	for i := 0; arr.Advance(); i++ {
		obj, ok := arr.CurrentValue().(*iterator.Object)
		if !ok {
			return nil, invalid("element %d: %w, got %s", i, ErrNotObject, iterator.TypeName(arr.CurrentValue()))
		}
		rec, err := readRecord(obj)
		if err != nil {
			return nil, ioError(err)
		}
		value, err := rec.extract(mode, field)
		if err != nil {
			return nil, invalid("element %d: %w", i, err)
		}
		values = append(values, value)
	}
	return values, nil
}
