// Package kvline turns text files of "KEY - VALUE" lines into JSON arrays of
// single-entry objects.
package kvline

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arnodel/kvjson/internal/scanner"
)

// A Pair is the key and value found on one line.  It is output as the JSON
// object {Key: Value}.
type Pair struct {
	Key   string
	Value string
}

var (
	// ErrEmptyLine is returned by ParseLine for lines containing only
	// whitespace.
	ErrEmptyLine = errors.New("empty line")

	// ErrInvalidUTF8 is returned by Parse when a line is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// A MalformedLineError reports a line that does not split into a non-empty
// key and a non-empty value.
type MalformedLineError struct {
	Line int    // 1-based, 0 when unknown
	Text string // the line with surrounding whitespace trimmed
}

func (e *MalformedLineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed line %d: %q", e.Line, e.Text)
	}
	return fmt.Sprintf("malformed line: %q", e.Text)
}

// IsSeparator reports whether r separates a key from its value: an ASCII
// hyphen-minus or an en dash.
func IsSeparator(r rune) bool {
	return r == '-' || r == '–'
}

// SplitLine splits line at its first separator rune.  Whitespace around the
// separator and at both ends of the line is dropped.  Any later separator is
// part of the value.  ok is false if there is no separator or if the key or
// the value is empty.
func SplitLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, IsSeparator)
	if i < 0 {
		return "", "", false
	}
	_, size := utf8.DecodeRuneInString(line[i:])
	key = strings.TrimRightFunc(line[:i], unicode.IsSpace)
	value = strings.TrimLeftFunc(line[i+size:], unicode.IsSpace)
	return key, value, key != "" && value != ""
}

// ParseLine returns the pair held in line.  It returns ErrEmptyLine for a
// blank line and a *MalformedLineError (with Line unset) when the line
// cannot be split.
func ParseLine(line string) (Pair, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Pair{}, ErrEmptyLine
	}
	key, value, ok := SplitLine(trimmed)
	if !ok {
		return Pair{}, &MalformedLineError{Text: trimmed}
	}
	return Pair{Key: key, Value: value}, nil
}

// Parse reads r line by line and returns the pairs found, in input order.
// Blank lines are skipped silently.  Malformed lines are reported to logger
// and skipped.  Parsing stops at a read error or at a line that is not valid
// UTF-8.
func Parse(r io.Reader, logger *log.Logger) ([]Pair, error) {
	if logger == nil {
		logger = log.Default()
	}
	var pairs []Pair
	scanr := scanner.NewScanner(r)
	for lineNo := 1; ; lineNo++ {
		line, err := scanr.ReadLine()
		if err == io.EOF {
			return pairs, nil
		}
		if err != nil {
			return pairs, fmt.Errorf("reading line %d: %w", lineNo, err)
		}
		if !utf8.Valid(line) {
			return pairs, fmt.Errorf("line %d: %w", lineNo, ErrInvalidUTF8)
		}
		pair, err := ParseLine(string(line))
		var malformed *MalformedLineError
		switch {
		case err == nil:
			pairs = append(pairs, pair)
		case errors.Is(err, ErrEmptyLine):
		case errors.As(err, &malformed):
			malformed.Line = lineNo
			logger.Printf("skipping %s", malformed)
		default:
			return pairs, err
		}
	}
}
