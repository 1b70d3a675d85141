package json

import (
	"errors"
	"fmt"
	"io"

	"github.com/arnodel/kvjson/internal/scanner"
	"github.com/arnodel/kvjson/token"
)

var (
	// ErrEmptyDocument is returned by ParseDocument when the input contains
	// nothing but whitespace.
	ErrEmptyDocument = errors.New("empty document")

	// ErrTrailingData is returned by ParseDocument when there is more input
	// after the first JSON value.
	ErrTrailingData = errors.New("unexpected data after JSON value")
)

// A SyntaxError reports invalid JSON at a position of the input.  Line and
// column are 1-based.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at L%d,C%d: %s", e.Line, e.Col, e.Msg)
}

// A Decoder reads JSON input and turns it into a stream of tokens.
type Decoder struct {
	scanr *scanner.Scanner
}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// ParseDocument reads exactly one JSON value surrounded by optional
// whitespace.
func (d *Decoder) ParseDocument(out token.WriteStream) error {
	if _, err := d.scanr.SkipSpaceAndPeek(); err != nil {
		return err
	}
	if d.scanr.AtEOF() {
		return ErrEmptyDocument
	}
	if err := d.ParseValue(out); err != nil {
		return err
	}
	if _, err := d.scanr.SkipSpaceAndPeek(); err != nil {
		return err
	}
	if !d.scanr.AtEOF() {
		pos := d.scanr.CurrentPos()
		return fmt.Errorf("%w at L%d,C%d", ErrTrailingData, pos.Line+1, pos.Col+1)
	}
	return nil
}

// ParseValue reads a single JSON value and streams it.  It can return a
// non-nil error if the input is invalid JSON.
func (d *Decoder) ParseValue(out token.WriteStream) error {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if d.scanr.AtEOF() {
		return UnexpectedByte(d.scanr, "expected value, got")
	}
	switch b {
	case '"':
		s, err := ParseString(d.scanr)
		if err != nil {
			return err
		}
		out.Put(s)
		return nil
	case '[':
		return d.parseArray(out)
	case '{':
		return d.parseObject(out)
	case 't':
		return d.parseLiteral(out, trueInstance)
	case 'f':
		return d.parseLiteral(out, falseInstance)
	case 'n':
		return d.parseLiteral(out, nullInstance)
	default:
		if b == '-' || scanner.IsDigit(b) {
			n, err := ParseNumber(d.scanr)
			if err != nil {
				return err
			}
			out.Put(n)
			return nil
		}
		return UnexpectedByte(d.scanr, "unexpected")
	}
}

func (d *Decoder) parseLiteral(out token.WriteStream, literal *token.Scalar) error {
	if err := checkBytes(d.scanr, literal.Bytes); err != nil {
		return err
	}
	out.Put(literal)
	return nil
}

func (d *Decoder) parseArray(out token.WriteStream) error {
	err := ExpectByte(d.scanr, '[')
	if err != nil {
		return err
	}
	out.Put(&token.StartArray{})
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == ']' {
		d.scanr.Read()
		out.Put(&token.EndArray{})
		return nil
	}
	for {
		err = d.ParseValue(out)
		if err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case ']':
			d.scanr.Read()
			out.Put(&token.EndArray{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return UnexpectedByte(d.scanr, "expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject(out token.WriteStream) error {
	err := ExpectByte(d.scanr, '{')
	if err != nil {
		return err
	}
	out.Put(&token.StartObject{})
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == '}' {
		d.scanr.Read()
		out.Put(&token.EndObject{})
		return nil
	}
	for {
		if b != '"' {
			return UnexpectedByte(d.scanr, "expected object key, got")
		}
		key, err := ParseString(d.scanr)
		if err != nil {
			return err
		}
		key.TypeAndFlags |= token.KeyMask
		out.Put(key)
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		if b != ':' {
			return UnexpectedByte(d.scanr, "expected ':', got")
		}
		d.scanr.Read()
		err = d.ParseValue(out)
		if err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case '}':
			d.scanr.Read()
			out.Put(&token.EndObject{})
			return nil
		case ',':
			d.scanr.Read()
			b, err = d.scanr.SkipSpaceAndPeek()
			if err != nil {
				return err
			}
		default:
			return UnexpectedByte(d.scanr, "expected '}' or ',', got")
		}
	}
}

func ExpectByte(scanr *scanner.Scanner, xb byte) error {
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		scanr.Back()
		return UnexpectedByte(scanr, "expected %q, got", xb)
	}
	return nil
}

// UnexpectedByte consumes the next byte and returns a *SyntaxError
// describing it.
func UnexpectedByte(scanr *scanner.Scanner, expected string, args ...interface{}) error {
	scanr.DiscardToken()
	pos := scanr.CurrentPos()
	atEOF := scanr.AtEOF()
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf(expected, args...)
	if atEOF {
		msg += ": <EOF>"
	} else {
		msg += fmt.Sprintf(": %q", b)
	}
	return &SyntaxError{Line: pos.Line + 1, Col: pos.Col + 1, Msg: msg}
}

func ParseString(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	err := ExpectByte(scanr, '"')
	if err != nil {
		return nil, err
	}
	isUnescaped := true
	for {
		b, err := scanr.Read()
		if err != nil {
			scanr.DiscardToken()
			return nil, err
		}
		switch b {
		case '\\':
			isUnescaped = false
			x, err := scanr.Read()
			if err != nil {
				scanr.DiscardToken()
				return nil, err
			}
			switch x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				continue
			case 'u':
				for i := 0; i < 4; i++ {
					b, err = scanr.Read()
					if err != nil {
						scanr.DiscardToken()
						return nil, err
					}
					if !scanner.IsHexDigit(b) {
						scanr.Back()
						return nil, UnexpectedByte(scanr, "expected hex, got")
					}
				}
			default:
				scanr.Back()
				return nil, UnexpectedByte(scanr, "invalid escape character")
			}
		case '"':
			scalar := token.NewScalar(token.String, scanr.EndToken())
			if isUnescaped {
				scalar.TypeAndFlags |= token.UnescapedMask
			}
			return scalar, nil
		case scanner.EOF:
			scanr.Back()
			if scanr.AtEOF() {
				return nil, UnexpectedByte(scanr, "unterminated string")
			}
			return nil, UnexpectedByte(scanr, "invalid UTF-8 in string")
		default:
			if scanner.IsCtrl(b) {
				scanr.Back()
				return nil, UnexpectedByte(scanr, "invalid control character in string")
			}
		}
	}
}

// ParseNumber parses a JSON number from the scanner.
func ParseNumber(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	var n int
	b, err := scanr.Read()

	// Sign part
	if err == nil && b == '-' {
		b, err = scanr.Read()
	}
	if err != nil {
		scanr.DiscardToken()
		return nil, err
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
	} else if b >= '1' && b <= '9' {
		b, _, err = ReadDigits(scanr)
	} else {
		scanr.Back()
		return nil, UnexpectedByte(scanr, "expected digit, got")
	}
	if err != nil {
		scanr.DiscardToken()
		return nil, err
	}

	// Fraction part
	if b == '.' {
		b, n, err = ReadDigits(scanr)
		if err != nil {
			scanr.DiscardToken()
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			return nil, UnexpectedByte(scanr, "expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			scanr.DiscardToken()
			return nil, err
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		_, n, err = ReadDigits(scanr)
		if err != nil {
			scanr.DiscardToken()
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			return nil, UnexpectedByte(scanr, "expected digit, got")
		}
	}
	scanr.Back()
	return token.NewScalar(token.Number, scanr.EndToken()), nil
}

func ReadDigits(scanr *scanner.Scanner) (byte, int, error) {
	var n int
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

func checkBytes(scanr *scanner.Scanner, expected []byte) error {
	for _, xb := range expected {
		if err := ExpectByte(scanr, xb); err != nil {
			return err
		}
	}
	return nil
}

var (
	trueInstance  = token.TrueScalar
	falseInstance = token.FalseScalar
	nullInstance  = token.NullScalar
)
