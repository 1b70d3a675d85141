package iterator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arnodel/kvjson/token"
)

// kv is an ordered object entry for building test streams.
type kv struct {
	key   string
	value any
}

// makeTokenStream creates a token.ReadStream from Go values
// Supports: primitives (string, int, bool, nil), []any for arrays, []kv for
// objects.
func makeTokenStream(t *testing.T, values ...any) *token.SliceReadStream {
	t.Helper()
	tokens := make([]token.Token, 0)
	for _, v := range values {
		tokens = append(tokens, valueToTokens(t, v)...)
	}
	return token.NewSliceReadStream(tokens)
}

// valueToTokens converts a Go value to JSON tokens
func valueToTokens(t *testing.T, v any) []token.Token {
	t.Helper()
	switch val := v.(type) {
	case string:
		return []token.Token{token.StringScalar(val)}
	case int:
		return []token.Token{token.NewScalar(token.Number, []byte(fmt.Sprint(val)))}
	case bool:
		if val {
			return []token.Token{token.TrueScalar}
		}
		return []token.Token{token.FalseScalar}
	case nil:
		return []token.Token{token.NullScalar}
	case []any:
		tokens := []token.Token{&token.StartArray{}}
		for _, item := range val {
			tokens = append(tokens, valueToTokens(t, item)...)
		}
		return append(tokens, &token.EndArray{})
	case []kv:
		tokens := []token.Token{&token.StartObject{}}
		for _, entry := range val {
			tokens = append(tokens, token.KeyScalar(entry.key))
			tokens = append(tokens, valueToTokens(t, entry.value)...)
		}
		return append(tokens, &token.EndObject{})
	default:
		t.Fatalf("unsupported value type: %T", v)
		return nil
	}
}

// makeIterator creates an iterator from Go values
func makeIterator(t *testing.T, values ...any) *Iterator {
	t.Helper()
	return New(makeTokenStream(t, values...))
}

// firstValue returns the first value of an iterator over the given Go value
func firstValue(t *testing.T, v any) Value {
	t.Helper()
	it := makeIterator(t, v)
	if !it.Advance() {
		t.Fatal("expected iterator to have a value")
	}
	return it.CurrentValue()
}

// assertPanics verifies that a function panics with a message containing expectedMsg
func assertPanics(t *testing.T, expectedMsg string, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", r)
			if !strings.Contains(msg, expectedMsg) {
				t.Errorf("panic message %q does not contain %q", msg, expectedMsg)
			}
		} else {
			t.Errorf("expected panic with message containing %q, but no panic occurred", expectedMsg)
		}
	}()
	f()
}

func assertEqual(t *testing.T, got, want any) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

func assertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}
