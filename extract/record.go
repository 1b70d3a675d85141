package extract

import (
	"fmt"

	"github.com/arnodel/kvjson/encoding/json"
	"github.com/arnodel/kvjson/iterator"
)

// A record is a JSON object with its values already turned into text.  A key
// that occurs several times keeps the position of its first occurrence and
// the value of its last.
type record struct {
	keys   []string
	values map[string]string
}

func readRecord(obj *iterator.Object) (*record, error) {
	rec := &record{values: map[string]string{}}
	for obj.Advance() {
		key, value := obj.CurrentKeyVal()
		text, err := Stringify(value)
		if err != nil {
			return nil, err
		}
		k := key.ToString()
		if _, seen := rec.values[k]; !seen {
			rec.keys = append(rec.keys, k)
		}
		rec.values[k] = text
	}
	return rec, nil
}

func (r *record) extract(mode Mode, field string) (string, error) {
	switch mode {
	case ModeKey, ModeValue:
		if len(r.keys) != 1 {
			return "", fmt.Errorf("%w for convert_type=%s, got %d", ErrEntryCount, mode, len(r.keys))
		}
		if mode == ModeKey {
			return r.keys[0], nil
		}
		return r.values[r.keys[0]], nil
	default:
		value, ok := r.values[field]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingField, field)
		}
		return value, nil
	}
}

// Stringify returns the text extracted for a JSON value.  A string gives
// its decoded contents, other scalars give their JSON literal as written in
// the input, and arrays and objects give their compact JSON encoding.
func Stringify(v iterator.Value) (string, error) {
	if s, ok := v.(*iterator.Scalar); ok {
		return s.Scalar().Text(), nil
	}
	return json.CompactString(v)
}
