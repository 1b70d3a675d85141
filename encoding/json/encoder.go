package json

import (
	"bytes"
	"fmt"

	"github.com/arnodel/kvjson/internal/format"
	"github.com/arnodel/kvjson/iterator"
	"github.com/arnodel/kvjson/token"
)

// An Encoder outputs JSON values using the given Printer instance for
// formatting.
//
// The layout is decided by the Printer: a DefaultPrinter with IndentSize 4
// gives the conventional pretty form, a negative IndentSize puts each value
// on a single line.
type Encoder struct {
	format.Printer
	*format.Colorizer

	// Printed between an object key and its value.  Defaults to ": ".
	KeyValueSeparator []byte
}

// Encode writes each value of the stream, starting every value after the
// first on a new line.  It assumes that the stream is well-formed and may
// panic if that is not the case.
//
// An error can be returned if the Printer could not perform some writing
// operation.
func (e *Encoder) Encode(stream token.ReadStream) (err error) {
	defer format.CatchPrinterError(&err)
	it := iterator.New(stream)
	first := true
	for it.Advance() {
		if !first {
			e.PrintBytes(newLineBytes)
		}
		first = false
		e.WriteValue(it.CurrentValue())
		e.Printer.Reset()
	}
	return nil
}

// EncodeLines writes the array held in the stream with each element on its
// own line:
//
//	[
//	{"Alpha": "1"},
//	{"Beta": "2"}
//	]
//
// Elements are printed with the Printer, which should not break lines for
// this layout to hold.  An empty array is written as "[", an empty line and
// "]".
func (e *Encoder) EncodeLines(stream token.ReadStream) (err error) {
	defer format.CatchPrinterError(&err)
	it := iterator.New(stream)
	if !it.Advance() {
		return fmt.Errorf("expected an array, got an empty stream")
	}
	arr, ok := it.CurrentValue().(*iterator.Array)
	if !ok {
		return fmt.Errorf("expected an array, got %s", iterator.TypeName(it.CurrentValue()))
	}
	e.PrintBytes(openArrayBytes)
	e.PrintBytes(newLineBytes)
	first := true
	for arr.Advance() {
		if !first {
			e.PrintBytes(itemSeparatorBytes)
			e.PrintBytes(newLineBytes)
		}
		first = false
		e.WriteValue(arr.CurrentValue())
		e.Printer.Reset()
	}
	e.PrintBytes(newLineBytes)
	e.PrintBytes(closeArrayBytes)
	return nil
}

// WriteValue prints a single value.
func (e *Encoder) WriteValue(value iterator.Value) {
	switch v := value.(type) {
	case *iterator.Scalar:
		e.Colorizer.PrintScalar(e.Printer, v.Scalar())
	case *iterator.Object:
		e.writeObject(v)
	case *iterator.Array:
		e.writeArray(v)
	default:
		panic(fmt.Sprintf("invalid stream item: %#v", value))
	}
}

func (e *Encoder) keyValueSeparator() []byte {
	if e.KeyValueSeparator == nil {
		return keyValueSeparatorBytes
	}
	return e.KeyValueSeparator
}

func (e *Encoder) writeObject(obj *iterator.Object) {
	e.PrintBytes(openObjectBytes)
	firstItem := true
	for obj.Advance() {
		key, value := obj.CurrentKeyVal()
		if !firstItem {
			e.PrintBytes(itemSeparatorBytes)
			e.NewLine()
		} else {
			e.Indent()
			firstItem = false
		}
		e.Colorizer.PrintScalar(e.Printer, key)
		e.PrintBytes(e.keyValueSeparator())
		e.WriteValue(value)
	}
	if !firstItem {
		e.Dedent()
	}
	e.PrintBytes(closeObjectBytes)
}

func (e *Encoder) writeArray(arr *iterator.Array) {
	e.PrintBytes(openArrayBytes)
	firstItem := true
	for arr.Advance() {
		value := arr.CurrentValue()
		if !firstItem {
			e.PrintBytes(itemSeparatorBytes)
			e.NewLine()
		} else {
			e.Indent()
			firstItem = false
		}
		e.WriteValue(value)
	}
	if !firstItem {
		e.Dedent()
	}
	e.PrintBytes(closeArrayBytes)
}

// CompactString renders a value as JSON on one line without any
// whitespace, e.g. {"a":[1,2]}.  Keys keep their input order and strings keep
// their input spelling.
func CompactString(value iterator.Value) (s string, err error) {
	var buf bytes.Buffer
	enc := &Encoder{
		Printer:           &format.DefaultPrinter{Writer: &buf, IndentSize: -1},
		KeyValueSeparator: compactKeyValueSeparatorBytes,
	}
	defer format.CatchPrinterError(&err)
	enc.WriteValue(value)
	return buf.String(), nil
}

var (
	openObjectBytes               = []byte("{")
	closeObjectBytes              = []byte("}")
	openArrayBytes                = []byte("[")
	closeArrayBytes               = []byte("]")
	itemSeparatorBytes            = []byte(",")
	keyValueSeparatorBytes        = []byte(": ")
	compactKeyValueSeparatorBytes = []byte(":")
	newLineBytes                  = []byte("\n")
)
