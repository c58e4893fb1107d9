package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrSyntax is matched by every *SyntaxError
	ErrSyntax = errors.New("document syntax error")

	// ErrUnsupportedValue indicates a Go value that has no Document representation
	ErrUnsupportedValue = errors.New("unsupported document value")
)

// SyntaxError reports where decoding stopped
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse failed at offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// JSONCodec decodes text into Documents and encodes them back as indented JSON
type JSONCodec struct {
	Indent string
}

// NewJSONCodec creates a codec using two-space indentation
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: "  "}
}

// Decode parses text into a Document
func (c *JSONCodec) Decode(text string) (any, error) {
	return decode([]byte(text))
}

// Encode serializes a Document as UTF-8 JSON without HTML escaping
func (c *JSONCodec) Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", c.Indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses text with the default codec
func Decode(text string) (any, error) {
	return decode([]byte(text))
}

// MustEncode encodes doc with the default codec and panics on failure.
// Only use with trees built from Document node types.
func MustEncode(doc any) string {
	b, err := NewJSONCodec().Encode(doc)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, toSyntaxError(dec, err)
	}

	// anything but whitespace after the first value is an error
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, toSyntaxError(dec, err)
		}
		return nil, &SyntaxError{
			Offset: dec.InputOffset(),
			Msg:    fmt.Sprintf("unexpected trailing data %v", tok),
		}
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}

	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func toSyntaxError(dec *json.Decoder, err error) *SyntaxError {
	var jsonErr *json.SyntaxError
	if errors.As(err, &jsonErr) {
		return &SyntaxError{Offset: jsonErr.Offset, Msg: jsonErr.Error()}
	}
	msg := err.Error()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of input"
	}
	return &SyntaxError{Offset: dec.InputOffset(), Msg: strings.TrimPrefix(msg, "json: ")}
}
