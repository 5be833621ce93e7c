// Package jsonutil provides thin wrappers around sonic so the rest of the
// module shares one high-throughput JSON codec. The functions mirror the
// encoding/json signatures, which keeps call sites familiar and makes the
// codec trivially swappable.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

// Marshal serialises the provided value to compact JSON.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent serialises the provided value with the supplied prefix and
// indentation, matching encoding/json.MarshalIndent semantics.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON data into the provided value.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Encode streams the provided value as JSON to the writer.
func Encode(w io.Writer, v any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

// Decode parses a JSON value from the reader into the provided value.
func Decode(r io.Reader, v any) error {
	return sonic.ConfigDefault.NewDecoder(r).Decode(v)
}
