package encoding

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAML is a stream of "---" separated YAML documents of type T.
// Decoding rejects fields T does not declare.
type YAML[T any] struct {
	enc *yaml.Encoder
	dec *yaml.Decoder
}

type YAMLEncoding[T any] struct{}

func (y YAMLEncoding[T]) Extension() string {
	return "yaml"
}

func (y *YAMLEncoding[T]) NewEncoder(w io.Writer) TypedEncoder[T] {
	return NewYAMLEncoder[T](w)
}

func (y *YAMLEncoding[T]) NewDecoder(r io.Reader) TypedDecoder[T] {
	return NewYAMLDecoder[T](r)
}

func NewYAMLEncoder[T any](w io.Writer) *YAML[T] {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAML[T]{enc: enc}
}

func NewYAMLDecoder[T any](r io.Reader) *YAML[T] {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return &YAML[T]{dec: dec}
}

func (y *YAML[T]) Encode(t *T) error {
	return y.enc.Encode(t)
}

// Close flushes any buffered output of an encoder.
func (y *YAML[T]) Close() error {
	if y.enc == nil {
		return nil
	}

	return y.enc.Close()
}

func (y *YAML[T]) Decode() (*T, error) {
	var t T
	return &t, y.dec.Decode(&t)
}
