package encoding

import (
	"encoding/json"
	"io"
)

// JSON is a stream of JSON values of type T.
// Decoding rejects fields T does not declare.
type JSON[T any] struct {
	enc *json.Encoder
	dec *json.Decoder
}

type JSONEncoding[T any] struct {
	Indent string
}

func (j JSONEncoding[T]) Extension() string {
	return "json"
}

func (j *JSONEncoding[T]) NewEncoder(w io.Writer) TypedEncoder[T] {
	return NewJSONEncoder[T](w, j.Indent)
}

func (j *JSONEncoding[T]) NewDecoder(r io.Reader) TypedDecoder[T] {
	return NewJSONDecoder[T](r)
}

func NewJSONEncoder[T any](w io.Writer, indent string) *JSON[T] {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return &JSON[T]{enc: enc}
}

func NewJSONDecoder[T any](r io.Reader) *JSON[T] {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return &JSON[T]{dec: dec}
}

func (j *JSON[T]) Encode(t *T) error {
	return j.enc.Encode(t)
}

func (j *JSON[T]) Decode() (*T, error) {
	var t T
	return &t, j.dec.Decode(&t)
}
