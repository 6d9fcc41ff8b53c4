package encoding

import (
	"errors"
	"fmt"
	"io"
)

type TypedEncoder[T any] interface {
	Encode(*T) error
}

type TypedDecoder[T any] interface {
	Decode() (*T, error)
}

// Encoding builds typed encoders and decoders for one wire format.
type Encoding[T any] interface {
	Extension() string
	NewEncoder(io.Writer) TypedEncoder[T]
	NewDecoder(io.Reader) TypedDecoder[T]
}

// For returns the encoding registered under the given extension.
func For[T any](ext string) (Encoding[T], error) {
	switch ext {
	case "json":
		return &JSONEncoding[T]{Indent: "  "}, nil
	case "yaml", "yml":
		return &YAMLEncoding[T]{}, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %q", ext)
	}
}

func DecodeAll[T any](dec TypedDecoder[T]) (ts []*T, _ error) {
	for {
		t, err := dec.Decode()
		if err == nil {
			ts = append(ts, t)
			continue
		}

		if !errors.Is(err, io.EOF) {
			return nil, err
		}

		return
	}
}
