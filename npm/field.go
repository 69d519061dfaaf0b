package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type (
	// fieldReader walks a JSON document token by token and decodes only the
	// value found at a dot-separated path, e.g. ".dist-tags.latest".
	fieldReader struct {
		dec  *json.Decoder
		keys []string
		seen strings.Builder
	}
)

var errNotFound = errors.New("path not found")

func newFieldReader(r io.Reader, path string) (*fieldReader, error) {
	if !strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || len(path) < 2 {
		return nil, fmt.Errorf("malformed JSON path %q", path)
	}

	return &fieldReader{dec: json.NewDecoder(r), keys: strings.Split(path[1:], ".")}, nil
}

func (f *fieldReader) read(ctx context.Context) (any, error) {
	for _, key := range f.keys {
		if err := f.enter(ctx, key); err != nil {
			return nil, err
		}
	}

	var v any

	if err := f.dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode the value at %q: %w", f.seen.String(), err)
	}

	return v, nil
}

// enter consumes the opening brace of the current object and every member
// before key, leaving the decoder positioned at key's value.
func (f *fieldReader) enter(ctx context.Context, key string) error {
	t, err := f.dec.Token()
	if err != nil {
		return err
	}

	if d, ok := t.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("the value at %q is not a JSON object", f.path())
	}

	f.seen.WriteString("." + key)

	for f.dec.More() {
		if err = context.Cause(ctx); err != nil {
			return fmt.Errorf("stopped looking for %q: %w", f.seen.String(), err)
		}

		if t, err = f.dec.Token(); err != nil {
			return err
		}

		if name, ok := t.(string); ok && name == key {
			return nil
		}

		if err = f.skip(); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %q", errNotFound, f.seen.String())
}

// skip discards one complete value, however deeply nested.
func (f *fieldReader) skip() error {
	depth := 0

	for {
		t, err := f.dec.Token()
		if err != nil {
			return err
		}

		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}

		if depth == 0 {
			return nil
		}
	}
}

func (f *fieldReader) path() string {
	if f.seen.Len() == 0 {
		return "."
	}

	return f.seen.String()
}
