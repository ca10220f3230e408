package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// Decode reads a stream of wire-mapping JSON documents from r, decodes each
// through the registry and writes the normalized canonical form back to w,
// one document per line. A document that fails to decode aborts the stream
// with its position in the error.
func (i *Inspector) Decode(r io.Reader, w io.Writer) error {
	return i.eachMapping(r, func(pos int, m serialization.Mapping) error {
		normalized, err := i.normalize(m)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", normalized)
		return err
	})
}

// normalize re-encodes the decoded value so the output is the canonical
// mapping regardless of how the input was formatted.
func (i *Inspector) normalize(m serialization.Mapping) ([]byte, error) {
	v, err := i.registry.DecodeAny(m)
	if err != nil {
		return nil, err
	}
	encoded, err := i.registry.Encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encoded)
}

// eachMapping feeds every JSON document in the stream to fn, wrapping
// failures with the 1-based document position.
func (i *Inspector) eachMapping(r io.Reader, fn func(pos int, m serialization.Mapping) error) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	for pos := 1; ; pos++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("document %d: invalid JSON: %w", pos, err)
		}

		var m serialization.Mapping
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("document %d: %w", pos, err)
		}
		if err := fn(pos, m); err != nil {
			return fmt.Errorf("document %d: %w", pos, err)
		}
	}
}
