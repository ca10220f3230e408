package serialization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Mapping is the flat wire representation of a domain value: string keys to
// values drawn from the canonical kinds string, int64, nil and []byte holding
// a nested JSON document. A key set to nil is an explicit null and is
// distinct from an omitted key on the encode side; decode treats the two the
// same for optional fields.
type Mapping map[string]any

// Type returns the wire type tag stored under TypeKey.
func (m Mapping) Type() (string, error) {
	return m.String(TypeKey)
}

// String returns the required string value for key.
func (m Mapping) String(key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", fmt.Errorf("key %q: missing string value: %w", key, ErrMalformedWireValue)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("key %q: expected string, got %T: %w", key, v, ErrMalformedWireValue)
	}
	return s, nil
}

// NullableString returns the string value for key, or nil when the key is
// absent or explicitly null.
func (m Mapping) NullableString(key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("key %q: expected string or null, got %T: %w", key, v, ErrMalformedWireValue)
	}
	return &s, nil
}

// Int64 returns the required int64 value for key. Integral json.Number and
// float64 values are accepted so mappings survive JSON transport untouched.
func (m Mapping) Int64(key string) (int64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("key %q: missing int64 value: %w", key, ErrMalformedWireValue)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("key %q: non-integral number %q: %w", key, n.String(), ErrMalformedWireValue)
		}
		return i, nil
	case float64:
		i := int64(n)
		if float64(i) != n {
			return 0, fmt.Errorf("key %q: non-integral number %v: %w", key, n, ErrMalformedWireValue)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("key %q: expected int64, got %T: %w", key, v, ErrMalformedWireValue)
	}
}

// Doc returns the required nested JSON document for key as raw bytes.
func (m Mapping) Doc(key string) ([]byte, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("key %q: missing document value: %w", key, ErrMalformedWireValue)
	}
	switch d := v.(type) {
	case []byte:
		if !json.Valid(d) {
			return nil, fmt.Errorf("key %q: invalid nested document: %w", key, ErrMalformedWireValue)
		}
		return d, nil
	case json.RawMessage:
		if !json.Valid(d) {
			return nil, fmt.Errorf("key %q: invalid nested document: %w", key, ErrMalformedWireValue)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("key %q: expected JSON document, got %T: %w", key, v, ErrMalformedWireValue)
	}
}

// NullableDoc returns the nested JSON document for key decoded into a map,
// or nil when the key is absent or explicitly null. Numbers inside the
// document are kept as json.Number to avoid float64 narrowing.
func (m Mapping) NullableDoc(key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch d := v.(type) {
	case []byte:
		return unmarshalDoc(key, d)
	case json.RawMessage:
		return unmarshalDoc(key, d)
	case map[string]any:
		return d, nil
	default:
		return nil, fmt.Errorf("key %q: expected JSON document, got %T: %w", key, v, ErrMalformedWireValue)
	}
}

// MarshalDoc renders a free-form document into the canonical nested JSON
// bytes stored inside a mapping.
func MarshalDoc(doc map[string]any) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal nested document: %w", err)
	}
	return b, nil
}

func unmarshalDoc(key string, data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("key %q: invalid nested document: %w", key, ErrMalformedWireValue)
	}
	return doc, nil
}

// MarshalJSON renders the mapping in its canonical JSON form: strings and
// integers as JSON scalars, nil as null and nested documents embedded as raw
// JSON rather than base64 bytes.
func (m Mapping) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		raw, err := wireValueJSON(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}
	return json.Marshal(out)
}

func wireValueJSON(key string, v any) (json.RawMessage, error) {
	switch val := v.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case string:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		return b, nil
	case int64:
		return json.RawMessage(strconv.FormatInt(val, 10)), nil
	case int:
		return json.RawMessage(strconv.FormatInt(int64(val), 10)), nil
	case json.Number:
		if _, err := val.Int64(); err != nil {
			return nil, fmt.Errorf("key %q: non-integral number %q: %w", key, val.String(), ErrMalformedWireValue)
		}
		return json.RawMessage(val.String()), nil
	case []byte:
		if !json.Valid(val) {
			return nil, fmt.Errorf("key %q: nested document is not valid JSON: %w", key, ErrMalformedWireValue)
		}
		return json.RawMessage(val), nil
	case json.RawMessage:
		if !json.Valid(val) {
			return nil, fmt.Errorf("key %q: nested document is not valid JSON: %w", key, ErrMalformedWireValue)
		}
		return val, nil
	default:
		return nil, fmt.Errorf("key %q: unsupported wire kind %T: %w", key, v, ErrMalformedWireValue)
	}
}

// UnmarshalJSON parses the canonical JSON form back into a mapping. JSON
// objects and arrays are kept as raw document bytes, integral numbers become
// int64. Non-canonical scalars (floats, booleans) are kept as parsed so the
// typed accessors can report precise errors.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("wire mapping is not a JSON object: %w", ErrMalformedWireValue)
	}
	out := make(Mapping, len(raw))
	for k, r := range raw {
		v, err := parseWireValue(k, r)
		if err != nil {
			return err
		}
		out[k] = v
	}
	*m = out
	return nil
}

func parseWireValue(key string, raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("key %q: empty value: %w", key, ErrMalformedWireValue)
	}
	switch trimmed[0] {
	case 'n':
		return nil, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("key %q: invalid string: %w", key, ErrMalformedWireValue)
		}
		return s, nil
	case '{', '[':
		doc := make([]byte, len(trimmed))
		copy(doc, trimmed)
		return doc, nil
	case 't', 'f':
		return trimmed[0] == 't', nil
	default:
		num := json.Number(trimmed)
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		f, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("key %q: invalid number %q: %w", key, num.String(), ErrMalformedWireValue)
		}
		return f, nil
	}
}
