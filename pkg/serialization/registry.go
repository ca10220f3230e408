package serialization

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization/columnar"
)

type registration struct {
	codec  Codec
	schema *columnar.Descriptor
}

// Registry binds wire type tags to their codec and columnar schema. It is
// populated once during start-up and then used read-only from any number of
// goroutines; there is no deregistration.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registration),
	}
}

// Register binds the codec's wire type tag to the codec and schema pair.
// Registering the identical pair again is a no-op; a conflicting pair for an
// already bound tag fails with ErrDuplicateRegistration and leaves the
// existing binding untouched.
func (r *Registry) Register(codec Codec, schema *columnar.Descriptor) error {
	if codec == nil {
		return fmt.Errorf("register: codec is nil")
	}
	if schema == nil {
		return fmt.Errorf("register: schema is nil")
	}
	tag := codec.WireType()
	if tag == "" {
		return fmt.Errorf("register: codec has empty wire type")
	}
	if schema.WireType() != tag {
		return fmt.Errorf("register %q: schema is for wire type %q", tag, schema.WireType())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[tag]
	if ok {
		if sameCodec(existing.codec, codec) && existing.schema.Equal(schema) {
			return nil
		}
		return fmt.Errorf("wire type %q: %w", tag, ErrDuplicateRegistration)
	}
	r.entries[tag] = registration{codec: codec, schema: schema}
	return nil
}

// Codec returns the codec bound to tag.
func (r *Registry) Codec(tag string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[tag]
	if !ok {
		return nil, fmt.Errorf("wire type %q: %w", tag, ErrUnregisteredType)
	}
	return reg.codec, nil
}

// Schema returns the columnar schema bound to tag.
func (r *Registry) Schema(tag string) (*columnar.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[tag]
	if !ok {
		return nil, fmt.Errorf("wire type %q: %w", tag, ErrUnregisteredType)
	}
	return reg.schema, nil
}

// Encode converts a value to its wire mapping using the codec registered for
// the value's own tag. The returned mapping always carries the tag under
// TypeKey.
func (r *Registry) Encode(v Serializable) (Mapping, error) {
	if v == nil {
		return nil, fmt.Errorf("encode: value is nil")
	}
	codec, err := r.Codec(v.WireType())
	if err != nil {
		return nil, err
	}
	m, err := codec.Encode(v)
	if err != nil {
		return nil, err
	}
	m[TypeKey] = codec.WireType()
	return m, nil
}

// DecodeAny reconstructs a domain value from a mapping by dispatching on its
// type tag. A mapping without the tag fails with ErrMalformedWireValue, an
// unknown tag with ErrUnregisteredType.
func (r *Registry) DecodeAny(m Mapping) (Serializable, error) {
	tag, err := m.Type()
	if err != nil {
		return nil, err
	}
	codec, err := r.Codec(tag)
	if err != nil {
		return nil, err
	}
	return codec.Decode(m)
}

// Tags returns the registered wire type tags in lexical order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Codecs are expected to be stateless singletons, so identity is the dynamic
// type plus value equality. A non-comparable codec type can never prove the
// pair identical, so re-registering one conflicts.
func sameCodec(a, b Codec) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
