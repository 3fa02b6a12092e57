package compute

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

const (
	// EntrySeparator joins serialized parameters.
	EntrySeparator = "|"
	// FieldSeparator splits an entry into its tag and payload. Only the
	// first occurrence counts; payloads may contain it freely.
	FieldSeparator = "_"
)

// Registry is the closed set of parameter variants the codec understands,
// keyed by a short tag. Tags are what gets persisted, never Go type names.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]func() Parameter
	tags      map[reflect.Type]string
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]func() Parameter),
		tags:      make(map[reflect.Type]string),
	}
}

// DefaultRegistry knows the built-in variants: Float, Int, Vector, Texture.
// Package noise adds its configuration under the Noise tag.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("Float", func() Parameter { return &FloatParameter{} })
	DefaultRegistry.Register("Int", func() Parameter { return &IntParameter{} })
	DefaultRegistry.Register("Vector", func() Parameter { return &VectorParameter{} })
	DefaultRegistry.Register("Texture", func() Parameter { return &TextureParameter{} })
}

// Register adds a variant. It panics on an empty tag, a tag containing a
// separator, or a tag or type registered twice.
func (r *Registry) Register(tag string, factory func() Parameter) {
	if tag == "" || strings.Contains(tag, FieldSeparator) || strings.Contains(tag, EntrySeparator) {
		panic(fmt.Sprintf("compute: invalid parameter tag %q", tag))
	}
	typ := reflect.TypeOf(factory())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[tag]; ok {
		panic(fmt.Sprintf("compute: parameter tag %q already registered", tag))
	}
	if prev, ok := r.tags[typ]; ok {
		panic(fmt.Sprintf("compute: %s already registered as %q", typ, prev))
	}
	r.factories[tag] = factory
	r.tags[typ] = tag
}

// Tag returns the tag p serializes under.
func (r *Registry) Tag(p Parameter) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.tags[reflect.TypeOf(p)]
	return tag, ok
}

// New returns a zero parameter for tag.
func (r *Registry) New(tag string) (Parameter, bool) {
	r.mu.RLock()
	factory, ok := r.factories[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Encode serializes params as tag_payload entries joined by "|".
// Parameters of unregistered types are skipped. The returned error lists
// parameters whose payload could not be encoded; they are skipped too.
func (r *Registry) Encode(params []Parameter) (string, error) {
	var sb strings.Builder
	var errs []error
	for i, p := range params {
		if p == nil {
			continue
		}
		tag, ok := r.Tag(p)
		if !ok {
			continue
		}
		payload, err := json.Marshal(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("parameter %d (%s %q): %w", i, tag, p.BindingName(), err))
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(EntrySeparator)
		}
		sb.WriteString(tag)
		sb.WriteString(FieldSeparator)
		sb.WriteString(escapePayload(payload))
	}
	return sb.String(), errors.Join(errs...)
}

// Decode restores a parameter list. Entries with an unknown tag, a missing
// payload or a payload that does not decode are dropped; the rest are
// returned together with an error describing every dropped entry.
func (r *Registry) Decode(blob string) ([]Parameter, error) {
	if blob == "" {
		return nil, nil
	}
	var params []Parameter
	var errs []error
	for i, entry := range strings.Split(blob, EntrySeparator) {
		tag, payload, found := strings.Cut(entry, FieldSeparator)
		if !found || tag == "" || payload == "" {
			errs = append(errs, fmt.Errorf("entry %d: malformed %q", i, entry))
			continue
		}
		p, ok := r.New(tag)
		if !ok {
			errs = append(errs, fmt.Errorf("entry %d: unknown tag %q", i, tag))
			continue
		}
		if err := json.Unmarshal([]byte(payload), p); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i, tag, err))
			continue
		}
		if res, ok := p.(Resolver); ok {
			res.ResolveID()
		}
		params = append(params, p)
	}
	return params, errors.Join(errs...)
}

// escapePayload keeps the entry separator out of JSON text. A "|" can only
// appear inside a JSON string, where \u007c decodes back to the same rune.
func escapePayload(payload []byte) string {
	return strings.ReplaceAll(string(payload), EntrySeparator, `\u007c`)
}
