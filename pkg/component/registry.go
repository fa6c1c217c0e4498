package component

import (
	"regexp"
	"sort"

	"github.com/vango-dev/quoteboard/internal/errors"
)

// tagPattern matches custom element names: lowercase, starting with a
// letter, containing at least one hyphen.
var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)

// Registry maps unique tags to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under tag. Registering a tag twice is a
// configuration error.
func (r *Registry) Register(tag string, f Factory) error {
	if !tagPattern.MatchString(tag) {
		return errors.New("E400").WithDetailf("invalid tag %q: want lowercase with a hyphen, like stock-price", tag)
	}
	if f == nil {
		return errors.New("E400").WithDetailf("nil factory for tag %q", tag)
	}
	if _, exists := r.factories[tag]; exists {
		return errors.New("E401").WithDetailf("tag %q", tag)
	}
	r.factories[tag] = f
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(tag string, f Factory) {
	if err := r.Register(tag, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under tag.
func (r *Registry) Lookup(tag string) (Factory, error) {
	f, ok := r.factories[tag]
	if !ok {
		return nil, errors.New("E402").WithDetailf("tag %q", tag)
	}
	return f, nil
}

// Tags returns the registered tags, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
