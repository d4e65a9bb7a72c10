// Package hooks implements the post-processing hook registry. A hook is a
// pure URL→URL transformation applied after query filtering; hooks never
// perform I/O, so a chain of them is safe to run from any number of
// goroutines against the shared registry.
package hooks

import (
	"fmt"
	"net/url"
)

// Func transforms a URL. It must not mutate its input; it returns a new URL
// or an error describing why the input is not applicable.
type Func func(u *url.URL) (*url.URL, error)

// Registry maps hook names to their implementations. Built once at startup,
// read-only afterwards.
type Registry struct {
	hooks map[string]Func
}

// NewRegistry returns a registry preloaded with the built-in hooks.
func NewRegistry() *Registry {
	return &Registry{hooks: map[string]Func{
		NameBvToAv: BvToAv,
		NameMirror: Mirror,
	}}
}

// NewEmptyRegistry returns a registry with no hooks registered. Used by
// feature-gated deployments and by tests.
func NewEmptyRegistry() *Registry {
	return &Registry{hooks: map[string]Func{}}
}

// Register adds a hook under name. Registration happens during construction,
// before the registry is shared; it is not safe concurrently with Get.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("hook name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("hook %q: nil function", name)
	}
	if _, exists := r.hooks[name]; exists {
		return fmt.Errorf("hook %q already registered", name)
	}
	r.hooks[name] = fn
	return nil
}

// Get returns the hook registered under name. A rule may reference a name
// that was never registered; the caller turns the miss into a runtime error.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.hooks[name]
	return fn, ok
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.hooks)
}
