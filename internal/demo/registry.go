// Package demo holds the scenes the CLI can render by name.
package demo

import (
	"sort"

	"github.com/coreman2200/arcaluminis-render/internal/scene"
)

// Factory builds a fresh scene for one render.
type Factory func(cam scene.Camera) scene.Scene

type Registry struct{ m map[string]Factory }

func NewRegistry() *Registry { return &Registry{m: map[string]Factory{}} }

func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		return
	}
	r.m[name] = f
}

func (r *Registry) Get(name string) (Factory, bool) { f, ok := r.m[name]; return f, ok }

// List returns the registered names in order.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Default has every demo scene registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register("shapes", func(cam scene.Camera) scene.Scene { return NewShapes(cam) })
	r.Register("orbit", func(cam scene.Camera) scene.Scene { return NewOrbit(cam) })
	r.Register("pulse", func(cam scene.Camera) scene.Scene { return NewPulse(cam) })
	return r
}
