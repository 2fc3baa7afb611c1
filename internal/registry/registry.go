// Package registry holds the class nodes produced during one generation
// pass. A Registry is not safe for concurrent use; concurrent passes must
// each own one.
package registry

import (
	"sort"

	"github.com/cmmoran/buildergen/internal/model"
)

type Registry struct {
	byName map[string]*model.Clazz
}

func New() *Registry {
	return &Registry{byName: make(map[string]*model.Clazz)}
}

// GetOrCreate returns the class stored under name, creating an empty one
// on first reference.
func (r *Registry) GetOrCreate(name string) *model.Clazz {
	if c, ok := r.byName[name]; ok {
		return c
	}
	c := model.NewClazz(name)
	r.byName[name] = c
	return c
}

// Lookup returns the class stored under name without creating it.
func (r *Registry) Lookup(name string) (*model.Clazz, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) Len() int { return len(r.byName) }

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a snapshot of every stored class, sorted by registered name.
func (r *Registry) All() []*model.Clazz {
	names := r.Names()
	out := make([]*model.Clazz, len(names))
	for i, name := range names {
		out[i] = r.byName[name]
	}
	return out
}
