package challenge

import (
	"errors"
	"fmt"
	"sort"

	"codequest/internal/logging"
)

// ErrDuplicate is returned when a challenge id is registered twice.
var ErrDuplicate = errors.New("duplicate challenge id")

// Factory builds one challenge.
type Factory func() (*Challenge, error)

// Source is one entry of the registration list.
type Source struct {
	// Name identifies the source in logs: a builtin name or a pack file path.
	Name    string
	Factory Factory
}

// PackReader lists the sources found in a pack directory.
type PackReader func(dir string) ([]Source, error)

// Registry holds the loaded challenges in registration order.
type Registry struct {
	byID  map[string]*Challenge
	order []*Challenge
	log   *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*Challenge),
		log:  logging.Get(logging.CategoryRegistry),
	}
}

// Add registers c.
func (r *Registry) Add(c *Challenge) error {
	if _, exists := r.byID[c.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.ID())
	}
	r.byID[c.ID()] = c
	r.order = append(r.order, c)
	return nil
}

// Load builds every source. A source whose factory fails or panics, or that
// yields a duplicate id, is logged and skipped. It returns how many
// challenges were added.
func (r *Registry) Load(sources ...Source) int {
	loaded := 0
	for _, src := range sources {
		c, err := build(src)
		if err != nil {
			r.log.Warn("Skipping challenge source %s: %v", src.Name, err)
			continue
		}
		if err := r.Add(c); err != nil {
			r.log.Warn("Skipping challenge source %s: %v", src.Name, err)
			continue
		}
		r.log.Debug("Loaded challenge %s from %s", c.ID(), src.Name)
		loaded++
	}
	r.log.Info("Loaded %d of %d challenge sources", loaded, len(sources))
	return loaded
}

// LoadPacks reads every pack directory with read and loads what it finds.
// An unreadable directory is logged and skipped.
func (r *Registry) LoadPacks(read PackReader, dirs ...string) int {
	loaded := 0
	for _, dir := range dirs {
		sources, err := read(dir)
		if err != nil {
			r.log.Warn("Skipping challenge pack %s: %v", dir, err)
			continue
		}
		loaded += r.Load(sources...)
	}
	return loaded
}

func build(src Source) (c *Challenge, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("factory panicked: %v", rec)
		}
	}()
	if src.Factory == nil {
		return nil, errors.New("no factory")
	}
	c, err = src.Factory()
	if err == nil && c == nil {
		err = errors.New("factory returned no challenge")
	}
	return c, err
}

// Get looks a challenge up by id.
func (r *Registry) Get(id string) (*Challenge, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// ByArea returns the challenges of one area in registration order.
func (r *Registry) ByArea(area string) []*Challenge {
	var out []*Challenge
	for _, c := range r.order {
		if c.def.Area == area {
			out = append(out, c)
		}
	}
	return out
}

// All returns every challenge in registration order.
func (r *Registry) All() []*Challenge {
	return append([]*Challenge(nil), r.order...)
}

// Areas returns the distinct areas, sorted.
func (r *Registry) Areas() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range r.order {
		if !seen[c.def.Area] {
			seen[c.def.Area] = true
			out = append(out, c.def.Area)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered challenges.
func (r *Registry) Len() int {
	return len(r.order)
}
