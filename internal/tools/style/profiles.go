package style

import (
	"sort"
	"sync"

	"github.com/slidesmith/slidesmith-mcp/internal/analyzer"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Profiles is the in-memory profile registry for the server run, keyed by
// profile name. Persisting across runs goes through ProfileStore.
type Profiles struct {
	mu     sync.RWMutex
	byName map[string]*analyzer.StyleProfile
}

func NewProfiles() *Profiles {
	return &Profiles{byName: make(map[string]*analyzer.StyleProfile)}
}

// Put registers the profile under its name, replacing any previous one.
func (p *Profiles) Put(profile *analyzer.StyleProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byName[profile.Name] = profile
}

// Get returns the profile registered under name.
func (p *Profiles) Get(name string) (*analyzer.StyleProfile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	profile, ok := p.byName[name]
	if !ok {
		return nil, tools.NewHandleNotFound("style profile %q is not loaded: create or load it first", name)
	}
	return profile, nil
}

// Names lists registered profile names, sorted.
func (p *Profiles) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
