// Package session holds the process-wide registry of open presentations.
// Handles are allocated monotonically and never reused within a process.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// Session is one open presentation. The mutex serializes mutation: at most
// one operation touches the deck at a time, so facade operations observe
// the order the dispatcher received them.
type Session struct {
	ID        string
	Deck      *deck.Deck
	Path      string
	CreatedAt time.Time

	mu sync.Mutex
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Registry maps handle ids to sessions.
type Registry struct {
	mu       sync.RWMutex
	seq      int64
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Allocate registers a deck under the next handle id.
func (r *Registry) Allocate(d *deck.Deck, path string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	s := &Session{
		ID:        fmt.Sprintf("prs_%d", r.seq),
		Deck:      d,
		Path:      path,
		CreatedAt: time.Now(),
	}
	r.sessions[s.ID] = s
	return s
}

// Get resolves a handle id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, tools.NewHandleNotFound("presentation %q not found: create or load one first", id)
	}
	return s, nil
}

// Release drops a handle. Releasing an unknown id is a no-op; the
// sequence counter never rewinds, so released ids are not reissued.
func (r *Registry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// IDs returns the open handle ids in allocation order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return len(ids[i]) < len(ids[j]) || (len(ids[i]) == len(ids[j]) && ids[i] < ids[j])
	})
	return ids
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close releases every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
}
