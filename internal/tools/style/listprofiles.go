package style

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ListProfilesTool enumerates profiles in memory and in the store.
type ListProfilesTool struct {
	profiles *Profiles
	store    *ProfileStore
}

func NewListProfilesTool(profiles *Profiles, store *ProfileStore) *ListProfilesTool {
	return &ListProfilesTool{profiles: profiles, store: store}
}

func (t *ListProfilesTool) Name() string {
	return "list_style_profiles"
}

func (t *ListProfilesTool) Title() string {
	return "List Style Profiles"
}

func (t *ListProfilesTool) Description() string {
	return `List every known style profile: loaded ones, persisted ones, or both.
in_memory marks profiles usable right now; persisted ones need
load_style_profile first.`
}

func (t *ListProfilesTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ListProfilesTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {}
	}`)
}

// listEntry merges the memory and store views of one profile name.
type listEntry struct {
	Name       string  `json:"name"`
	SourceFile string  `json:"source_file,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	InMemory   bool    `json:"in_memory"`
	Persisted  bool    `json:"persisted"`
}

func (t *ListProfilesTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	byName := make(map[string]*listEntry)
	if t.store != nil {
		stored, err := t.store.List()
		if err != nil {
			return nil, err
		}
		for _, s := range stored {
			byName[s.Name] = &listEntry{
				Name:       s.Name,
				SourceFile: s.SourceFile,
				Confidence: s.Confidence,
				Persisted:  true,
			}
		}
	}
	for _, name := range t.profiles.Names() {
		entry, ok := byName[name]
		if !ok {
			entry = &listEntry{Name: name}
			byName[name] = entry
		}
		entry.InMemory = true
		if profile, err := t.profiles.Get(name); err == nil {
			entry.SourceFile = profile.SourceFile
			entry.Confidence = profile.Confidence
		}
	}

	entries := make([]listEntry, 0, len(byName))
	for _, e := range byName {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return map[string]interface{}{
		"count":    len(entries),
		"profiles": entries,
	}, nil
}
