package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

func TestAllocateAssignsMonotonicHandles(t *testing.T) {
	r := NewRegistry()

	for want := 1; want <= 3; want++ {
		s := r.Allocate(deck.New(), "")
		if s.ID != fmt.Sprintf("prs_%d", want) {
			t.Errorf("expected prs_%d, got %s", want, s.ID)
		}
	}
	if r.Count() != 3 {
		t.Errorf("expected 3 open sessions, got %d", r.Count())
	}
}

func TestReleasedHandlesAreNotReused(t *testing.T) {
	r := NewRegistry()

	first := r.Allocate(deck.New(), "")
	r.Release(first.ID)

	second := r.Allocate(deck.New(), "")
	if second.ID != "prs_2" {
		t.Errorf("expected prs_2 after a release, got %s", second.ID)
	}

	var te *tools.ToolError
	if _, err := r.Get(first.ID); !errors.As(err, &te) || te.Kind != tools.KindHandleNotFound {
		t.Errorf("expected handle_not_found for the released handle, got %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	r := NewRegistry()
	s := r.Allocate(deck.New(), "")

	r.Release(s.ID)
	r.Release(s.ID)
	r.Release("prs_999")

	if r.Count() != 0 {
		t.Errorf("expected 0 open sessions, got %d", r.Count())
	}
}

func TestGetResolvesDeckAndPath(t *testing.T) {
	r := NewRegistry()
	d := deck.New()
	s := r.Allocate(d, "/tmp/deck.pptx")

	got, err := r.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Deck != d {
		t.Error("Get returned a different deck")
	}
	if got.Path != "/tmp/deck.pptx" {
		t.Errorf("expected the allocation path, got %q", got.Path)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestIDsSortInAllocationOrder(t *testing.T) {
	r := NewRegistry()

	// Two-digit handles sort after one-digit ones.
	want := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		want = append(want, r.Allocate(deck.New(), "").ID)
	}

	got := r.IDs()
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCloseSweepsWithoutRewindingTheSequence(t *testing.T) {
	r := NewRegistry()
	r.Allocate(deck.New(), "")
	r.Allocate(deck.New(), "")

	r.Close()
	if r.Count() != 0 {
		t.Fatalf("expected 0 sessions after Close, got %d", r.Count())
	}

	if s := r.Allocate(deck.New(), ""); s.ID != "prs_3" {
		t.Errorf("expected prs_3 after Close, got %s", s.ID)
	}
}
