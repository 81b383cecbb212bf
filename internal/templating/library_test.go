package templating

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleTemplateJSON = `{
  "name": "status-update",
  "slides": [
    {
      "layout": 6,
      "elements": [
        {"type": "text", "left": 1, "top": 1, "width": 8, "height": 1, "text": "{{title}}"}
      ]
    }
  ]
}`

func TestLibraryLoadAll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "status.json"), []byte(sampleTemplateJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore()
	lib := NewLibrary(store, dir)
	if loaded := lib.LoadAll(); loaded != 1 {
		t.Fatalf("loaded = %d, want 1", loaded)
	}

	list := store.List()
	if len(list) != 1 || list[0].Name != "status-update" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].ID != "tpl_file_status" {
		t.Errorf("id = %s, want tpl_file_status", list[0].ID)
	}
	if list[0].Source == "" {
		t.Error("file-loaded template should record its source path")
	}
}

func TestLibraryReloadKeepsID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")
	if err := os.WriteFile(path, []byte(sampleTemplateJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore()
	lib := NewLibrary(store, dir)
	lib.LoadAll()
	before := store.List()
	if len(before) != 1 {
		t.Fatalf("list = %+v", before)
	}

	if err := lib.loadFile(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	after := store.List()
	if len(after) != 1 || after[0].ID != before[0].ID {
		t.Errorf("reload changed id: before %s, after %+v", before[0].ID, after)
	}
}

func TestListOrdersSessionBeforeFileTemplates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alpha.json"), []byte(sampleTemplateJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore()
	NewLibrary(store, dir).LoadAll()

	session := &Template{
		Name: "inline",
		Slides: []TemplateSlide{
			{Layout: 6, Elements: []Element{{Type: "text", Text: "hi"}}},
		},
	}
	if _, err := store.Create(session); err != nil {
		t.Fatal(err)
	}

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("list = %+v", list)
	}
	if list[0].ID != "tpl_1" || list[1].ID != "tpl_file_alpha" {
		t.Errorf("order = [%s %s], want session first", list[0].ID, list[1].ID)
	}
}

func TestLibraryNameDefaultsToFileName(t *testing.T) {
	dir := t.TempDir()
	unnamed := `{"slides": [{"layout": 6, "elements": [{"type": "text", "text": "hi"}]}]}`
	if err := os.WriteFile(filepath.Join(dir, "intro-deck.json"), []byte(unnamed), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore()
	NewLibrary(store, dir).LoadAll()
	list := store.List()
	if len(list) != 1 || list[0].Name != "intro-deck" {
		t.Fatalf("list = %+v", list)
	}
}
