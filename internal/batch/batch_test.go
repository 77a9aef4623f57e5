package batch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/felixgeelhaar/echomind/internal/client"
	"github.com/felixgeelhaar/echomind/internal/observe"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		p := writeFile(t, dir, "notes.yaml", "memories:\n  - first note\n  - second note\n")
		f, err := Load(p)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(f.Memories) != 2 || f.Memories[1] != "second note" {
			t.Errorf("unexpected memories %v", f.Memories)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		p := writeFile(t, dir, "notes.json", `{"memories": ["only note"]}`)
		f, err := Load(p)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(f.Memories) != 1 {
			t.Errorf("expected 1 memory, got %d", len(f.Memories))
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		p := writeFile(t, dir, "notes.txt", "hello")
		if _, err := Load(p); err == nil {
			t.Error("expected error for unsupported extension")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		p := writeFile(t, dir, "bad.json", `{"memories": [`)
		if _, err := Load(p); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		res := Validate(File{})
		if res.Valid {
			t.Error("expected file without memories to be invalid")
		}
	})

	t.Run("BlankEntries", func(t *testing.T) {
		res := Validate(File{Memories: []string{"ok", "  ", ""}})
		if !res.Valid {
			t.Errorf("expected valid file, got errors %v", res.Errors)
		}
		if len(res.Warnings) != 2 {
			t.Errorf("expected 2 warnings, got %v", res.Warnings)
		}
	})
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "memories: [a]")
	b := writeFile(t, dir, "nested/deep/b.yaml", "memories: [b]")
	writeFile(t, dir, "nested/c.json", `{"memories": ["c"]}`)

	paths, err := Expand([]string{filepath.Join(dir, "**", "*.yaml"), a})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 unique paths, got %v", paths)
	}
	if paths[0] != a || paths[1] != b {
		t.Errorf("unexpected order %v", paths)
	}

	if _, err := Expand([]string{filepath.Join(dir, "*.toml")}); err == nil {
		t.Error("expected error when nothing matches")
	}
}

func TestImporter_Import(t *testing.T) {
	var mu sync.Mutex
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		received = append(received, body["text"])
		mu.Unlock()
		if body["text"] == "reject me" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"id": "id-` + body["text"] + `"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.yaml", "memories:\n  - alpha\n  - '   '\n  - reject me\n")
	p2 := writeFile(t, dir, "two.json", `{"memories": ["beta"]}`)

	wf := workflow.New(client.New(server.URL, observe.New(io.Discard, false)), nil)
	sum, err := NewImporter(wf).Import(context.Background(), []string{p1, p2})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if sum.Stored != 2 || sum.Failed != 1 || sum.Skipped != 1 {
		t.Errorf("unexpected summary %+v", sum)
	}
	want := []string{"alpha", "reject me", "beta"}
	if len(received) != len(want) {
		t.Fatalf("expected requests %v, got %v", want, received)
	}
	for i := range want {
		if received[i] != want[i] {
			t.Errorf("request %d: expected %q, got %q", i, want[i], received[i])
		}
	}
	if sum.Outcomes[0].ID != "id-alpha" {
		t.Errorf("expected first outcome id 'id-alpha', got %q", sum.Outcomes[0].ID)
	}
	if !sum.Outcomes[1].Notice.Failed() {
		t.Error("expected second outcome to be a failure")
	}
}

func TestImporter_InvalidFileSendsNothing(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id": "x"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "memories: [fine]")
	empty := writeFile(t, dir, "empty.yaml", "memories: []")

	wf := workflow.New(client.New(server.URL, observe.New(io.Discard, false)), nil)
	if _, err := NewImporter(wf).Import(context.Background(), []string{good, empty}); err == nil {
		t.Fatal("expected validation error")
	}
	if calls != 0 {
		t.Errorf("expected no requests, got %d", calls)
	}
}
