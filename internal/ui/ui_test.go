package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/echomind/internal/batch"
	"github.com/felixgeelhaar/echomind/internal/memory"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

func TestSilentUI_ImplementsInterface(t *testing.T) {
	var _ UI = SilentUI{}
	var _ UI = &SilentUI{}
	var _ UI = &Console{}
	var _ UI = &JSON{}
}

// MockUI implements UI interface for testing
type MockUI struct {
	Statuses []workflow.Connection
	Notices  []workflow.Notice
	Views    []any
	Logs     []string
}

func (m *MockUI) UpdateStatus(conn workflow.Connection) { m.Statuses = append(m.Statuses, conn) }
func (m *MockUI) Notify(n workflow.Notice)              { m.Notices = append(m.Notices, n) }
func (m *MockUI) Show(view any)                         { m.Views = append(m.Views, view) }
func (m *MockUI) Log(msg string)                        { m.Logs = append(m.Logs, msg) }

func TestUI_InterfaceMethods(t *testing.T) {
	uis := []UI{
		SilentUI{},
		&MockUI{},
		NewConsole(&bytes.Buffer{}),
		NewJSON(&bytes.Buffer{}),
	}

	for _, u := range uis {
		// These should all work without panic
		u.UpdateStatus(workflow.Connected)
		u.Notify(workflow.Notice{Level: workflow.LevelInfo, Text: "test"})
		u.Show(workflow.SearchView{})
		u.Log("test")
	}
}

func TestConsole_SearchPreservesOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf)

	c.Show(workflow.SearchView{Results: []string{"a", "b", "c"}})

	out := buf.String()
	ia, ib, ic := strings.Index(out, "1. a"), strings.Index(out, "2. b"), strings.Index(out, "3. c")
	if ia < 0 || ib < 0 || ic < 0 {
		t.Fatalf("expected numbered results, got %q", out)
	}
	if !(ia < ib && ib < ic) {
		t.Errorf("expected order a, b, c in %q", out)
	}
}

func TestConsole_Listing(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf)

	c.Show(workflow.ManageView{
		Loaded: true,
		Total:  2,
		Memories: []memory.Memory{
			{ID: "1", Text: "x"},
			{ID: "2", Text: "y"},
		},
	})

	out := buf.String()
	if !strings.Contains(out, "All Memories (2 total)") {
		t.Errorf("expected header, got %q", out)
	}
	if !strings.Contains(out, "Memory 1: x...") || !strings.Contains(out, "id: 1") {
		t.Errorf("expected x paired with 1, got %q", out)
	}
	if !strings.Contains(out, "Memory 2: y...") || !strings.Contains(out, "id: 2") {
		t.Errorf("expected y paired with 2, got %q", out)
	}
}

func TestConsole_EmptyListing(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsole(buf).Show(workflow.ManageView{Loaded: true})

	if !strings.Contains(buf.String(), workflow.NothingStored) {
		t.Errorf("expected nothing-stored message, got %q", buf.String())
	}
}

func TestConsole_ImportSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsole(buf).Show(batch.Summary{Stored: 2, Failed: 1})

	if !strings.Contains(buf.String(), "Imported 2, failed 1, skipped 0") {
		t.Errorf("unexpected summary %q", buf.String())
	}
}

func TestJSON_Notice(t *testing.T) {
	buf := &bytes.Buffer{}
	NewJSON(buf).Notify(workflow.Notice{Level: workflow.LevelSuccess, Text: "Memory stored successfully! ID: abc123"})

	var got map[string]map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["notice"]["level"] != "success" {
		t.Errorf("expected level 'success', got %q", got["notice"]["level"])
	}
	if !strings.Contains(got["notice"]["text"], "abc123") {
		t.Errorf("expected id in text, got %q", got["notice"]["text"])
	}
}

func TestRenderNotice(t *testing.T) {
	if RenderNotice(workflow.Notice{}) != "" {
		t.Error("expected zero notice to render empty")
	}
	out := RenderNotice(workflow.Notice{Level: workflow.LevelError, Text: "Failed to delete memory."})
	if !strings.Contains(out, "Failed to delete memory.") {
		t.Errorf("expected text in rendered notice, got %q", out)
	}
}

func TestRenderMemory(t *testing.T) {
	m := memory.Memory{ID: "42", Text: strings.Repeat("z", 60)}

	collapsed := RenderMemory(0, m, false)
	if strings.Contains(collapsed, "id: 42") {
		t.Error("collapsed entry should not show the id")
	}
	if !strings.Contains(collapsed, "Memory 1: "+strings.Repeat("z", 50)+"...") {
		t.Errorf("unexpected label %q", collapsed)
	}

	expanded := RenderMemory(0, m, true)
	if !strings.Contains(expanded, strings.Repeat("z", 60)) || !strings.Contains(expanded, "id: 42") {
		t.Errorf("expanded entry should show full text and id, got %q", expanded)
	}
}
