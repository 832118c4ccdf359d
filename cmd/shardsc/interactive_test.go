package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragcolor-xyz/shardswgsl"
)

const browseProgram = `{
  "wires": {
    "double": [{"op": "Multiply", "operand": {"value": {"type": "f32", "value": [2]}}}]
  },
  "ops": [
    {"op": "Const", "value": {"type": "f32", "value": [1]}},
    {"op": "Do", "wire": "double"},
    {"op": "Set", "name": "x"}
  ]
}`

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.json")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBrowserCompile(t *testing.T) {
	m := newBrowserModel(writeProgram(t, browseProgram), shardswgsl.DefaultOptions())
	msg, ok := m.compile().(compiledMsg)
	if !ok {
		t.Fatal("compile() should return a compiledMsg")
	}
	if msg.err != nil {
		t.Fatalf("compile() error = %v", msg.err)
	}
	if len(msg.items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(msg.items))
	}
	if msg.items[0].label != "fn main()" || !strings.Contains(msg.items[0].source, "let x_3 = double_1(1.);") {
		t.Errorf("entry item = %+v", msg.items[0])
	}
	if msg.items[1].label != "fn double_1(input_2: f32) -> f32" ||
		!strings.HasPrefix(msg.items[1].source, "fn double_1(input_2: f32) -> f32 {\n") {
		t.Errorf("function item = %+v", msg.items[1])
	}
}

func TestBrowserCompileError(t *testing.T) {
	m := newBrowserModel(writeProgram(t, `{"ops": [{"op": "Get", "name": "ghost"}]}`), shardswgsl.DefaultOptions())
	msg := m.compile().(compiledMsg)
	if msg.err == nil {
		t.Fatal("compile() expected an error")
	}

	m.Update(msg)
	if view := m.View(); !strings.Contains(view, "ghost") {
		t.Errorf("View() should show the error, got %q", view)
	}

	missing := newBrowserModel(filepath.Join(t.TempDir(), "missing.json"), shardswgsl.DefaultOptions())
	if msg := missing.compile().(compiledMsg); msg.err == nil {
		t.Error("compile() of a missing file expected an error")
	}
}

func TestBrowserNavigation(t *testing.T) {
	m := newBrowserModel(writeProgram(t, browseProgram), shardswgsl.DefaultOptions())
	if got := m.View(); got != "Compiling program..." {
		t.Errorf("initial View() = %q", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(m.compile())
	if !m.ready || len(m.items) != 2 {
		t.Fatalf("model not ready: ready=%v items=%d", m.ready, len(m.items))
	}
	if !strings.Contains(m.view.View(), "fn main() {") {
		t.Errorf("viewport should show the entry point first:\n%s", m.view.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Fatalf("selected = %d after down, want 1", m.selected)
	}
	if !strings.Contains(m.view.View(), "return (input_2 * 2.);") {
		t.Errorf("viewport should show the function body:\n%s", m.view.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selected = %d past the end, want 1", m.selected)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.selected != 0 {
		t.Errorf("selected = %d after k, want 0", m.selected)
	}
	if !strings.Contains(m.View(), "shardsc") {
		t.Error("View() should carry the title")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
