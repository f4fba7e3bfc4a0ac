package cli

import (
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/layout"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"init":       false,
		"generate":   false,
		"preview":    false,
		"steps":      false,
		"serve":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestCollectRequestsNeedsInput(t *testing.T) {
	if _, _, err := collectRequests(nil, ""); err == nil {
		t.Fatal("expected error without files or --kind")
	}
	if _, _, err := collectRequests(nil, "flowchart"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestSampleRequestsBuild(t *testing.T) {
	for name, kind := range kindAliases {
		req := sampleRequest(kind)
		if err := req.Validate(); err != nil {
			t.Fatalf("%s: validate: %v", name, err)
		}
		plan, err := layout.Build(req)
		if err != nil {
			t.Fatalf("%s: build: %v", name, err)
		}
		if len(plan.Elements) == 0 || len(plan.Steps) == 0 {
			t.Errorf("%s: sample plan is trivial (%d elements, %d steps)",
				name, len(plan.Elements), len(plan.Steps))
		}
	}
}

func TestInitCommandWritesRequestFile(t *testing.T) {
	c := New(io.Discard, LogInfo)
	path := filepath.Join(t.TempDir(), "flow.yaml")

	cmd := c.initCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--kind", "process-flow", "-o", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}

	req, err := diagram.ReadRequestFile(path)
	if err != nil {
		t.Fatalf("read written request: %v", err)
	}
	if req.Kind != scene.FamilyFlow {
		t.Errorf("kind = %q", req.Kind)
	}
	if req.Flow == nil || len(req.Flow.Stages) == 0 {
		t.Error("written request carries no stages")
	}

	// A second run without --force must not clobber the file.
	cmd = c.initCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--kind", "process-flow", "-o", path})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error overwriting an existing file")
	}
}

func TestStepListModelNavigation(t *testing.T) {
	req := sampleRequest(scene.FamilyFlow)
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}
	plan, err := layout.Build(req)
	if err != nil {
		t.Fatal(err)
	}

	m := NewStepListModel(plan)

	key := func(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	next, _ := m.Update(key("j"))
	m = next.(StepListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.Cursor)
	}

	next, _ = m.Update(key("k"))
	m = next.(StepListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.Cursor)
	}

	next, _ = m.Update(key("k"))
	m = next.(StepListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor should clamp at 0, got %d", m.Cursor)
	}

	next, _ = m.Update(key("G"))
	m = next.(StepListModel)
	if m.Cursor != len(plan.Steps)-1 {
		t.Errorf("cursor after G = %d, want %d", m.Cursor, len(plan.Steps)-1)
	}

	next, cmd := m.Update(key("q"))
	m = next.(StepListModel)
	if cmd == nil {
		t.Error("q should quit")
	}

	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestStepListModelEmptyPlan(t *testing.T) {
	plan := &scene.Plan{Title: "Empty", Family: scene.FamilyFlow}
	m := NewStepListModel(plan)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(StepListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor moved in empty plan: %d", m.Cursor)
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}
