package preview

import (
	"strings"
	"testing"

	"github.com/sceneforge/sceneforge/pkg/scene"
)

func flowPlan() *scene.Plan {
	return &scene.Plan{
		Title:  "Deployment Flow",
		Family: scene.FamilyFlow,
		Elements: []scene.Element{
			{ID: "stage-0", Shape: scene.ShapeBox, Label: "Build", Color: scene.ColorGreen},
			{ID: "stage-1", Shape: scene.ShapeDiamond, Label: "Tests pass?", Color: scene.ColorYellow},
			{ID: "stage-2", Shape: scene.ShapeBox, Label: "Deploy", Color: scene.ColorBlue},
		},
		Steps: []scene.Step{
			{Ordinal: 0, From: "stage-0", To: "stage-1", Message: "Tests pass?", Color: scene.ColorWhite, Kind: scene.StepTransition},
			{Ordinal: 1, From: "stage-1", To: "stage-2", Message: "Deploy", Color: scene.ColorWhite, Kind: scene.StepTransition},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(flowPlan())

	for _, want := range []string{
		"digraph scene {",
		`label="Deployment Flow";`,
		`"stage-0" [label="Build", shape=box, color=forestgreen];`,
		`"stage-1" [label="Tests pass?", shape=diamond, color=gold];`,
		`"stage-0" -> "stage-1"`,
		`label="1: Tests pass?"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEdgeOrderFollowsOrdinals(t *testing.T) {
	edges := edgeLines(ToDOT(flowPlan()))
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if !strings.Contains(edges[0], `"stage-0" -> "stage-1"`) {
		t.Errorf("first edge = %q", edges[0])
	}
	if !strings.Contains(edges[1], `"stage-1" -> "stage-2"`) {
		t.Errorf("second edge = %q", edges[1])
	}
}

func TestToDOTSkipsCaptionSteps(t *testing.T) {
	plan := flowPlan()
	plan.Steps = append(plan.Steps, scene.Step{
		Ordinal: 2, Message: "SEARCH 3", Color: scene.ColorYellow, Kind: scene.StepHighlight,
	})
	edges := edgeLines(ToDOT(plan))
	if len(edges) != 2 {
		t.Errorf("caption step drew an edge: %v", edges)
	}
}

func TestToDOTFallsBackToElementID(t *testing.T) {
	plan := &scene.Plan{
		Title: "Bare",
		Elements: []scene.Element{
			{ID: "node-0", Shape: scene.Shape("hexagon"), Color: scene.ColorRole("teal")},
		},
	}
	dot := ToDOT(plan)
	if !strings.Contains(dot, `"node-0" [label="node-0", shape=box, color=black];`) {
		t.Errorf("fallback node line missing:\n%s", dot)
	}
}
