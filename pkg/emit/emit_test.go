package emit

import (
	"strings"
	"testing"

	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

func samplePlan() *scene.Plan {
	return &scene.Plan{
		Title:  "HTTP Request Flow",
		Family: scene.FamilyProtocol,
		Elements: []scene.Element{
			{ID: "client", Shape: scene.ShapeBox, Position: scene.Point{X: -5, Y: 0}, Label: "Client", Color: scene.ColorBlue, Size: scene.Size{W: 2.5, H: 1.2}},
			{ID: "server", Shape: scene.ShapeBox, Position: scene.Point{X: 5, Y: 0}, Label: "Server", Color: scene.ColorGreen, Size: scene.Size{W: 2.5, H: 1.2}},
		},
		Steps: []scene.Step{
			{Ordinal: 0, From: "client", To: "server", Message: "GET /api/data", Color: scene.ColorOrange, Kind: scene.StepMessage},
			{Ordinal: 1, From: "server", To: "client", Message: "200 OK", Color: scene.ColorGreen, Kind: scene.StepMessage},
		},
		Summary: scene.Summary{"requests": 1, "responses": 1},
	}
}

func TestClassName(t *testing.T) {
	cases := []struct {
		family scene.Family
		id     string
		want   string
	}{
		{scene.FamilyProtocol, "abc123", "HTTPFlow_abc123"},
		{scene.FamilyResolution, "a-b-c", "DNSResolution_a_b_c"},
		{scene.FamilyStructure, "550e8400-e29b", "DataStructure_550e8400_e29b"},
		{scene.FamilyFlow, "x.y/z", "ProcessFlow_x_y_z"},
		{scene.Family("other"), "id", "Scene_id"},
	}
	for _, tc := range cases {
		if got := ClassName(tc.family, tc.id); got != tc.want {
			t.Errorf("ClassName(%s, %q) = %q, want %q", tc.family, tc.id, got, tc.want)
		}
	}
}

func TestRenderScript(t *testing.T) {
	script, err := Render(samplePlan(), "test-scene-1")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if script.ClassName != "HTTPFlow_test_scene_1" {
		t.Errorf("class name = %q", script.ClassName)
	}
	for _, want := range []string{
		"from manim import *",
		"class HTTPFlow_test_scene_1(Scene):",
		"def construct(self):",
		`Text("HTTP Request Flow", font_size=36)`,
		"Rectangle(width=2.5, height=1.2, color=BLUE)",
		".move_to([-5, 0, 0])",
		`Text("GET /api/data", font_size=18, color=ORANGE)`,
		`Text("200 OK", font_size=18, color=GREEN)`,
		"self.wait(1)",
	} {
		if !strings.Contains(script.Source, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	a, err := Render(samplePlan(), "same-id")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(samplePlan(), "same-id")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a.Source != b.Source {
		t.Errorf("same plan and id produced different scripts")
	}
}

func TestRenderSummaryOrderStable(t *testing.T) {
	plan := samplePlan()
	plan.Summary = scene.Summary{"zeta": 1, "alpha": 2, "mid": 3}
	script, err := Render(plan, "s")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	alpha := strings.Index(script.Source, `"alpha: 2"`)
	mid := strings.Index(script.Source, `"mid: 3"`)
	zeta := strings.Index(script.Source, `"zeta: 1"`)
	if alpha < 0 || mid < 0 || zeta < 0 || !(alpha < mid && mid < zeta) {
		t.Errorf("summary entries not in sorted order: %d, %d, %d", alpha, mid, zeta)
	}
}

func TestRenderRejectsInvalidPlan(t *testing.T) {
	plan := samplePlan()
	plan.Steps[1].Ordinal = 5
	_, err := Render(plan, "id")
	if !errors.Is(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("invalid plan: got %v, want INVALID_REQUEST", err)
	}

	if _, err := Render(samplePlan(), ""); !errors.Is(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("empty scene id: got %v", err)
	}
}

func TestRenderShapes(t *testing.T) {
	plan := &scene.Plan{
		Title:  "Shapes",
		Family: scene.FamilyFlow,
		Elements: []scene.Element{
			{ID: "a", Shape: scene.ShapeCircle, Color: scene.ColorBlue, Size: scene.Size{W: 1, H: 1}},
			{ID: "b", Shape: scene.ShapeDiamond, Color: scene.ColorYellow, Size: scene.Size{W: 1, H: 1}},
			{ID: "c", Shape: scene.ShapeParallelogram, Color: scene.ColorOrange, Size: scene.Size{W: 2, H: 1}},
			{ID: "d", Shape: scene.ShapeDoubleBox, Color: scene.ColorPurple, Size: scene.Size{W: 2, H: 1}},
		},
	}
	script, err := Render(plan, "shapes")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"Circle(radius=0.5, color=BLUE)",
		"Square(side_length=1, color=YELLOW).rotate(PI / 4)",
		"Polygon(",
		"VGroup(",
	} {
		if !strings.Contains(script.Source, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestPyString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`plain`, `"plain"`},
		{`with "quotes"`, `"with \"quotes\""`},
		{"line\nbreak", `"line\nbreak"`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, tc := range cases {
		if got := pyString(tc.in); got != tc.want {
			t.Errorf("pyString(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
