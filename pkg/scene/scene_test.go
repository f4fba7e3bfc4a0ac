package scene

import (
	"strings"
	"testing"
)

func validPlan() *Plan {
	return &Plan{
		Title:  "HTTP Request Flow",
		Family: FamilyProtocol,
		Elements: []Element{
			{ID: "client", Shape: ShapeBox, Position: Point{X: -5, Y: 0}, Label: "Client", Color: ColorBlue},
			{ID: "server", Shape: ShapeBox, Position: Point{X: 5, Y: 0}, Label: "Server", Color: ColorGreen},
		},
		Steps: []Step{
			{Ordinal: 0, From: "client", To: "server", Message: "GET /", Color: ColorOrange, Kind: StepMessage},
			{Ordinal: 1, From: "server", To: "client", Message: "200 OK", Color: ColorGreen, Kind: StepMessage},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validPlan().Validate(); err != nil {
		t.Errorf("valid plan rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Plan)
		wantErr string
	}{
		{
			name:    "empty title",
			mutate:  func(p *Plan) { p.Title = "" },
			wantErr: "no title",
		},
		{
			name:    "duplicate element id",
			mutate:  func(p *Plan) { p.Elements[1].ID = "client" },
			wantErr: "duplicate element id",
		},
		{
			name:    "empty element id",
			mutate:  func(p *Plan) { p.Elements[0].ID = "" },
			wantErr: "empty id",
		},
		{
			name:    "ordinal gap",
			mutate:  func(p *Plan) { p.Steps[1].Ordinal = 3 },
			wantErr: "ordinal",
		},
		{
			name:    "ordinal not starting at zero",
			mutate:  func(p *Plan) { p.Steps[0].Ordinal = 1 },
			wantErr: "ordinal",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestElementLookup(t *testing.T) {
	p := validPlan()
	if el := p.Element("server"); el == nil || el.Label != "Server" {
		t.Errorf("Element(server) = %+v", el)
	}
	if el := p.Element("missing"); el != nil {
		t.Errorf("Element(missing) = %+v, want nil", el)
	}
}
