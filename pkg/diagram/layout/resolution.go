package layout

import (
	"fmt"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/sequence"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Resolution lays out the name-resolution topology: the client at the bottom
// left, the root server on top, TLD and authoritative servers on the middle
// band, and optionally a local cache near the client. The step timeline is
// the canonical resolution chain for the requested domain.
func Resolution(p *diagram.ResolutionParams) (*scene.Plan, error) {
	elements := []scene.Element{
		{
			ID:       sequence.ActorClient,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: -5, Y: -3},
			Label:    "Client",
			Color:    scene.ColorBlue,
			Size:     scene.Size{W: 2.2, H: 1},
		},
		{
			ID:       sequence.ActorRoot,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: 0, Y: 2.5},
			Label:    "Root Server",
			Color:    scene.ColorPurple,
			Size:     scene.Size{W: 2.4, H: 1},
		},
		{
			ID:       sequence.ActorTLD,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: -3, Y: 0.5},
			Label:    "TLD Server",
			Color:    scene.ColorOrange,
			Size:     scene.Size{W: 2.4, H: 1},
		},
		{
			ID:       sequence.ActorAuth,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: 3, Y: 0.5},
			Label:    "Authoritative",
			Color:    scene.ColorGreen,
			Size:     scene.Size{W: 2.4, H: 1},
		},
	}
	if p.CacheEnabled() {
		elements = append(elements, scene.Element{
			ID:       sequence.ActorCache,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: -2, Y: -1.5},
			Label:    "Local Cache",
			Color:    scene.ColorYellow,
			Size:     scene.Size{W: 2.2, H: 1},
		})
	}

	steps := sequence.Resolution(p.Domain, p.CacheEnabled(), p.TimingEnabled())

	totalMS := 0
	for _, st := range steps {
		totalMS += st.TimingMS
	}

	summary := scene.Summary{
		"domain":        p.Domain,
		"record_types":  p.RecordTypes,
		"steps_by_kind": stepTally(steps),
	}
	if p.TimingEnabled() {
		summary["total_time_ms"] = totalMS
	}

	plan := &scene.Plan{
		Title:    fmt.Sprintf("DNS Resolution: %s", p.Domain),
		Family:   scene.FamilyResolution,
		Elements: elements,
		Steps:    steps,
		Summary:  summary,
	}
	if err := plan.Validate(); err != nil {
		return nil, errorsInternal(err)
	}
	return plan, nil
}
