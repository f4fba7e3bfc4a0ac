package layout

import (
	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/sequence"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Protocol lays out a client/server exchange: two actor boxes on opposite
// sides of the frame with a network cloud between them, and one message step
// per exchange step in request order.
func Protocol(p *diagram.ProtocolParams) (*scene.Plan, error) {
	elements := []scene.Element{
		{
			ID:       sequence.ActorClient,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: -5, Y: 0},
			Label:    "Client",
			Color:    scene.ColorBlue,
			Size:     scene.Size{W: 2.5, H: 1.2},
		},
		{
			ID:       sequence.ActorServer,
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: 5, Y: 0},
			Label:    "Server",
			Color:    scene.ColorGreen,
			Size:     scene.Size{W: 2.5, H: 1.2},
		},
		{
			ID:       "internet",
			Shape:    scene.ShapeCircle,
			Position: scene.Point{X: 0, Y: 0.5},
			Label:    "Internet",
			Color:    scene.ColorGray,
			Size:     scene.Size{W: 1.6, H: 1.6},
		},
	}

	steps := sequence.Protocol(p.Steps, p.ShowStatusCodesEnabled(), p.ShowHeadersEnabled())

	requests, responses := 0, 0
	for _, s := range p.Steps {
		if s.Direction == "response" {
			responses++
		} else {
			requests++
		}
	}

	plan := &scene.Plan{
		Title:    p.Title,
		Family:   scene.FamilyProtocol,
		Elements: elements,
		Steps:    steps,
		Summary: scene.Summary{
			"protocol_version": p.ProtocolVersion,
			"requests":         requests,
			"responses":        responses,
			"steps_by_kind":    stepTally(steps),
		},
	}
	if err := plan.Validate(); err != nil {
		return nil, errorsInternal(err)
	}
	return plan, nil
}
