package layout

import (
	"fmt"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/sequence"
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/scene"
	"github.com/sceneforge/sceneforge/pkg/scene/geometry"
)

// Layout constants for the process-flow strategies.
const (
	linearStepHeight    = 1.8
	branchingStepHeight = 2.0
	branchOffsetX       = 3.0
	flowTopY            = 2.0
	circularRadius      = 2.5
)

// stageShapes maps stage types to element shapes; unlisted types render as a
// plain process box.
var stageShapes = map[string]scene.Shape{
	diagram.StageStart:      scene.ShapeBox,
	diagram.StageEnd:        scene.ShapeBox,
	diagram.StageProcess:    scene.ShapeBox,
	diagram.StageDecision:   scene.ShapeDiamond,
	diagram.StageSubprocess: scene.ShapeDoubleBox,
	diagram.StageData:       scene.ShapeParallelogram,
}

var stageColors = map[string]scene.ColorRole{
	diagram.StageStart:      scene.ColorGreen,
	diagram.StageEnd:        scene.ColorRed,
	diagram.StageProcess:    scene.ColorBlue,
	diagram.StageDecision:   scene.ColorYellow,
	diagram.StageSubprocess: scene.ColorPurple,
	diagram.StageData:       scene.ColorOrange,
}

// Flow lays out a process flow. Linear flows stack stages top to bottom,
// branching flows hang conditional stages off their decision, and circular
// flows place stages around a ring with a closing transition back to the
// start.
//
// A flow with no stages has no defined geometry and fails fast.
func Flow(p *diagram.FlowParams) (*scene.Plan, error) {
	if len(p.Stages) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "process flow needs at least one stage")
	}

	var (
		elements []scene.Element
		steps    []scene.Step
	)

	switch p.FlowType {
	case diagram.FlowCircular:
		id := stageID
		for i, st := range p.Stages {
			x, y, err := geometry.CircularPosition(i, len(p.Stages), circularRadius)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeEmptyInput, err, "circular flow layout")
			}
			elements = append(elements, stageElement(st, id(i), x, y, p.ShowTiming))
		}
		steps = sequence.Circular(p.Stages, id)

	case diagram.FlowBranching:
		var (
			main         []diagram.Stage
			mainIDs      []string
			branches     = map[int][]sequence.BranchTarget{}
			lastDecision = -1
			branchCount  = 0
		)
		for _, st := range p.Stages {
			if st.Branch != "main" {
				// Side-branch stages attach to the most recent decision.
				if lastDecision < 0 {
					continue
				}
				bid := fmt.Sprintf("branch-%s-%d", st.Condition, branchCount)
				branchCount++
				x := branchOffsetX
				if st.Condition == "no" {
					x = -branchOffsetX
				}
				y := flowTopY - float64(lastDecision)*branchingStepHeight
				elements = append(elements, stageElement(st, bid, x, y, p.ShowTiming))
				branches[lastDecision] = append(branches[lastDecision], sequence.BranchTarget{
					Condition: st.Condition,
					FromID:    mainIDs[lastDecision],
					ToID:      bid,
				})
				continue
			}
			i := len(main)
			if st.Type == diagram.StageDecision {
				lastDecision = i
			}
			sid := stageID(i)
			y := flowTopY - float64(i)*branchingStepHeight
			elements = append(elements, stageElement(st, sid, 0, y, p.ShowTiming))
			main = append(main, st)
			mainIDs = append(mainIDs, sid)
		}
		steps = sequence.Branching(main, mainIDs, branches)

	default: // linear
		id := stageID
		for i, st := range p.Stages {
			y := flowTopY - float64(i)*linearStepHeight
			elements = append(elements, stageElement(st, id(i), 0, y, p.ShowTiming))
		}
		steps = sequence.Linear(p.Stages, id)
	}

	plan := &scene.Plan{
		Title:    p.Title,
		Family:   scene.FamilyFlow,
		Elements: elements,
		Steps:    steps,
		Summary: scene.Summary{
			"flow_type":     p.FlowType,
			"stages":        len(p.Stages),
			"steps_by_kind": stepTally(steps),
		},
	}
	if err := plan.Validate(); err != nil {
		return nil, errorsInternal(err)
	}
	return plan, nil
}

func stageID(i int) string { return fmt.Sprintf("stage-%d", i) }

// stageElement builds the element for one stage, appending the timing
// annotation to the label when requested.
func stageElement(st diagram.Stage, id string, x, y float64, showTiming bool) scene.Element {
	shape, ok := stageShapes[st.Type]
	if !ok {
		shape = scene.ShapeBox
	}
	color, ok := stageColors[st.Type]
	if !ok {
		color = scene.ColorBlue
	}
	label := st.Name
	if showTiming && st.Timing != "" {
		label = fmt.Sprintf("%s (%s)", st.Name, st.Timing)
	}
	return scene.Element{
		ID:       id,
		Shape:    shape,
		Position: scene.Point{X: x, Y: y},
		Label:    label,
		Color:    color,
		Size:     scene.Size{W: 2.6, H: 1},
	}
}
